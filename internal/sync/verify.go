package sync

import (
	"strconv"

	"WooWithOdoo/pkg/logging"

	"github.com/pkg/errors"
)

// VerifyMapping resolves every mapping entry against both systems and logs
// the storefront-name to Odoo-name pairs. Useful after editing the mapping
// file; does not modify anything.
func (s *Syncer) VerifyMapping() error {

	logger := logging.GetLogger()
	logger.Println("VerifyMapping:>Start")
	defer logger.Println("VerifyMapping:>End")

	if _, err := s.odoo.Authenticate(); err != nil {
		return errors.Wrap(err, "failed odoo.Authenticate()")
	}

	odooProducts, err := s.odoo.ProductListByBarcodes(s.mapping.Barcodes())
	if err != nil {
		return errors.Wrap(err, "failed odoo.ProductListByBarcodes()")
	}

	odooByBarcode := make(map[string]string)
	for _, product := range odooProducts {
		if product.Barcode != "" {
			odooByBarcode[product.Barcode] = product.Name
		}
	}

	for _, key := range s.mapping.Keys() {
		wooName := "(not found in Woo)"
		if id, err := strconv.Atoi(key); err == nil {
			if product, err := s.woo.ProductGet(id); err != nil {
				logger.Infof("failed woo.ProductGet(%s), error: %v", key, err)
			} else {
				wooName = product.Name
			}
		}

		barcodes, _ := s.mapping.ResolveAll(key)
		for _, barcode := range barcodes {
			odooName, ok := odooByBarcode[barcode]
			if !ok {
				odooName = "(not found in Odoo)"
			}
			logger.Infof("mapping %s: %s -> [%s] %s", key, wooName, barcode, odooName)
		}
	}

	return nil
}

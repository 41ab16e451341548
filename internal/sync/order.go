package sync

import (
	"fmt"
	"strconv"

	"WooWithOdoo/internal/mapping"
	"WooWithOdoo/internal/odooapi"
	modelsOdoo "WooWithOdoo/internal/odooapi/models"
	modelsWoo "WooWithOdoo/internal/wooapi/models"
	"WooWithOdoo/pkg/logging"
)

const (
	ERROR_NO_MAPPING   = "no mapping"
	ERROR_NOT_FOUND    = "product not found in Odoo"
	ERROR_INVALID_ITEM = "invalid line item"
)

// Processor holds the per-order fulfillment logic
type Processor struct {
	mapping *mapping.Mapping
	odoo    odooapi.ODOOAPI
}

func NewProcessor(m *mapping.Mapping, odoo odooapi.ODOOAPI) *Processor {
	return &Processor{
		mapping: m,
		odoo:    odoo,
	}
}

// ProcessOrder fulfills every line item of one order in sequence. One item
// failing never blocks its siblings.
func (p *Processor) ProcessOrder(order *modelsWoo.Order) []*LineItemResult {

	logger := logging.GetLogger()
	logger.Println("ProcessOrder:>Start")
	defer logger.Println("ProcessOrder:>End")

	logger.Infof("processing order #%s (ID: %d)", order.Number, order.ID)

	var results []*LineItemResult

	for i := range order.LineItems {
		item := &order.LineItems[i]
		logger.Infof("line item: %s (WC ID: %d, quantity: %d)", item.Name, item.ProductID, item.Quantity)
		results = append(results, p.processLineItem(order, item))
	}

	return results
}

func (p *Processor) processLineItem(order *modelsWoo.Order, item *modelsWoo.LineItem) *LineItemResult {

	logger := logging.GetLogger()

	key := item.EffectiveKey()
	if key == 0 || item.Quantity <= 0 {
		logger.Infof("line item %s has no usable key or quantity, skipped", item.Name)
		return &LineItemResult{
			Skipped:      true,
			ProductName:  item.Name,
			WooProductID: key,
			Error:        ERROR_INVALID_ITEM,
		}
	}

	barcodes, ok := p.mapping.ResolveAll(strconv.Itoa(key))
	if !ok {
		logger.Infof("no mapping for WC ID %d, line item skipped", key)
		return &LineItemResult{
			Skipped:      true,
			ProductName:  item.Name,
			WooProductID: key,
			Error:        ERROR_NO_MAPPING,
		}
	}

	// with a 1-to-many mapping the first barcode known to Odoo wins
	var product *modelsOdoo.Product
	var barcode string
	for _, b := range barcodes {
		if found := p.odoo.ProductGetByBarcode(b); found != nil {
			product = found
			barcode = b
			break
		}
	}
	if product == nil {
		logger.Infof("no Odoo product for WC ID %d, barcodes %v", key, barcodes)
		return &LineItemResult{
			ProductName:  item.Name,
			WooProductID: key,
			Barcode:      barcodes[0],
			Error:        ERROR_NOT_FOUND,
		}
	}

	origin := fmt.Sprintf("WooCommerce #%s", order.Number)
	pickingID, err := p.odoo.StockMoveOut(product.ID, item.Quantity, origin)
	if err != nil {
		logger.Errorf("failed odoo.StockMoveOut, WC ID %d, barcode %s, error: %v", key, barcode, err)
		return &LineItemResult{
			ProductName:  item.Name,
			WooProductID: key,
			Barcode:      barcode,
			Error:        err.Error(),
		}
	}

	logger.Infof("picking #%d created for %s", pickingID, product.Name)
	return &LineItemResult{
		Success:      true,
		ProductName:  product.Name,
		WooProductID: key,
		Barcode:      barcode,
		Quantity:     item.Quantity,
		PickingID:    pickingID,
	}
}

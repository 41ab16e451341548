package odooapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"WooWithOdoo/internal/config"
	"WooWithOdoo/internal/odooapi/models"
	"WooWithOdoo/pkg/logging"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type ODOOAPI interface {
	Version() (string, error)
	Authenticate() (int, error)

	LocationCustomer() int
	PickingTypeOutgoing() int

	ProductGetByBarcode(barcode string) *models.Product
	ProductListByBarcodes(barcodes []string) ([]*models.Product, error)

	StockMoveOut(productID int, quantity int, origin string) (int, error)

	ExecuteKw(model, method string, args []interface{}, kwargs map[string]interface{}) (json.RawMessage, error)
}

type odooapi struct {
	url  string
	db   string
	user string
	pass string
	uid  int

	locationID         int
	customerLocationID int
	pickingTypeID      int

	api       *resty.Client
	requestID int64
}

func (o *odooapi) call(service, method string, args ...interface{}) (json.RawMessage, error) {
	logger := logging.GetLogger()

	if args == nil {
		args = []interface{}{}
	}

	req := models.RPCRequest{
		Jsonrpc: "2.0",
		Method:  "call",
		Params: models.RPCParams{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: atomic.AddInt64(&o.requestID, 1),
	}

	var out models.RPCResponse
	r, err := o.api.R().SetBody(&req).SetResult(&out).Post("/jsonrpc")
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Odoo Api, service:%s, method:%s", service, method)
	}

	if r.StatusCode() != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("unexpected status from Odoo Api: %d, service:%s, method:%s", r.StatusCode(), service, method))
	}

	if out.Error != nil {
		logger.Debugf("Odoo RPC error: %s", out.Error.Data.Debug)
		return nil, out.Error
	}

	return out.Result, nil
}

// ExecuteKw is the generic object call (database, uid, password, model,
// method, args, kwargs); Authenticate must have succeeded first
func (o *odooapi) ExecuteKw(model, method string, args []interface{}, kwargs map[string]interface{}) (json.RawMessage, error) {
	if o.uid == 0 {
		return nil, errors.New("not authenticated, call Authenticate() first")
	}
	if args == nil {
		args = []interface{}{}
	}
	if kwargs == nil {
		kwargs = map[string]interface{}{}
	}
	return o.call("object", "execute_kw", o.db, o.uid, o.pass, model, method, args, kwargs)
}

func (o *odooapi) Version() (string, error) {
	logger := logging.GetLogger()
	logger.Println("Version:>Start")
	defer logger.Println("Version:>End")

	result, err := o.call("common", "version")
	if err != nil {
		return "", errors.Wrap(err, "failed common.version")
	}

	var info struct {
		ServerVersion string `json:"server_version"`
	}
	err = json.Unmarshal(result, &info)
	if err != nil {
		return "", errors.Wrap(err, "failed json.Unmarshal() of version info")
	}

	return info.ServerVersion, nil
}

// Authenticate resolves the user id for all subsequent object calls
func (o *odooapi) Authenticate() (int, error) {
	logger := logging.GetLogger()
	logger.Println("Authenticate:>Start")
	defer logger.Println("Authenticate:>End")

	var missing []string
	if o.url == "" {
		missing = append(missing, "ODOO.URL")
	}
	if o.db == "" {
		missing = append(missing, "ODOO.DB")
	}
	if o.user == "" {
		missing = append(missing, "ODOO.User")
	}
	if o.pass == "" {
		missing = append(missing, "ODOO.Pass")
	}
	if len(missing) > 0 {
		return 0, &models.ErrorConfig{Missing: missing}
	}

	result, err := o.call("common", "authenticate", o.db, o.user, o.pass, map[string]interface{}{})
	if err != nil {
		return 0, &models.ErrorAuth{Reason: err.Error()}
	}

	// the server answers false for bad credentials, a user id otherwise
	var uid int
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return 0, &models.ErrorAuth{Reason: fmt.Sprintf("credentials rejected for user %s, db %s", o.user, o.db)}
	}

	o.uid = uid
	logger.Infof("authenticated in Odoo, uid: %d", uid)
	return uid, nil
}

func (o *odooapi) searchIDs(model string, domain []interface{}) ([]int, error) {
	result, err := o.ExecuteKw(model, "search",
		[]interface{}{domain},
		map[string]interface{}{"limit": 1})
	if err != nil {
		return nil, err
	}
	var ids []int
	err = json.Unmarshal(result, &ids)
	if err != nil {
		return nil, errors.Wrapf(err, "failed json.Unmarshal() of %s search result", model)
	}
	return ids, nil
}

// LocationCustomer resolves the location flagged with customer usage; the
// configured fallback id is used when the lookup errors or finds nothing
func (o *odooapi) LocationCustomer() int {
	logger := logging.GetLogger()
	logger.Println("LocationCustomer:>Start")
	defer logger.Println("LocationCustomer:>End")

	ids, err := o.searchIDs("stock.location", []interface{}{
		[]interface{}{"usage", "=", "customer"},
	})
	if err != nil {
		logger.Errorf("failed stock.location search, using fallback location %d, error: %v", o.customerLocationID, err)
		return o.customerLocationID
	}
	if len(ids) == 0 {
		logger.Infof("no customer-usage location found, using fallback location %d", o.customerLocationID)
		return o.customerLocationID
	}
	return ids[0]
}

// PickingTypeOutgoing resolves the outgoing operation type with the same
// fallback policy as LocationCustomer
func (o *odooapi) PickingTypeOutgoing() int {
	logger := logging.GetLogger()
	logger.Println("PickingTypeOutgoing:>Start")
	defer logger.Println("PickingTypeOutgoing:>End")

	ids, err := o.searchIDs("stock.picking.type", []interface{}{
		[]interface{}{"code", "=", "outgoing"},
	})
	if err != nil {
		logger.Errorf("failed stock.picking.type search, using fallback type %d, error: %v", o.pickingTypeID, err)
		return o.pickingTypeID
	}
	if len(ids) == 0 {
		logger.Infof("no outgoing picking type found, using fallback type %d", o.pickingTypeID)
		return o.pickingTypeID
	}
	return ids[0]
}

// ProductGetByBarcode returns nil both when no product matches and when the
// remote call fails; the error is logged, a miss is not an error condition
func (o *odooapi) ProductGetByBarcode(barcode string) *models.Product {
	logger := logging.GetLogger()
	logger.Println("ProductGetByBarcode:>Start")
	defer logger.Println("ProductGetByBarcode:>End")

	result, err := o.ExecuteKw("product.product", "search_read",
		[]interface{}{[]interface{}{
			[]interface{}{"barcode", "=", barcode},
		}},
		map[string]interface{}{"fields": []string{"id", "name", "barcode", "uom_id"}, "limit": 1})
	if err != nil {
		logger.Errorf("failed product.product search_read, barcode:%s, error: %v", barcode, err)
		return nil
	}

	var products []*models.Product
	err = json.Unmarshal(result, &products)
	if err != nil {
		logger.Errorf("failed json.Unmarshal() of product.product result, barcode:%s, error: %v", barcode, err)
		return nil
	}
	if len(products) == 0 {
		logger.Infof("product not found in Odoo, barcode:%s", barcode)
		return nil
	}

	return products[0]
}

// ProductListByBarcodes is a bulk lookup used by the mapping verification
func (o *odooapi) ProductListByBarcodes(barcodes []string) ([]*models.Product, error) {
	logger := logging.GetLogger()
	logger.Println("ProductListByBarcodes:>Start")
	defer logger.Println("ProductListByBarcodes:>End")

	result, err := o.ExecuteKw("product.product", "search_read",
		[]interface{}{[]interface{}{
			[]interface{}{"barcode", "in", barcodes},
		}},
		map[string]interface{}{"fields": []string{"id", "name", "barcode"}})
	if err != nil {
		return nil, errors.Wrap(err, "failed product.product search_read by barcode list")
	}

	var products []*models.Product
	err = json.Unmarshal(result, &products)
	if err != nil {
		return nil, errors.Wrap(err, "failed json.Unmarshal() of product.product result")
	}
	return products, nil
}

// StockMoveOut runs the outgoing warehouse transfer for one line item:
// picking in draft, move line, confirm, realized quantities, validate.
// A failed step aborts the sequence; documents created by the earlier steps
// are not reverted.
func (o *odooapi) StockMoveOut(productID int, quantity int, origin string) (int, error) {
	logger := logging.GetLogger()
	logger.Println("StockMoveOut:>Start")
	defer logger.Println("StockMoveOut:>End")

	destLocation := o.LocationCustomer()
	pickingType := o.PickingTypeOutgoing()

	result, err := o.ExecuteKw("product.product", "read",
		[]interface{}{[]int{productID}},
		map[string]interface{}{"fields": []string{"uom_id", "name"}})
	if err != nil {
		return 0, &models.ErrorTransaction{Step: "product read", Err: err}
	}
	var infos []struct {
		Name  string          `json:"name"`
		UomID models.Many2One `json:"uom_id"`
	}
	if err := json.Unmarshal(result, &infos); err != nil {
		return 0, &models.ErrorTransaction{Step: "product read", Err: err}
	}
	if len(infos) == 0 {
		return 0, &models.ErrorTransaction{Step: "product read", Err: errors.New(fmt.Sprintf("product %d not found", productID))}
	}
	productUom := infos[0].UomID.ID
	if productUom == 0 {
		productUom = 1
	}
	productName := infos[0].Name

	pickingVals := map[string]interface{}{
		"picking_type_id":  pickingType,
		"location_id":      o.locationID,
		"location_dest_id": destLocation,
		"origin":           origin,
		"state":            "draft",
	}
	result, err = o.ExecuteKw("stock.picking", "create", []interface{}{pickingVals}, nil)
	if err != nil {
		return 0, &models.ErrorTransaction{Step: "picking create", Err: err}
	}
	var pickingID int
	if err := json.Unmarshal(result, &pickingID); err != nil {
		return 0, &models.ErrorTransaction{Step: "picking create", Err: err}
	}
	logger.Infof("picking %d created, origin: %s", pickingID, origin)

	moveVals := map[string]interface{}{
		"name":             fmt.Sprintf("WooCommerce out: %s", productName),
		"product_id":       productID,
		"product_uom_qty":  quantity,
		"product_uom":      productUom,
		"picking_id":       pickingID,
		"location_id":      o.locationID,
		"location_dest_id": destLocation,
		"state":            "draft",
	}
	result, err = o.ExecuteKw("stock.move", "create", []interface{}{moveVals}, nil)
	if err != nil {
		return 0, &models.ErrorTransaction{Step: "move create", Err: err}
	}
	var moveID int
	if err := json.Unmarshal(result, &moveID); err != nil {
		return 0, &models.ErrorTransaction{Step: "move create", Err: err}
	}

	_, err = o.ExecuteKw("stock.picking", "action_confirm", []interface{}{[]int{pickingID}}, nil)
	if err != nil {
		return 0, &models.ErrorTransaction{Step: "picking confirm", Err: err}
	}

	// the reservation step may auto-create move lines; set the realized
	// quantity on those, create one directly otherwise
	result, err = o.ExecuteKw("stock.move.line", "search_read",
		[]interface{}{[]interface{}{
			[]interface{}{"move_id", "=", moveID},
		}},
		map[string]interface{}{"fields": []string{"id"}})
	if err != nil {
		return 0, &models.ErrorTransaction{Step: "move line search", Err: err}
	}
	var moveLines []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(result, &moveLines); err != nil {
		return 0, &models.ErrorTransaction{Step: "move line search", Err: err}
	}

	if len(moveLines) > 0 {
		lineIDs := make([]int, 0, len(moveLines))
		for _, line := range moveLines {
			lineIDs = append(lineIDs, line.ID)
		}
		_, err = o.ExecuteKw("stock.move.line", "write",
			[]interface{}{lineIDs, map[string]interface{}{"qty_done": quantity}}, nil)
		if err != nil {
			return 0, &models.ErrorTransaction{Step: "move line write", Err: err}
		}
	} else {
		lineVals := map[string]interface{}{
			"move_id":          moveID,
			"picking_id":       pickingID,
			"product_id":       productID,
			"product_uom_id":   productUom,
			"qty_done":         quantity,
			"location_id":      o.locationID,
			"location_dest_id": destLocation,
		}
		_, err = o.ExecuteKw("stock.move.line", "create", []interface{}{lineVals}, nil)
		if err != nil {
			return 0, &models.ErrorTransaction{Step: "move line create", Err: err}
		}
	}

	_, err = o.ExecuteKw("stock.picking", "button_validate", []interface{}{[]int{pickingID}}, nil)
	if err != nil {
		return 0, &models.ErrorTransaction{Step: "picking validate", Err: err}
	}

	logger.Infof("picking %d validated, product %d, quantity %d", pickingID, productID, quantity)
	return pickingID, nil
}

func NewAPI(cfg *config.Config) ODOOAPI {

	api := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ODOO.URL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(cfg.ODOO.Timeout) * time.Second)

	return &odooapi{
		url:                cfg.ODOO.URL,
		db:                 cfg.ODOO.DB,
		user:               cfg.ODOO.User,
		pass:               cfg.ODOO.Pass,
		locationID:         cfg.ODOO.LocationID,
		customerLocationID: cfg.ODOO.CustomerLocationID,
		pickingTypeID:      cfg.ODOO.PickingTypeID,
		api:                api,
	}
}

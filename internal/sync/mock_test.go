package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"WooWithOdoo/internal/config"
	"WooWithOdoo/internal/mapping"
	modelsOdoo "WooWithOdoo/internal/odooapi/models"
	modelsWoo "WooWithOdoo/internal/wooapi/models"
	optionsWoo "WooWithOdoo/internal/wooapi/options"

	"github.com/stretchr/testify/require"
)

type wooMock struct {
	orders  []*modelsWoo.Order
	listErr error
	noteErr error
	markErr error

	listCalls int
	listHook  func()
	notes     map[int][]string
	synced    map[int]bool
}

func newWooMock(orders ...*modelsWoo.Order) *wooMock {
	return &wooMock{
		orders: orders,
		notes:  make(map[int][]string),
		synced: make(map[int]bool),
	}
}

func (w *wooMock) OrderList(opts ...optionsWoo.Option) ([]*modelsWoo.Order, error) {
	w.listCalls++
	if w.listHook != nil {
		w.listHook()
	}
	if w.listErr != nil {
		return nil, w.listErr
	}
	return w.orders, nil
}

func (w *wooMock) OrderNoteAdd(orderID int, note string) error {
	if w.noteErr != nil {
		return w.noteErr
	}
	w.notes[orderID] = append(w.notes[orderID], note)
	return nil
}

func (w *wooMock) OrderMarkSynced(orderID int) error {
	if w.markErr != nil {
		return w.markErr
	}
	w.synced[orderID] = true
	return nil
}

func (w *wooMock) ProductGet(ID int) (*modelsWoo.Product, error) {
	return &modelsWoo.Product{ID: ID, Name: fmt.Sprintf("product %d", ID)}, nil
}

type moveCall struct {
	ProductID int
	Quantity  int
	Origin    string
}

type odooMock struct {
	versionErr error
	authErr    error
	products   map[string]*modelsOdoo.Product
	moveErrFor map[int]error

	nextPickingID  int
	moves          []moveCall
	barcodeLookups []string
}

func newOdooMock() *odooMock {
	return &odooMock{
		products:      make(map[string]*modelsOdoo.Product),
		moveErrFor:    make(map[int]error),
		nextPickingID: 500,
	}
}

func (o *odooMock) Version() (string, error) {
	if o.versionErr != nil {
		return "", o.versionErr
	}
	return "17.0", nil
}

func (o *odooMock) Authenticate() (int, error) {
	if o.authErr != nil {
		return 0, o.authErr
	}
	return 2, nil
}

func (o *odooMock) LocationCustomer() int    { return 9 }
func (o *odooMock) PickingTypeOutgoing() int { return 1 }

func (o *odooMock) ProductGetByBarcode(barcode string) *modelsOdoo.Product {
	o.barcodeLookups = append(o.barcodeLookups, barcode)
	return o.products[barcode]
}

func (o *odooMock) ProductListByBarcodes(barcodes []string) ([]*modelsOdoo.Product, error) {
	var out []*modelsOdoo.Product
	for _, barcode := range barcodes {
		if product, ok := o.products[barcode]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (o *odooMock) StockMoveOut(productID int, quantity int, origin string) (int, error) {
	if err := o.moveErrFor[productID]; err != nil {
		return 0, err
	}
	o.moves = append(o.moves, moveCall{ProductID: productID, Quantity: quantity, Origin: origin})
	o.nextPickingID++
	return o.nextPickingID, nil
}

func (o *odooMock) ExecuteKw(model, method string, args []interface{}, kwargs map[string]interface{}) (json.RawMessage, error) {
	return json.RawMessage("null"), nil
}

func newTestMapping(t *testing.T, table map[string]interface{}) *mapping.Mapping {
	t.Helper()

	file := filepath.Join(t.TempDir(), "mapping.json")
	data, err := json.Marshal(table)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data, 0644))

	return mapping.NewMapping(file)
}

func newTestConfig() *config.Config {
	cfg := new(config.Config)
	cfg.ORDERSYNC.PerPage = 50
	return cfg
}

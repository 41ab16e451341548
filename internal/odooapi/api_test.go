package odooapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"WooWithOdoo/internal/config"
	"WooWithOdoo/internal/odooapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objectCall struct {
	Model  string
	Method string
	Args   []interface{}
	Kwargs map[string]interface{}
}

// objectHandler answers one execute_kw call; returning an ErrorRPC puts it
// into the JSON-RPC error envelope
type objectHandler func(call objectCall) (interface{}, *models.ErrorRPC)

func newOdooServer(t *testing.T, uid interface{}, handler objectHandler, calls *[]objectCall) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jsonrpc", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req models.RPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result interface{}
		var rpcErr *models.ErrorRPC

		switch req.Params.Service {
		case "common":
			switch req.Params.Method {
			case "version":
				result = map[string]interface{}{"server_version": "17.0"}
			case "authenticate":
				result = uid
			default:
				t.Fatalf("unexpected common method %s", req.Params.Method)
			}
		case "object":
			require.Equal(t, "execute_kw", req.Params.Method)
			require.Len(t, req.Params.Args, 7)

			call := objectCall{
				Model:  req.Params.Args[3].(string),
				Method: req.Params.Args[4].(string),
			}
			call.Args, _ = req.Params.Args[5].([]interface{})
			call.Kwargs, _ = req.Params.Args[6].(map[string]interface{})

			if calls != nil {
				*calls = append(*calls, call)
			}
			result, rpcErr = handler(call)
		default:
			t.Fatalf("unexpected service %s", req.Params.Service)
		}

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestConfig(url string) *config.Config {
	cfg := new(config.Config)
	cfg.ODOO.URL = url
	cfg.ODOO.DB = "odoo17_test"
	cfg.ODOO.User = "admin"
	cfg.ODOO.Pass = "admin"
	cfg.ODOO.LocationID = 8
	cfg.ODOO.CustomerLocationID = 9
	cfg.ODOO.PickingTypeID = 1
	cfg.ODOO.Timeout = 5
	return cfg
}

func TestVersion(t *testing.T) {
	server := newOdooServer(t, 2, nil, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))

	version, err := api.Version()
	require.NoError(t, err)
	assert.Equal(t, "17.0", version)
}

func TestAuthenticate(t *testing.T) {
	server := newOdooServer(t, 7, nil, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))

	uid, err := api.Authenticate()
	require.NoError(t, err)
	assert.Equal(t, 7, uid)
}

func TestAuthenticateRejected(t *testing.T) {
	server := newOdooServer(t, false, nil, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))

	_, err := api.Authenticate()
	require.Error(t, err)

	var errAuth *models.ErrorAuth
	require.ErrorAs(t, err, &errAuth)
}

func TestAuthenticateMissingConfig(t *testing.T) {
	cfg := new(config.Config)
	cfg.ODOO.URL = "http://odoo.example.com"
	api := NewAPI(cfg)

	_, err := api.Authenticate()
	require.Error(t, err)

	var errConfig *models.ErrorConfig
	require.ErrorAs(t, err, &errConfig)

	Assert := assert.New(t)
	Assert.Contains(errConfig.Missing, "ODOO.DB")
	Assert.Contains(errConfig.Missing, "ODOO.User")
	Assert.Contains(errConfig.Missing, "ODOO.Pass")
	Assert.NotContains(errConfig.Missing, "ODOO.URL")
}

func TestExecuteKwRequiresAuthentication(t *testing.T) {
	server := newOdooServer(t, 2, nil, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))

	_, err := api.ExecuteKw("product.product", "search", nil, nil)
	assert.Error(t, err)
}

func TestProductGetByBarcode(t *testing.T) {
	server := newOdooServer(t, 2, func(call objectCall) (interface{}, *models.ErrorRPC) {
		require.Equal(t, "product.product", call.Model)
		require.Equal(t, "search_read", call.Method)
		return []map[string]interface{}{
			{"id": 42, "name": "Widget", "barcode": "202500000059", "uom_id": []interface{}{1, "Units"}},
		}, nil
	}, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	product := api.ProductGetByBarcode("202500000059")
	require.NotNil(t, product)

	Assert := assert.New(t)
	Assert.Equal(42, product.ID)
	Assert.Equal("Widget", product.Name)
	Assert.Equal(1, product.UomID.ID)
}

func TestProductGetByBarcodeAbsent(t *testing.T) {
	server := newOdooServer(t, 2, func(call objectCall) (interface{}, *models.ErrorRPC) {
		return []map[string]interface{}{}, nil
	}, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	assert.Nil(t, api.ProductGetByBarcode("000"))
}

func TestProductGetByBarcodeRemoteError(t *testing.T) {
	server := newOdooServer(t, 2, func(call objectCall) (interface{}, *models.ErrorRPC) {
		return nil, &models.ErrorRPC{Code: 200, Message: "Odoo Server Error"}
	}, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	// a remote error is logged and treated as a miss
	assert.Nil(t, api.ProductGetByBarcode("000"))
}

func TestLocationCustomer(t *testing.T) {
	server := newOdooServer(t, 2, func(call objectCall) (interface{}, *models.ErrorRPC) {
		require.Equal(t, "stock.location", call.Model)
		require.Equal(t, "search", call.Method)
		return []int{15}, nil
	}, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	assert.Equal(t, 15, api.LocationCustomer())
}

func TestLocationCustomerFallback(t *testing.T) {
	server := newOdooServer(t, 2, func(call objectCall) (interface{}, *models.ErrorRPC) {
		return []int{}, nil
	}, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	assert.Equal(t, 9, api.LocationCustomer())
}

func TestPickingTypeOutgoingFallbackOnError(t *testing.T) {
	server := newOdooServer(t, 2, func(call objectCall) (interface{}, *models.ErrorRPC) {
		return nil, &models.ErrorRPC{Code: 200, Message: "boom"}
	}, nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	assert.Equal(t, 1, api.PickingTypeOutgoing())
}

// stockMoveHandler simulates the warehouse side of the transfer sequence
func stockMoveHandler(t *testing.T, existingMoveLines []int, failValidate bool) objectHandler {
	return func(call objectCall) (interface{}, *models.ErrorRPC) {
		switch call.Model + "." + call.Method {
		case "stock.location.search":
			return []int{9}, nil
		case "stock.picking.type.search":
			return []int{1}, nil
		case "product.product.read":
			return []map[string]interface{}{
				{"name": "Widget", "uom_id": []interface{}{1, "Units"}},
			}, nil
		case "stock.picking.create":
			return 501, nil
		case "stock.move.create":
			return 601, nil
		case "stock.picking.action_confirm":
			return true, nil
		case "stock.move.line.search_read":
			lines := make([]map[string]interface{}, 0, len(existingMoveLines))
			for _, id := range existingMoveLines {
				lines = append(lines, map[string]interface{}{"id": id})
			}
			return lines, nil
		case "stock.move.line.write":
			return true, nil
		case "stock.move.line.create":
			return 701, nil
		case "stock.picking.button_validate":
			if failValidate {
				return nil, &models.ErrorRPC{Code: 200, Message: "You cannot validate a transfer"}
			}
			return true, nil
		default:
			t.Fatalf("unexpected call %s.%s", call.Model, call.Method)
			return nil, nil
		}
	}
}

func TestStockMoveOutWithReservedLines(t *testing.T) {
	var calls []objectCall
	server := newOdooServer(t, 2, stockMoveHandler(t, []int{801}, false), &calls)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	pickingID, err := api.StockMoveOut(42, 2, "WooCommerce #1001")
	require.NoError(t, err)
	assert.Equal(t, 501, pickingID)

	var sequence []string
	for _, call := range calls {
		sequence = append(sequence, call.Model+"."+call.Method)
	}
	assert.Equal(t, []string{
		"stock.location.search",
		"stock.picking.type.search",
		"product.product.read",
		"stock.picking.create",
		"stock.move.create",
		"stock.picking.action_confirm",
		"stock.move.line.search_read",
		"stock.move.line.write",
		"stock.picking.button_validate",
	}, sequence)

	// the picking carries the order reference and the configured locations
	for _, call := range calls {
		if call.Model == "stock.picking" && call.Method == "create" {
			vals := call.Args[0].(map[string]interface{})
			assert.Equal(t, "WooCommerce #1001", vals["origin"])
			assert.Equal(t, float64(8), vals["location_id"])
			assert.Equal(t, float64(9), vals["location_dest_id"])
			assert.Equal(t, "draft", vals["state"])
		}
		if call.Model == "stock.move.line" && call.Method == "write" {
			vals := call.Args[1].(map[string]interface{})
			assert.Equal(t, float64(2), vals["qty_done"])
		}
	}
}

func TestStockMoveOutCreatesLineWhenNoneReserved(t *testing.T) {
	var calls []objectCall
	server := newOdooServer(t, 2, stockMoveHandler(t, nil, false), &calls)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	pickingID, err := api.StockMoveOut(42, 3, "WooCommerce #1002")
	require.NoError(t, err)
	assert.Equal(t, 501, pickingID)

	var createdLine bool
	for _, call := range calls {
		if call.Model == "stock.move.line" && call.Method == "create" {
			createdLine = true
			vals := call.Args[0].(map[string]interface{})
			assert.Equal(t, float64(3), vals["qty_done"])
			assert.Equal(t, float64(601), vals["move_id"])
		}
		if call.Model == "stock.move.line" && call.Method == "write" {
			t.Fatal("write must not be called when no move lines exist")
		}
	}
	assert.True(t, createdLine)
}

func TestStockMoveOutValidateFails(t *testing.T) {
	server := newOdooServer(t, 2, stockMoveHandler(t, []int{801}, true), nil)
	defer server.Close()

	api := NewAPI(newTestConfig(server.URL))
	_, err := api.Authenticate()
	require.NoError(t, err)

	pickingID, err := api.StockMoveOut(42, 2, "WooCommerce #1003")
	require.Error(t, err)
	assert.Equal(t, 0, pickingID)

	var errTx *models.ErrorTransaction
	require.ErrorAs(t, err, &errTx)
	assert.Equal(t, "picking validate", errTx.Step)
	assert.Contains(t, errTx.Error(), "You cannot validate a transfer")
}

func TestMany2OneUnmarshal(t *testing.T) {
	Assert := assert.New(t)

	var m models.Many2One
	require.NoError(t, json.Unmarshal([]byte(`[5, "Units"]`), &m))
	Assert.Equal(5, m.ID)
	Assert.Equal("Units", m.Name)

	require.NoError(t, json.Unmarshal([]byte(`false`), &m))
	Assert.Equal(0, m.ID)
	Assert.Equal("", m.Name)
}

package wooapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"WooWithOdoo/internal/wooapi/models"
	optionsWoo "WooWithOdoo/internal/wooapi/options"
	"WooWithOdoo/pkg/logging"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type WOOAPI interface {
	OrderList(opts ...optionsWoo.Option) ([]*models.Order, error)
	OrderNoteAdd(orderID int, note string) error
	OrderMarkSynced(orderID int) error

	ProductGet(ID int) (*models.Product, error)
}

type wooapi struct {
	url         string
	key         string
	secret      string
	api         *resty.Client
	rps         int
	requestTime time.Time
}

func (w *wooapi) CheckRPS() {
	if w.rps <= 0 {
		return
	}

	logger := logging.GetLogger()

	TimeRequest := w.requestTime
	TimeNow := time.Now()
	TimeDiff := TimeNow.Sub(w.requestTime)
	TimeRPS := time.Second / time.Duration(w.rps)

	if TimeDiff <= TimeRPS {
		timeSleep := TimeRequest.Add(TimeRPS).Sub(TimeNow)
		logger.Debugf("Over RPS, timeSleep: %s", timeSleep)
		time.Sleep(timeSleep)
	}
}

func (w *wooapi) OrderList(opts ...optionsWoo.Option) ([]*models.Order, error) {
	logger := logging.GetLogger()
	logger.Println("OrderList:>Start")
	defer logger.Println("OrderList:>End")

	w.CheckRPS()

	endpoint := "orders"
	logger.Debugf("Endpoint: %s", endpoint)

	req := w.api.R()
	Option := new(optionsWoo.OptionStruct)
	for _, opt := range opts {
		opt(Option)
		req.SetQueryParam(Option.Key, Option.Value)
	}

	r, err := req.Get(endpoint)
	w.requestTime = time.Now()
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	logger.Debugf(string(r.Body()))

	if r.StatusCode() != http.StatusOK {
		var ErrorWoo models.ErrorWoo
		err := json.Unmarshal(r.Body(), &ErrorWoo)
		if err != nil {
			return nil, errors.Wrapf(err, "failed json.Unmarshal(), status:%d", r.StatusCode())
		}
		return nil, &ErrorWoo
	}

	logger.Debugf("X-WP-TotalPages: %s", r.Header().Get("X-WP-TotalPages"))
	var orders []*models.Order
	err = json.Unmarshal(r.Body(), &orders)
	if err != nil {
		return nil, errors.Wrapf(err, "failed json.Unmarshal(), endpoint:%s", endpoint)
	}
	return orders, nil
}

func (w *wooapi) OrderNoteAdd(orderID int, note string) error {
	logger := logging.GetLogger()
	logger.Println("OrderNoteAdd:>Start")
	defer logger.Println("OrderNoteAdd:>End")

	w.CheckRPS()

	endpoint := fmt.Sprintf("orders/%d/notes", orderID)
	logger.Debugf("Endpoint: %s", endpoint)

	body := &models.OrderNote{
		Note:         note,
		CustomerNote: false,
	}

	r, err := w.api.R().SetBody(body).Post(endpoint)
	w.requestTime = time.Now()
	if err != nil {
		return errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	logger.Debugf(string(r.Body()))

	if r.StatusCode() != http.StatusCreated {
		var ErrorWoo models.ErrorWoo
		err := json.Unmarshal(r.Body(), &ErrorWoo)
		if err != nil {
			return errors.Wrapf(err, "failed json.Unmarshal(), status:%d", r.StatusCode())
		}
		return &ErrorWoo
	}

	return nil
}

// OrderMarkSynced writes the synced flag into the order metadata so the next
// run skips the order
func (w *wooapi) OrderMarkSynced(orderID int) error {
	logger := logging.GetLogger()
	logger.Println("OrderMarkSynced:>Start")
	defer logger.Println("OrderMarkSynced:>End")

	w.CheckRPS()

	endpoint := fmt.Sprintf("orders/%d", orderID)
	logger.Debugf("Endpoint: %s", endpoint)

	body := &models.OrderUpdate{
		MetaData: []models.MetaData{
			{Key: models.META_KEY_SYNCED, Value: "1"},
		},
	}

	r, err := w.api.R().SetBody(body).Put(endpoint)
	w.requestTime = time.Now()
	if err != nil {
		return errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	logger.Debugf(string(r.Body()))

	if r.StatusCode() != http.StatusOK {
		var ErrorWoo models.ErrorWoo
		err := json.Unmarshal(r.Body(), &ErrorWoo)
		if err != nil {
			return errors.Wrapf(err, "failed json.Unmarshal(), status:%d", r.StatusCode())
		}
		return &ErrorWoo
	}

	return nil
}

func (w *wooapi) ProductGet(ID int) (*models.Product, error) {
	logger := logging.GetLogger()
	logger.Println("ProductGet:>Start")
	defer logger.Println("ProductGet:>End")

	w.CheckRPS()

	endpoint := fmt.Sprintf("products/%d", ID)
	logger.Debugf("Endpoint: %s", endpoint)

	r, err := w.api.R().Get(endpoint)
	w.requestTime = time.Now()
	if err != nil {
		return nil, errors.Wrapf(err, "failed request to Woo Api, endpoint:%s", endpoint)
	}

	logger.Debugf(string(r.Body()))

	if r.StatusCode() != http.StatusOK {
		var ErrorWoo models.ErrorWoo
		err := json.Unmarshal(r.Body(), &ErrorWoo)
		if err != nil {
			return nil, errors.Wrapf(err, "failed json.Unmarshal(), status:%d", r.StatusCode())
		}
		return nil, &ErrorWoo
	}

	var product models.Product
	err = json.Unmarshal(r.Body(), &product)
	if err != nil {
		return nil, errors.Wrapf(err, "failed json.Unmarshal(), endpoint:%s", endpoint)
	}
	return &product, nil
}

func NewAPI(url, key, secret string, rps int) WOOAPI {

	api := resty.New().
		SetBaseURL(strings.TrimRight(url, "/") + "/wp-json/wc/v3").
		SetBasicAuth(key, secret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &wooapi{
		url:    url,
		key:    key,
		secret: secret,
		api:    api,
		rps:    rps,
	}
}

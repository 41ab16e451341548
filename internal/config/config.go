package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/gcfg.v1"
)

const CONFIG_FILE = "./config/config.ini"

// defaults applied after the file is read; the Odoo fallback ids reproduce
// the ids the warehouse ends up with when the dynamic lookups find nothing
const (
	DEFAULT_LOCATION_ID          = 8
	DEFAULT_CUSTOMER_LOCATION_ID = 9
	DEFAULT_PICKING_TYPE_ID      = 1
	DEFAULT_PER_PAGE             = 50
	DEFAULT_RPC_TIMEOUT          = 30
	DEFAULT_DB_NAME              = "sync.db"
	DEFAULT_MAPPING_FILE         = "product_mapping.json"
)

type (
	Config struct {
		WOOCOMMERCE struct {
			URL    string
			Key    string
			Secret string
			RPS    int
		}
		ODOO struct {
			URL                string
			DB                 string
			User               string
			Pass               string
			LocationID         int // source warehouse location
			CustomerLocationID int // destination fallback when no customer-usage location is found
			PickingTypeID      int // operation-type fallback when no outgoing type is found
			Timeout            int // seconds per RPC call
		}
		MAPPING struct {
			File string
		}
		ORDERSYNC struct {
			Timeout int // minutes between runs, 0 = run once and exit
			PerPage int
		}
		DBSQLITE struct {
			DB string
		}
		TELEGRAM struct {
			BotToken string
			ChatID   int64
			Debug    int
		}
		SERVICE struct {
			PORT int
		}
		LOG struct {
			Debug int
		}
	}
)

func NewConfig(path string) (*Config, error) {

	cfg := new(Config)

	err := gcfg.ReadFileInto(cfg, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed gcfg.ReadFileInto(%s)", path)
	}

	cfg.setDefaults()

	return cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.ODOO.LocationID == 0 {
		cfg.ODOO.LocationID = DEFAULT_LOCATION_ID
	}
	if cfg.ODOO.CustomerLocationID == 0 {
		cfg.ODOO.CustomerLocationID = DEFAULT_CUSTOMER_LOCATION_ID
	}
	if cfg.ODOO.PickingTypeID == 0 {
		cfg.ODOO.PickingTypeID = DEFAULT_PICKING_TYPE_ID
	}
	if cfg.ODOO.Timeout == 0 {
		cfg.ODOO.Timeout = DEFAULT_RPC_TIMEOUT
	}
	if cfg.ORDERSYNC.PerPage == 0 {
		cfg.ORDERSYNC.PerPage = DEFAULT_PER_PAGE
	}
	if cfg.DBSQLITE.DB == "" {
		cfg.DBSQLITE.DB = DEFAULT_DB_NAME
	}
	if cfg.MAPPING.File == "" {
		cfg.MAPPING.File = DEFAULT_MAPPING_FILE
	}
}

// Validate lists every missing required field at once so a broken deployment
// fails before the first remote call
func (cfg *Config) Validate() error {

	var missing []string

	if cfg.WOOCOMMERCE.URL == "" {
		missing = append(missing, "WOOCOMMERCE.URL")
	}
	if cfg.WOOCOMMERCE.Key == "" {
		missing = append(missing, "WOOCOMMERCE.Key")
	}
	if cfg.WOOCOMMERCE.Secret == "" {
		missing = append(missing, "WOOCOMMERCE.Secret")
	}
	if cfg.ODOO.URL == "" {
		missing = append(missing, "ODOO.URL")
	}
	if cfg.ODOO.DB == "" {
		missing = append(missing, "ODOO.DB")
	}
	if cfg.ODOO.User == "" {
		missing = append(missing, "ODOO.User")
	}
	if cfg.ODOO.Pass == "" {
		missing = append(missing, "ODOO.Pass")
	}

	if len(missing) > 0 {
		return errors.New(fmt.Sprintf("missing required config fields: %s", strings.Join(missing, ", ")))
	}

	return nil
}

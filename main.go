package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"WooWithOdoo/internal/config"
	"WooWithOdoo/internal/database"
	httphandler "WooWithOdoo/internal/handlers/http"
	"WooWithOdoo/internal/mapping"
	"WooWithOdoo/internal/odooapi"
	"WooWithOdoo/internal/sync"
	"WooWithOdoo/internal/telegram"
	"WooWithOdoo/internal/version"
	"WooWithOdoo/internal/wooapi"
	"WooWithOdoo/pkg/logging"

	"github.com/jmoiron/sqlx"
	"github.com/julienschmidt/httprouter"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	logger := logging.GetLogger()
	logger.Info("Start Main")
	v := version.GetVersion()
	logger.Infof("Version %s", v.String())
	defer logger.Info("End Main")

	cfg, err := config.NewConfig(config.CONFIG_FILE)
	if err != nil {
		logger.Errorf("failed config.NewConfig(%s), error: %v", config.CONFIG_FILE, err)
		os.Exit(1)
	}

	if cfg.LOG.Debug == 1 {
		logging.SetLevelDebug()
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorf("invalid config: %v", err)
		os.Exit(1)
	}

	m := mapping.NewMapping(cfg.MAPPING.File)
	logger.Infof("loaded mapping for %d products", m.Len())

	WOOAPI := wooapi.NewAPI(cfg.WOOCOMMERCE.URL, cfg.WOOCOMMERCE.Key, cfg.WOOCOMMERCE.Secret, cfg.WOOCOMMERCE.RPS)
	ODOOAPI := odooapi.NewAPI(cfg)

	err = telegram.NewBot(cfg.TELEGRAM.BotToken, cfg.TELEGRAM.ChatID, cfg.TELEGRAM.Debug == 1)
	if err != nil {
		logger.Errorf("failed telegram.NewBot(), error: %v", err)
	}

	if database.Exists(cfg.DBSQLITE.DB) != true {
		logger.Info(cfg.DBSQLITE.DB, " not exist")
		err := database.CreateDB(cfg.DBSQLITE.DB)
		if err != nil {
			logger.Fatalf("%s, %v", cfg.DBSQLITE.DB, err)
		}
	} else {
		logger.Info(cfg.DBSQLITE.DB, " exist")
	}

	db, err := sqlx.Connect("sqlite3", cfg.DBSQLITE.DB)
	if err != nil {
		logger.Fatalf("failed sqlx.Connect, %v", err)
	}

	syncer := sync.NewSyncer(cfg, WOOAPI, ODOOAPI, m, db)

	if cfg.ORDERSYNC.Timeout > 0 {
		go syncer.SyncOrderServiceWithRecovered()

		router := httprouter.New()
		h := httphandler.NewHandler(syncer)

		router.GET("/", h.HandlerHealth)
		router.POST("/sync/run", h.HandlerSyncRun)
		router.POST("/mapping/verify", h.HandlerVerifyMapping)

		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.SERVICE.PORT), router))
	}

	ok := syncer.RunOrderSync()

	err = db.Close()
	if err != nil {
		logger.Errorf("failed close sqlx.Connect, error: %v", err)
	}

	if !ok {
		os.Exit(1)
	}
}

package sync

import (
	"fmt"
	"strings"
	stdsync "sync"
	"time"

	"WooWithOdoo/internal/config"
	"WooWithOdoo/internal/database"
	"WooWithOdoo/internal/mapping"
	"WooWithOdoo/internal/odooapi"
	"WooWithOdoo/internal/telegram"
	"WooWithOdoo/internal/wooapi"
	optionsWoo "WooWithOdoo/internal/wooapi/options"
	"WooWithOdoo/pkg/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const STATUS_PROCESSING = "processing"

// Syncer drives one synchronization run end to end
type Syncer struct {
	cfg       *config.Config
	woo       wooapi.WOOAPI
	odoo      odooapi.ODOOAPI
	mapping   *mapping.Mapping
	processor *Processor
	db        *sqlx.DB
	now       func() time.Time

	// the HTTP trigger and the timer loop share one Syncer; runs never overlap
	runMu stdsync.Mutex
}

func NewSyncer(cfg *config.Config, woo wooapi.WOOAPI, odoo odooapi.ODOOAPI, m *mapping.Mapping, db *sqlx.DB) *Syncer {
	return &Syncer{
		cfg:       cfg,
		woo:       woo,
		odoo:      odoo,
		mapping:   m,
		processor: NewProcessor(m, odoo),
		db:        db,
		now:       time.Now,
	}
}

// RunOrderSync performs one full run. Only authentication failures and
// panics make the run fail; per-order and per-item failures are recorded in
// the order note and processing continues.
func (s *Syncer) RunOrderSync() (ok bool) {

	s.runMu.Lock()
	defer s.runMu.Unlock()

	logger := logging.GetLogger()
	logger.Println("RunOrderSync:>Start")
	defer logger.Println("RunOrderSync:>End")

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic during order sync: %v", r)
			telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("panic during order sync: %v", r))
			ok = false
		}
	}()

	// stale summaries from the previous run are discarded, idempotence
	// comes from the storefront-side synced flag
	if s.db != nil {
		if err := database.ResetSyncStatus(s.db); err != nil {
			logger.Errorf("failed database.ResetSyncStatus(), error: %v", err)
		}
	}

	if version, err := s.odoo.Version(); err != nil {
		logger.Errorf("failed common.version handshake, error: %v", err)
	} else {
		logger.Infof("Odoo server version: %s", version)
	}

	uid, err := s.odoo.Authenticate()
	if err != nil {
		logger.Errorf("failed odoo.Authenticate(), error: %v", err)
		return false
	}
	logger.Infof("connected to Odoo (User ID: %d)", uid)

	orders, err := s.woo.OrderList(
		optionsWoo.Status(STATUS_PROCESSING),
		optionsWoo.PerPage(s.cfg.ORDERSYNC.PerPage),
		optionsWoo.OrderBy("id"),
		optionsWoo.Order("desc"),
	)
	if err != nil {
		// a fetch failure is a trivially empty run, not a failed one
		logger.Errorf("failed woo.OrderList(), error: %v", err)
		orders = nil
	}
	logger.Infof("found %d orders to check", len(orders))

	processedSet := make(map[int]bool)
	var processedIDs []int
	lastOrderID := 0
	totalProcessed := 0

	for _, order := range orders {
		if order.Status != STATUS_PROCESSING {
			logger.Infof("order #%s has status %s, skipped", order.Number, order.Status)
			continue
		}
		if order.IsSynced() {
			logger.Infof("order #%s already synced, skipped", order.Number)
			continue
		}
		if processedSet[order.ID] {
			logger.Infof("order #%s already processed in this run, skipped", order.Number)
			continue
		}

		results := s.processor.ProcessOrder(order)

		note := s.composeNote(results)
		if err := s.woo.OrderNoteAdd(order.ID, note); err != nil {
			logger.Errorf("failed woo.OrderNoteAdd(%d), error: %v", order.ID, err)
		}

		anySuccess := false
		for _, result := range results {
			if result.Success {
				anySuccess = true
				break
			}
		}
		if anySuccess {
			if err := s.woo.OrderMarkSynced(order.ID); err != nil {
				logger.Errorf("failed woo.OrderMarkSynced(%d), error: %v", order.ID, err)
			}
		}

		processedSet[order.ID] = true
		processedIDs = append(processedIDs, order.ID)
		if order.ID > lastOrderID {
			lastOrderID = order.ID
		}
		totalProcessed++

		logger.Infof("order #%s processed", order.Number)
	}

	if s.db != nil {
		if err := database.SaveSyncStatus(s.db, lastOrderID, processedIDs, s.now()); err != nil {
			logger.Errorf("failed database.SaveSyncStatus(), error: %v", err)
		}
	}

	logger.Infof("sync finished, orders processed: %d, last order ID: %d", totalProcessed, lastOrderID)

	return true
}

// composeNote builds the audit note posted back onto the order, one line per
// line-item result
func (s *Syncer) composeNote(results []*LineItemResult) string {

	lines := []string{fmt.Sprintf("Odoo Sync %s", s.now().Format("2006-01-02 15:04"))}

	for _, result := range results {
		switch {
		case result.Skipped:
			lines = append(lines, fmt.Sprintf("[SKIP] %s: %s (WC ID: %d)",
				result.ProductName, result.Error, result.WooProductID))
		case result.Success:
			lines = append(lines, fmt.Sprintf("[OK] %s: -%d pcs (WC:%d -> %s, picking #%d)",
				result.ProductName, result.Quantity, result.WooProductID, result.Barcode, result.PickingID))
		default:
			lines = append(lines, fmt.Sprintf("[FAIL] %s: %s (WC:%d -> %s)",
				result.ProductName, result.Error, result.WooProductID, result.Barcode))
		}
	}

	return strings.Join(lines, "\n")
}

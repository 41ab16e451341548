package database

import (
	"time"

	"WooWithOdoo/pkg/logging"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// the run summary keeps the most recent processed orders only
const MAX_PROCESSED_ORDERS = 100

// ResetSyncStatus discards the previous run summary; every run starts clean
// and relies on the storefront-side synced flag for idempotence
func ResetSyncStatus(db *sqlx.DB) error {

	logger := logging.GetLogger()
	logger.Println("ResetSyncStatus:>Start")
	defer logger.Println("ResetSyncStatus:>End")

	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed db.Beginx()")
	}

	if _, err := tx.Exec(`DELETE FROM SyncStatus`); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed DELETE FROM SyncStatus")
	}
	if _, err := tx.Exec(`DELETE FROM ProcessedOrder`); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed DELETE FROM ProcessedOrder")
	}

	return errors.Wrap(tx.Commit(), "failed tx.Commit()")
}

// SaveSyncStatus persists the run summary: the max order id seen, the last
// MAX_PROCESSED_ORDERS processed ids and the completion timestamp
func SaveSyncStatus(db *sqlx.DB, lastOrderID int, processedOrders []int, lastSync time.Time) error {

	logger := logging.GetLogger()
	logger.Println("SaveSyncStatus:>Start")
	defer logger.Println("SaveSyncStatus:>End")

	if len(processedOrders) > MAX_PROCESSED_ORDERS {
		processedOrders = processedOrders[len(processedOrders)-MAX_PROCESSED_ORDERS:]
	}

	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed db.Beginx()")
	}

	_, err = tx.Exec(`INSERT INTO SyncStatus (LastOrderID, LastSync) VALUES (?, ?)`,
		lastOrderID, lastSync.Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed INSERT INTO SyncStatus")
	}

	for _, orderID := range processedOrders {
		_, err = tx.Exec(`INSERT INTO ProcessedOrder (OrderID) VALUES (?)`, orderID)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed INSERT INTO ProcessedOrder, OrderID:%d", orderID)
		}
	}

	return errors.Wrap(tx.Commit(), "failed tx.Commit()")
}

// GetSyncStatus loads the last persisted summary, nil when none exists
func GetSyncStatus(db *sqlx.DB) (*SyncStatus, []int, error) {

	logger := logging.GetLogger()
	logger.Println("GetSyncStatus:>Start")
	defer logger.Println("GetSyncStatus:>End")

	var statuses []SyncStatus
	err := db.Select(&statuses, `SELECT ID, LastOrderID, LastSync FROM SyncStatus ORDER BY ID DESC LIMIT 1`)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed SELECT FROM SyncStatus")
	}
	if len(statuses) == 0 {
		return nil, nil, nil
	}

	var processed []int
	err = db.Select(&processed, `SELECT OrderID FROM ProcessedOrder ORDER BY ID`)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed SELECT FROM ProcessedOrder")
	}

	return &statuses[0], processed, nil
}

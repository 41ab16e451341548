package sync

import (
	"fmt"
	"time"

	"WooWithOdoo/internal/telegram"
	"WooWithOdoo/pkg/logging"
)

// SyncOrderServiceWithRecovered restarts the periodic service a bounded
// number of times after a panic before giving up
func (s *Syncer) SyncOrderServiceWithRecovered() {
	logger := logging.GetLogger()
	logger.Println("Start Service SyncOrderServiceWithRecovered")
	defer logger.Println("End Service SyncOrderServiceWithRecovered")

	index := 0
	for {
		s.SyncOrderService()
		index++

		if index == 3 {
			break
		}
	}
	telegram.SendMessageToTelegramWithLogError("restart of SyncOrderService() stopped")
}

// SyncOrderService runs the synchronization on a timer until it panics
func (s *Syncer) SyncOrderService() {

	logger := logging.GetLogger()
	logger.Println("Start Service SyncOrder")
	defer logger.Println("End Service SyncOrder")

	defer func() {
		if r := recover(); r != nil {
			telegram.SendMessageToTelegramWithLogError(fmt.Sprintf("critical error, order sync will be restarted, error: %v", r))
		}
	}()

	for {
		timeStart := time.Now()

		if ok := s.RunOrderSync(); !ok {
			telegram.SendMessageToTelegramWithLogError("order sync run failed")
		}

		logger.Infof("full sync time: %s", time.Now().Sub(timeStart))
		logger.Infof("time sleep %d minutes", s.cfg.ORDERSYNC.Timeout)

		time.Sleep(time.Minute * time.Duration(s.cfg.ORDERSYNC.Timeout))
	}
}

package http

import (
	"fmt"
	"net/http"

	"WooWithOdoo/internal/sync"
	"WooWithOdoo/internal/version"
	"WooWithOdoo/pkg/logging"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	syncer *sync.Syncer
}

func NewHandler(syncer *sync.Syncer) *Handler {
	return &Handler{syncer: syncer}
}

func (h *Handler) HandlerHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerHealth")
	defer logger.Info("End HandlerHealth")

	fmt.Fprintf(w, "WooWithOdoo %s\n", version.GetVersion().String())
}

// HandlerSyncRun triggers one synchronization run outside the timer
func (h *Handler) HandlerSyncRun(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerSyncRun")
	defer logger.Info("End HandlerSyncRun")

	if ok := h.syncer.RunOrderSync(); !ok {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "Error")
		return
	}
	fmt.Fprint(w, "OK")
}

// HandlerVerifyMapping logs the mapping verification report
func (h *Handler) HandlerVerifyMapping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerVerifyMapping")
	defer logger.Info("End HandlerVerifyMapping")

	if err := h.syncer.VerifyMapping(); err != nil {
		logger.Errorf("failed syncer.VerifyMapping(), error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "Error")
		return
	}
	fmt.Fprint(w, "OK")
}

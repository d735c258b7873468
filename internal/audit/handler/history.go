package handler

import (
	"net/http"

	"carrental/internal/audit/service"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type HistoryHandler struct {
	service service.HistoryService
	log     *logger.Logger
}

func NewHistoryHandler(service service.HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		log:     log,
	}
}

func (h *HistoryHandler) Events(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	events, err := h.service.ForBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Events", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, events); err != nil {
		h.log.Error("failed to write success response", "handler", "Events", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HistoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/id/:id/events", middleware.RequireRole(h.Events, model.RoleAdmin))
}

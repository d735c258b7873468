package handler

import (
	"net/http"

	"carrental/internal/contacts/service"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ContactHandler struct {
	service service.ContactService
	log     *logger.Logger
}

func NewContactHandler(service service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log,
	}
}

func (h *ContactHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var contact model.Contact
	if err := httputil.DecodeJSON(r, &contact); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := h.service.Submit(r.Context(), &contact); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, contact); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	contacts, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, contacts); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/contact", h.Submit)
	router.GET("/api/v1/contact", middleware.RequireRole(h.List, model.RoleAdmin))
}

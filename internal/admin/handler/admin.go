package handler

import (
	"net/http"

	"carrental/internal/admin/service"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service service.AdminService
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

func (h *AdminHandler) write(w http.ResponseWriter, handler string, data any, err error) {
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
		}
		return
	}
	if writeErr := httputil.WriteSuccess(w, data); writeErr != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	h.write(w, "Stats", stats, err)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.Users(r.Context())
	h.write(w, "Users", users, err)
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/stats", middleware.RequireRole(h.Stats, model.RoleAdmin))
	router.GET("/api/v1/admin/users", middleware.RequireRole(h.Users, model.RoleAdmin))
}

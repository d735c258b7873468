package handler

import (
	"net/http"

	"carrental/internal/cars/service"
	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CarHandler struct {
	service service.CarService
	log     *logger.Logger
}

func NewCarHandler(service service.CarService, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log,
	}
}

func (h *CarHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CarHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

// List serves the public catalog. Admins may pass all=true to include cars
// that are switched off.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	onlyAvailable := true
	if r.URL.Query().Get("all") == "true" && auth.FromContext(r.Context()).HasRole(model.RoleAdmin) {
		onlyAvailable = false
	}

	cars, total, err := h.service.List(r.Context(), onlyAvailable, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, cars, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	car, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	h.writeSuccess(w, "Get", car)
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var car model.Car
	if err := httputil.DecodeJSON(r, &car); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &car); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, car); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.CarUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	car, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	h.writeSuccess(w, "Update", car)
}

func (h *CarHandler) SetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.CarAvailabilityUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SetAvailability", err)
		return
	}
	if req.Available == nil {
		h.writeError(w, "SetAvailability", apperrors.Validation("Invalid availability update", map[string]any{
			"available": "available is required",
		}))
		return
	}

	car, err := h.service.SetAvailability(r.Context(), ps.ByName("id"), *req.Available)
	if err != nil {
		h.writeError(w, "SetAvailability", err)
		return
	}

	h.writeSuccess(w, "SetAvailability", car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CarHandler) Seed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result, err := h.service.Seed(r.Context())
	if err != nil {
		h.writeError(w, "Seed", err)
		return
	}

	h.writeSuccess(w, "Seed", result)
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/cars", h.List)
	router.GET("/api/v1/cars/id/:id", h.Get)
	router.POST("/api/v1/cars", middleware.RequireRole(h.Create, model.RoleAdmin))
	router.PUT("/api/v1/cars/id/:id", middleware.RequireRole(h.Update, model.RoleAdmin))
	router.PATCH("/api/v1/cars/id/:id/availability", middleware.RequireRole(h.SetAvailability, model.RoleAdmin))
	router.DELETE("/api/v1/cars/id/:id", middleware.RequireRole(h.Delete, model.RoleAdmin))
	router.POST("/api/v1/cars/seed", middleware.RequireRole(h.Seed, model.RoleAdmin))
}

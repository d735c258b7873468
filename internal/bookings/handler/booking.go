package handler

import (
	"net/http"

	"carrental/internal/bookings/service"
	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var query model.AvailabilityQuery
	if err := httputil.DecodeJSON(r, &query); err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), &query)
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	h.writeSuccess(w, "CheckAvailability", availability)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	claims := auth.FromContext(r.Context())
	req.UserID = claims.UserID
	req.UserEmail = claims.Email

	receipt, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, receipt); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	h.writeSuccess(w, "GetByID", booking)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.CancelRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(w, "Cancel", err)
			return
		}
	}

	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()), req.Reason)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	h.writeSuccess(w, "Cancel", booking)
}

func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Start(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "Start", err)
		return
	}

	h.writeSuccess(w, "Start", booking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Complete(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	h.writeSuccess(w, "Complete", booking)
}

// selfOrAdmin rejects callers asking for another user's data.
func selfOrAdmin(r *http.Request, userID string) error {
	claims := auth.FromContext(r.Context())
	if claims.HasRole(model.RoleAdmin) || (claims != nil && claims.UserID == userID) {
		return nil
	}
	return apperrors.Forbidden("cannot access another user's bookings")
}

func (h *BookingHandler) ListByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")
	if err := selfOrAdmin(r, userID); err != nil {
		h.writeError(w, "ListByUser", err)
		return
	}

	bookings, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, "ListByUser", err)
		return
	}

	h.writeSuccess(w, "ListByUser", bookings)
}

func (h *BookingHandler) UserStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")
	if err := selfOrAdmin(r, userID); err != nil {
		h.writeError(w, "UserStats", err)
		return
	}

	stats, err := h.service.UserStats(r.Context(), userID)
	if err != nil {
		h.writeError(w, "UserStats", err)
		return
	}

	h.writeSuccess(w, "UserStats", stats)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability", h.CheckAvailability)

	router.POST("/api/v1/bookings", middleware.RequireRole(h.Create, model.RoleClient, model.RoleAdmin))
	router.GET("/api/v1/bookings", middleware.RequireRole(h.GetAll, model.RoleAdmin))
	router.GET("/api/v1/bookings/id/:id", middleware.RequireRole(h.GetByID))
	router.POST("/api/v1/bookings/id/:id/cancel", middleware.RequireRole(h.Cancel, model.RoleClient, model.RoleAdmin))
	router.POST("/api/v1/bookings/id/:id/start", middleware.RequireRole(h.Start, model.RoleDriver, model.RoleAdmin))
	router.POST("/api/v1/bookings/id/:id/complete", middleware.RequireRole(h.Complete, model.RoleDriver, model.RoleAdmin))

	router.GET("/api/v1/users/:userId/bookings", middleware.RequireRole(h.ListByUser))
	router.GET("/api/v1/users/:userId/stats", middleware.RequireRole(h.UserStats))
}

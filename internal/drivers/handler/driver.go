package handler

import (
	"net/http"

	"carrental/internal/drivers/service"
	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DriverHandler struct {
	service service.DriverService
	log     *logger.Logger
}

func NewDriverHandler(service service.DriverService, log *logger.Logger) *DriverHandler {
	return &DriverHandler{
		service: service,
		log:     log,
	}
}

func (h *DriverHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DriverHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

// authorize lets the driver named in the path through, plus admins when
// adminAllowed is set.
func authorize(r *http.Request, driverID string, adminAllowed bool) error {
	claims := auth.FromContext(r.Context())
	if adminAllowed && claims.HasRole(model.RoleAdmin) {
		return nil
	}
	if claims.HasRole(model.RoleDriver) && claims.DriverID != "" && claims.DriverID == driverID {
		return nil
	}
	return apperrors.Forbidden("cannot act for another driver")
}

func (h *DriverHandler) Notifications(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driverID := ps.ByName("driverId")
	if err := authorize(r, driverID, true); err != nil {
		h.writeError(w, "Notifications", err)
		return
	}

	notifications, err := h.service.Notifications(r.Context(), driverID)
	if err != nil {
		h.writeError(w, "Notifications", err)
		return
	}

	h.writeSuccess(w, "Notifications", notifications)
}

func (h *DriverHandler) Act(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driverID := ps.ByName("driverId")
	if err := authorize(r, driverID, false); err != nil {
		h.writeError(w, "Act", err)
		return
	}

	var action model.NotificationAction
	if err := httputil.DecodeJSON(r, &action); err != nil {
		h.writeError(w, "Act", err)
		return
	}

	result, err := h.service.Act(r.Context(), driverID, ps.ByName("notificationId"), &action)
	if err != nil {
		h.writeError(w, "Act", err)
		return
	}

	h.writeSuccess(w, "Act", result)
}

func (h *DriverHandler) Rides(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driverID := ps.ByName("driverId")
	if err := authorize(r, driverID, true); err != nil {
		h.writeError(w, "Rides", err)
		return
	}

	rides, err := h.service.Rides(r.Context(), driverID)
	if err != nil {
		h.writeError(w, "Rides", err)
		return
	}

	h.writeSuccess(w, "Rides", rides)
}

func (h *DriverHandler) Profile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driverID := ps.ByName("driverId")
	if err := authorize(r, driverID, true); err != nil {
		h.writeError(w, "Profile", err)
		return
	}

	profile, err := h.service.Profile(r.Context(), driverID)
	if err != nil {
		h.writeError(w, "Profile", err)
		return
	}

	h.writeSuccess(w, "Profile", profile)
}

func (h *DriverHandler) Earnings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driverID := ps.ByName("driverId")
	if err := authorize(r, driverID, true); err != nil {
		h.writeError(w, "Earnings", err)
		return
	}

	earnings, err := h.service.Earnings(r.Context(), driverID)
	if err != nil {
		h.writeError(w, "Earnings", err)
		return
	}

	h.writeSuccess(w, "Earnings", earnings)
}

func (h *DriverHandler) CancelRide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driverID := ps.ByName("driverId")
	if err := authorize(r, driverID, false); err != nil {
		h.writeError(w, "CancelRide", err)
		return
	}

	var req model.DriverCancelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CancelRide", err)
		return
	}
	req.DriverID = driverID

	booking, err := h.service.CancelRide(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CancelRide", err)
		return
	}

	h.writeSuccess(w, "CancelRide", booking)
}

func (h *DriverHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/drivers/:driverId/notifications", middleware.RequireRole(h.Notifications, model.RoleDriver, model.RoleAdmin))
	router.POST("/api/v1/drivers/:driverId/notifications/:notificationId/action", middleware.RequireRole(h.Act, model.RoleDriver))
	router.GET("/api/v1/drivers/:driverId/rides", middleware.RequireRole(h.Rides, model.RoleDriver, model.RoleAdmin))
	router.GET("/api/v1/drivers/:driverId/profile", middleware.RequireRole(h.Profile, model.RoleDriver, model.RoleAdmin))
	router.GET("/api/v1/drivers/:driverId/earnings", middleware.RequireRole(h.Earnings, model.RoleDriver, model.RoleAdmin))
	router.POST("/api/v1/drivers/:driverId/cancel-ride", middleware.RequireRole(h.CancelRide, model.RoleDriver))
}

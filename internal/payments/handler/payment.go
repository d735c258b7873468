package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"carrental/internal/payments/service"
	"carrental/pkg/auth"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PaymentHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.OrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateOrder", err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CreateOrder", err)
		return
	}

	h.writeSuccess(w, "CreateOrder", order)
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PaymentVerification
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	result, err := h.service.Verify(r.Context(), &req, auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	h.writeSuccess(w, "Verify", result)
}

func (h *PaymentHandler) BookingPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	payment, err := h.service.BookingPayment(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "BookingPayment", err)
		return
	}

	h.writeSuccess(w, "BookingPayment", payment)
}

func (h *PaymentHandler) AdminSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.AdminSummary(r.Context())
	if err != nil {
		h.writeError(w, "AdminSummary", err)
		return
	}

	h.writeSuccess(w, "AdminSummary", summary)
}

// Export renders into a buffer first so a failure can still produce a JSON
// error instead of a truncated file.
func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var buf bytes.Buffer
	if err := h.service.ExportXLSX(r.Context(), &buf); err != nil {
		h.writeError(w, "Export", err)
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error("failed to write export", "handler", "Export", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/orders", middleware.RequireRole(h.CreateOrder, model.RoleClient, model.RoleAdmin))
	router.POST("/api/v1/payments/verify", middleware.RequireRole(h.Verify, model.RoleClient, model.RoleAdmin))
	router.GET("/api/v1/bookings/id/:id/payment", middleware.RequireRole(h.BookingPayment, model.RoleClient, model.RoleDriver, model.RoleAdmin))
	router.GET("/api/v1/admin/payments", middleware.RequireRole(h.AdminSummary, model.RoleAdmin))
	router.GET("/api/v1/admin/payments/export", middleware.RequireRole(h.Export, model.RoleAdmin))
}

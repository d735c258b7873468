package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPaymentService struct {
	verifyFunc func(ctx context.Context, req *model.PaymentVerification, actor *auth.Claims) (*model.PaymentVerificationResult, error)
	exportFunc func(ctx context.Context, w io.Writer) error
}

func (m *mockPaymentService) CreateOrder(_ context.Context, req *model.OrderRequest) (*model.Order, error) {
	return &model.Order{ID: "order_1", Amount: req.Amount, Currency: model.CurrencyINR}, nil
}

func (m *mockPaymentService) Verify(ctx context.Context, req *model.PaymentVerification, actor *auth.Claims) (*model.PaymentVerificationResult, error) {
	return m.verifyFunc(ctx, req, actor)
}

func (m *mockPaymentService) BookingPayment(_ context.Context, bookingID string, _ *auth.Claims) (*model.BookingPayment, error) {
	return &model.BookingPayment{BookingID: bookingID, Status: "no_payment"}, nil
}

func (m *mockPaymentService) AdminSummary(context.Context) (*model.PaymentSummary, error) {
	return &model.PaymentSummary{Payments: []*model.PaymentRecord{}, Currency: model.CurrencyINR}, nil
}

func (m *mockPaymentService) ExportXLSX(ctx context.Context, w io.Writer) error {
	return m.exportFunc(ctx, w)
}

var (
	client = &auth.Claims{UserID: "u1", Role: model.RoleClient}
	admin  = &auth.Claims{UserID: "root", Role: model.RoleAdmin}
)

func serve(svc *mockPaymentService, method, target, body string, claims *auth.Claims) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewPaymentHandler(svc, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrder_RequiresLogin(t *testing.T) {
	w := serve(&mockPaymentService{}, http.MethodPost, "/api/v1/payments/orders", `{"amount":440000}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(&mockPaymentService{}, http.MethodPost, "/api/v1/payments/orders", `{"amount":440000}`, client)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"order_1"`)
}

func TestVerify_PassesActor(t *testing.T) {
	var gotActor *auth.Claims
	svc := &mockPaymentService{
		verifyFunc: func(_ context.Context, req *model.PaymentVerification, actor *auth.Claims) (*model.PaymentVerificationResult, error) {
			gotActor = actor
			if req.Signature != "good" {
				return nil, apperrors.PaymentVerification("Invalid payment signature")
			}
			return &model.PaymentVerificationResult{Verified: true, OrderID: req.OrderID, PaymentID: req.PaymentID}, nil
		},
	}

	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"good"}`
	w := serve(svc, http.MethodPost, "/api/v1/payments/verify", body, client)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotActor.UserID)

	body = `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"bad"}`
	w = serve(svc, http.MethodPost, "/api/v1/payments/verify", body, client)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodePaymentVerification)
}

func TestAdminRoutes(t *testing.T) {
	svc := &mockPaymentService{
		exportFunc: func(_ context.Context, w io.Writer) error {
			_, err := w.Write([]byte("PK\x03\x04"))
			return err
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/admin/payments", "", client)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(svc, http.MethodGet, "/api/v1/admin/payments", "", admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(svc, http.MethodGet, "/api/v1/admin/payments/export", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"payments-")
	assert.Equal(t, "PK\x03\x04", w.Body.String())
}

func TestExport_FailureIsJSON(t *testing.T) {
	svc := &mockPaymentService{
		exportFunc: func(context.Context, io.Writer) error {
			return apperrors.Internal("Failed to export payments", nil)
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/admin/payments/export", "", admin)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

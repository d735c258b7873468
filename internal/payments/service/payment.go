package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	bookingrepo "carrental/internal/bookings/repository"
	paymentserrors "carrental/internal/payments/errors"
	"carrental/internal/payments/gateway"
	"carrental/internal/payments/validator"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/metrics"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

const (
	MsgAmountTooSmall      = "Amount must be at least 100 paise (1 rupee)"
	MsgMissingVerification = "Missing payment verification parameters"
	MsgInvalidSignature    = "Invalid payment signature"
	MsgGatewayFetchFailed  = "Could not fetch payment details from gateway"
	MsgNoPayment           = "No payment associated with this booking"
	PaymentStatusNoPayment = "no_payment"
	receiptPrefix          = "receipt_"
	gatewayServiceName     = "Payment gateway"
	verificationOperation  = "verify"
	orderOperation         = "order"
)

// BookingReader loads a booking on behalf of an actor, hiding bookings the
// actor may not see.
type BookingReader interface {
	GetByID(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error)
}

type PaymentStore interface {
	FindWithPayment(ctx context.Context) ([]*model.Booking, error)
	UpdatePayment(ctx context.Context, id string, update bookingrepo.PaymentUpdate) error
}

type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

type PaymentService interface {
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)
	Verify(ctx context.Context, req *model.PaymentVerification, actor *auth.Claims) (*model.PaymentVerificationResult, error)
	BookingPayment(ctx context.Context, bookingID string, actor *auth.Claims) (*model.BookingPayment, error)
	AdminSummary(ctx context.Context) (*model.PaymentSummary, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

type paymentService struct {
	gateway   gateway.Gateway
	signer    SignatureVerifier
	bookings  BookingReader
	store     PaymentStore
	validator *validator.PaymentValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewPaymentService(
	gw gateway.Gateway,
	signer SignatureVerifier,
	bookings BookingReader,
	store PaymentStore,
	validator *validator.PaymentValidator,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		gateway:   gw,
		signer:    signer,
		bookings:  bookings,
		store:     store,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if req.Amount < model.MinOrderAmountPaise {
		return nil, apperrors.InvalidInput(MsgAmountTooSmall).WithDetails(map[string]any{"received": req.Amount})
	}
	req.Currency = sanitizer.SanitizeToken(req.Currency)
	if req.Currency == "" {
		req.Currency = model.CurrencyINR
	}
	req.Receipt = sanitizer.SanitizeToken(req.Receipt)
	if req.Receipt == "" {
		req.Receipt = fmt.Sprintf("%s%d", receiptPrefix, s.now().UnixMilli())
	}
	if err := s.validator.ValidateOrder(req); err != nil {
		return nil, validation.ToAppError("Invalid order request", err)
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		metrics.IncPayment(orderOperation, "error")
		return nil, s.gatewayError("create order", err)
	}

	metrics.IncPayment(orderOperation, "ok")
	s.cfg.Log.Info("Payment order created", "order_id", order.ID, "amount", order.Amount, "receipt", order.Receipt)
	return order, nil
}

func (s *paymentService) gatewayError(operation string, err error) error {
	if errors.Is(err, paymentserrors.ErrGatewayNotConfigured) {
		s.cfg.Log.Error("Payment gateway not configured", "operation", operation)
		return apperrors.Unavailable(gatewayServiceName)
	}
	if errors.Is(err, paymentserrors.ErrGatewayRejected) {
		s.cfg.Log.Warn("Payment gateway rejected request", "operation", operation, "error", err)
		return apperrors.Wrap(err, apperrors.CodeBadRequest, "Invalid request to payment gateway", http.StatusBadGateway)
	}
	s.cfg.Log.Error("Payment gateway call failed", "operation", operation, "error", err)
	return apperrors.Internal("Failed to "+operation, err)
}

// Verify checks a checkout signature. With a booking id the booking is marked
// paid, which closes the window in which an online booking sits unpaid.
func (s *paymentService) Verify(ctx context.Context, req *model.PaymentVerification, actor *auth.Claims) (*model.PaymentVerificationResult, error) {
	req.OrderID = sanitizer.SanitizeToken(req.OrderID)
	req.PaymentID = sanitizer.SanitizeToken(req.PaymentID)
	req.Signature = sanitizer.SanitizeToken(req.Signature)
	req.BookingID = sanitizer.SanitizeToken(req.BookingID)

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, apperrors.InvalidInput(MsgMissingVerification)
	}
	if err := s.validator.ValidateVerification(req); err != nil {
		return nil, validation.ToAppError("Invalid payment verification", err)
	}

	if !s.signer.Verify(req.OrderID, req.PaymentID, req.Signature) {
		metrics.IncPayment(verificationOperation, "mismatch")
		s.cfg.Log.Warn("Payment signature mismatch", "order_id", req.OrderID, "payment_id", req.PaymentID)
		return nil, apperrors.PaymentVerification(MsgInvalidSignature)
	}
	metrics.IncPayment(verificationOperation, "ok")

	result := &model.PaymentVerificationResult{
		Verified:  true,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
	}
	if req.BookingID == "" {
		return result, nil
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdatePayment(ctx, booking.ID, bookingrepo.PaymentUpdate{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Status:    model.PaymentStatusSuccess,
	}); err != nil {
		s.cfg.Log.Error("Failed to record payment", "booking_id", booking.ID, "payment_id", req.PaymentID, "error", err)
		return nil, apperrors.Storage("record payment", err)
	}

	s.cfg.Log.Info("Booking payment verified", "booking_id", booking.ID, "payment_id", req.PaymentID)
	result.BookingID = booking.ID
	return result, nil
}

// BookingPayment falls back to the stored fields when the gateway cannot be
// reached.
func (s *paymentService) BookingPayment(ctx context.Context, bookingID string, actor *auth.Claims) (*model.BookingPayment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	if booking.PaymentID == "" {
		return &model.BookingPayment{
			BookingID: booking.ID,
			Status:    PaymentStatusNoPayment,
			Message:   MsgNoPayment,
		}, nil
	}

	payment := &model.BookingPayment{
		BookingID: booking.ID,
		PaymentID: booking.PaymentID,
		OrderID:   booking.OrderID,
	}

	details, err := s.gateway.FetchPayment(ctx, booking.PaymentID)
	if err != nil {
		s.cfg.Log.Warn("Failed to fetch payment from gateway",
			"booking_id", booking.ID,
			"payment_id", booking.PaymentID,
			"error", err,
		)
		payment.Status = booking.PaymentStatus
		payment.Error = MsgGatewayFetchFailed
		return payment, nil
	}

	payment.Status = details.Status
	payment.Gateway = details
	return payment, nil
}

func (s *paymentService) AdminSummary(ctx context.Context) (*model.PaymentSummary, error) {
	bookings, err := s.store.FindWithPayment(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load payments", "error", err)
		return nil, apperrors.Internal("Failed to fetch payment data", err)
	}

	summary := &model.PaymentSummary{
		Payments: make([]*model.PaymentRecord, 0, len(bookings)),
		Currency: model.CurrencyINR,
	}
	for _, b := range bookings {
		summary.Payments = append(summary.Payments, &model.PaymentRecord{
			BookingID:     b.ID,
			CarName:       b.CarName,
			UserEmail:     b.UserEmail,
			Amount:        b.TotalPrice,
			PaymentID:     b.PaymentID,
			OrderID:       b.OrderID,
			PaymentStatus: b.PaymentStatus,
			BookingDate:   b.CreatedAt,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
		})
		summary.TotalRevenue += b.TotalPrice
	}
	summary.TotalPayments = len(summary.Payments)
	return summary, nil
}

func (s *paymentService) ExportXLSX(ctx context.Context, w io.Writer) error {
	summary, err := s.AdminSummary(ctx)
	if err != nil {
		return err
	}
	if err := writeWorkbook(w, summary); err != nil {
		s.cfg.Log.Error("Failed to render payments workbook", "error", err)
		return apperrors.Internal("Failed to export payments", err)
	}
	return nil
}

package model

import "time"

const (
	CurrencyINR         = "INR"
	MinOrderAmountPaise = 100
)

type OrderRequest struct {
	Amount   int64  `json:"amount" validate:"required,min=100"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Receipt  string `json:"receipt,omitempty" validate:"omitempty,max=40"`
}

type Order struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type PaymentVerification struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
	BookingID string `json:"booking_id,omitempty" validate:"omitempty,mongodb"`
}

type PaymentVerificationResult struct {
	Verified  bool   `json:"verified"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	BookingID string `json:"booking_id,omitempty"`
}

// GatewayPayment is the subset of a gateway payment record the API exposes.
type GatewayPayment struct {
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	Method     string `json:"method"`
	CreatedAt  int64  `json:"created_at"`
	CapturedAt int64  `json:"captured_at,omitempty"`
}

type BookingPayment struct {
	BookingID string          `json:"booking_id"`
	PaymentID string          `json:"payment_id,omitempty"`
	OrderID   string          `json:"order_id,omitempty"`
	Status    string          `json:"status"`
	Gateway   *GatewayPayment `json:"gateway,omitempty"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
}

type PaymentRecord struct {
	BookingID     string    `json:"booking_id"`
	CarName       string    `json:"car_name"`
	UserEmail     string    `json:"user_email"`
	Amount        float64   `json:"amount"`
	PaymentID     string    `json:"payment_id"`
	OrderID       string    `json:"order_id"`
	PaymentStatus string    `json:"payment_status"`
	BookingDate   time.Time `json:"booking_date"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type PaymentSummary struct {
	Payments      []*PaymentRecord `json:"payments"`
	TotalPayments int              `json:"total_payments"`
	TotalRevenue  float64          `json:"total_revenue"`
	Currency      string           `json:"currency"`
}

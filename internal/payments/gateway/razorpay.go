package gateway

import (
	"context"
	"fmt"

	paymentserrors "carrental/internal/payments/errors"
	"carrental/pkg/model"

	razorpay "github.com/razorpay/razorpay-go"
)

type Gateway interface {
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error)
}

type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type paymentAPI interface {
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type razorpayGateway struct {
	orders   orderAPI
	payments paymentAPI
}

// NewRazorpay returns a gateway backed by the Razorpay API. Without
// credentials every call fails with ErrGatewayNotConfigured.
func NewRazorpay(keyID, secret string) Gateway {
	if keyID == "" || secret == "" {
		return disabledGateway{}
	}
	client := razorpay.NewClient(keyID, secret)
	return &razorpayGateway{
		orders:   client.Order,
		payments: client.Payment,
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.orders.Create(map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentserrors.ErrGatewayRejected, err)
	}

	return &model.Order{
		ID:        str(body, "id"),
		Amount:    num(body, "amount"),
		Currency:  str(body, "currency"),
		Receipt:   str(body, "receipt"),
		Status:    str(body, "status"),
		CreatedAt: num(body, "created_at"),
	}, nil
}

func (g *razorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*model.GatewayPayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.payments.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentserrors.ErrGatewayRejected, err)
	}

	return &model.GatewayPayment{
		Amount:     num(body, "amount"),
		Currency:   str(body, "currency"),
		Status:     str(body, "status"),
		Method:     str(body, "method"),
		CreatedAt:  num(body, "created_at"),
		CapturedAt: num(body, "captured_at"),
	}, nil
}

func str(body map[string]interface{}, key string) string {
	v, _ := body[key].(string)
	return v
}

// num reads a JSON number, which the SDK decodes as float64.
func num(body map[string]interface{}, key string) int64 {
	switch v := body[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

type disabledGateway struct{}

func (disabledGateway) CreateOrder(context.Context, *model.OrderRequest) (*model.Order, error) {
	return nil, paymentserrors.ErrGatewayNotConfigured
}

func (disabledGateway) FetchPayment(context.Context, string) (*model.GatewayPayment, error) {
	return nil, paymentserrors.ErrGatewayNotConfigured
}

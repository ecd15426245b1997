// Package signature verifies payment gateway callback signatures.
//
// A callback is authentic when its signature equals the lowercase hex encoding of
// HMAC-SHA256(secret, order_id + "|" + payment_id).
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks callback signatures with the server-held gateway secret
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the expected signature for a gateway order and payment pair
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares the exact lowercase hex string in constant time.
func (v *Verifier) Verify(orderID, paymentID, sig string) bool {
	if len(v.secret) == 0 {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(v.Sign(orderID, paymentID)))
}

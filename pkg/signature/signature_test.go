package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifier_KnownVector(t *testing.T) {
	v := NewVerifier("key")
	// echo -n "order_1|pay_1" | openssl dgst -sha256 -hmac key
	want := "65219a93f3f6ab8a5f6962209ec83d04e29cd18b30fffd7e1a2aade3a72c199e"
	assert.Equal(t, want, v.Sign("order_1", "pay_1"))
	assert.True(t, v.Verify("order_1", "pay_1", want))
}

func TestVerifier_RejectsTampering(t *testing.T) {
	v := NewVerifier("s3cret")
	good := v.Sign("order_abc", "pay_xyz")

	cases := map[string][3]string{
		"swapped ids":      {"pay_xyz", "order_abc", good},
		"other payment":    {"order_abc", "pay_other", good},
		"truncated":        {"order_abc", "pay_xyz", good[:62]},
		"not hex":          {"order_abc", "pay_xyz", "zz" + good[2:]},
		"empty":            {"order_abc", "pay_xyz", ""},
		"flipped last nib": {"order_abc", "pay_xyz", good[:63] + flip(good[63])},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, v.Verify(c[0], c[1], c[2]))
		})
	}
}

func TestVerifier_UppercaseHexRejected(t *testing.T) {
	v := NewVerifier("s3cret")
	sig := v.Sign("order_abc", "pay_xyz")
	upper := []byte(sig)
	for i, c := range upper {
		if c >= 'a' && c <= 'f' {
			upper[i] = c - 32
		}
	}
	assert.False(t, v.Verify("order_abc", "pay_xyz", string(upper)))
}

func TestVerifier_EmptySecretNeverVerifies(t *testing.T) {
	v := NewVerifier("")
	assert.False(t, v.Verify("order_abc", "pay_xyz", v.Sign("order_abc", "pay_xyz")))
}

func flip(c byte) string {
	if c == '0' {
		return "1"
	}
	return "0"
}

package przelewy24

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSignature(t *testing.T) {
	values := map[string]string{
		"p24_session_id":  "42:przelewy24:1700000000.000000",
		"p24_merchant_id": "12345",
		"p24_order_id":    "p24-order-1",
		"p24_amount":      "10000",
		"p24_currency":    "PLN",
	}

	t.Run("RequestTuple", func(t *testing.T) {
		assert.Equal(t, "c9e260325b56c7837a206c3dde080939",
			ComputeSignature(RequestSignatureFields, values, "secret"))
	})

	t.Run("SuccessReturnTuple", func(t *testing.T) {
		assert.Equal(t, "56ba3242812a517da49ba0818f2d10aa",
			ComputeSignature(SuccessReturnSignatureFields, values, "secret"))
	})

	t.Run("StatusTupleMatchesSuccessReturn", func(t *testing.T) {
		assert.Equal(t,
			ComputeSignature(SuccessReturnSignatureFields, values, "secret"),
			ComputeSignature(StatusSignatureFields, values, "secret"))
	})

	t.Run("Deterministic", func(t *testing.T) {
		a := ComputeSignature(RequestSignatureFields, values, "secret")
		b := ComputeSignature(RequestSignatureFields, values, "secret")
		assert.Equal(t, a, b)
		assert.Len(t, a, 32)
	})

	t.Run("MissingFieldsAreEmpty", func(t *testing.T) {
		assert.Equal(t, "5e9b8a13cf9aaf8f5301a7cd2f9bd474",
			ComputeSignature(RequestSignatureFields, map[string]string{}, "secret"))
	})

	t.Run("CrcValueIsAlwaysTheSecret", func(t *testing.T) {
		withCrc := map[string]string{"crc": "attacker"}
		assert.Equal(t, "5e9b8a13cf9aaf8f5301a7cd2f9bd474",
			ComputeSignature(RequestSignatureFields, withCrc, "secret"))
	})

	t.Run("FieldOrderMatters", func(t *testing.T) {
		v := map[string]string{"a": "a", "b": "b", "c": "c", "d": "d"}
		assert.Equal(t, "64e9c9eba3b45005c9da37b8c73684a9",
			ComputeSignature([]string{"a", "b", "c", "d", "crc"}, v, "secret"))
		assert.Equal(t, "ed94d105402bcad963ae2947c1745b14",
			ComputeSignature([]string{"b", "a", "c", "d", "crc"}, v, "secret"))
	})

	t.Run("DoesNotMutateValues", func(t *testing.T) {
		v := map[string]string{"p24_amount": "1"}
		ComputeSignature(RequestSignatureFields, v, "secret")
		assert.Equal(t, map[string]string{"p24_amount": "1"}, v)
	})
}

func TestVerifySignature(t *testing.T) {
	values := map[string]string{
		"p24_session_id": "42:przelewy24:1700000000.000000",
		"p24_order_id":   "p24-order-1",
		"p24_amount":     "10000",
		"p24_currency":   "PLN",
	}
	sign := ComputeSignature(SuccessReturnSignatureFields, values, "secret")

	assert.True(t, VerifySignature(SuccessReturnSignatureFields, values, "secret", sign))
	assert.False(t, VerifySignature(SuccessReturnSignatureFields, values, "other", sign))
	assert.False(t, VerifySignature(SuccessReturnSignatureFields, values, "secret", ""))

	for field := range values {
		t.Run("Altered_"+field, func(t *testing.T) {
			altered := make(map[string]string, len(values))
			for k, v := range values {
				altered[k] = v
			}
			altered[field] = values[field] + "1"
			assert.False(t, VerifySignature(SuccessReturnSignatureFields, altered, "secret", sign))
		})
	}
}

package przelewy24

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const crcField = "crc"

// Field tuples the processor signs. Order matters and must match the processor.
var (
	RequestSignatureFields       = []string{"p24_session_id", "p24_merchant_id", "p24_amount", "p24_currency", crcField}
	SuccessReturnSignatureFields = []string{"p24_session_id", "p24_order_id", "p24_amount", "p24_currency", crcField}
	StatusSignatureFields        = []string{"p24_session_id", "p24_order_id", "p24_amount", "p24_currency", crcField}
)

// ComputeSignature joins the values of fields with "|" and returns the MD5 hex
// digest. The crc field always takes the shared secret; missing fields are empty.
func ComputeSignature(fields []string, values map[string]string, crc string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f == crcField {
			parts[i] = crc
			continue
		}
		parts[i] = values[f]
	}

	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(fields []string, values map[string]string, crc, sign string) bool {
	expected := ComputeSignature(fields, values, crc)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(sign)) == 1
}

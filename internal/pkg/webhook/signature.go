package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the hex encoded HMAC-SHA256 of payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signatureHeader against the HMAC-SHA256 of the raw body. An
// empty secret never verifies.
func Verify(signatureHeader string, payload []byte, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret = strings.TrimSpace(secret)
	if sig == "" || secret == "" {
		return false
	}
	sig = strings.TrimPrefix(strings.ToLower(sig), "sha256=")

	decodedSig, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/balamurugesan03/Kotbilling/models"
)

// SharedSignatureHeader is checked when the platform-specific header is absent.
const SharedSignatureHeader = "X-Webhook-Signature"

var platformSignatureHeaders = map[string]string{
	models.PlatformSwiggy: "X-Swiggy-Signature",
	models.PlatformZomato: "X-Zomato-Signature",
}

// SignatureFromHeaders extracts the webhook signature for a platform, trying
// the platform-specific header first and the shared fallback second.
func SignatureFromHeaders(header http.Header, platform string) string {
	if name, ok := platformSignatureHeaders[platform]; ok {
		if sig := header.Get(name); sig != "" {
			return sig
		}
	}
	return header.Get(SharedSignatureHeader)
}

// VerifyWebhookSignature checks that signature is the hex HMAC-SHA256 of
// rawBody under secret. It fails closed on a missing signature, body or
// secret, and compares in constant time to avoid timing side channels.
// Whether to skip verification when no secret is configured is the caller's
// policy decision, not this function's.
func VerifyWebhookSignature(secret string, rawBody []byte, signature string) bool {
	if secret == "" || len(rawBody) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}

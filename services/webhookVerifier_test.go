package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"order_id":"SWG-1001","items":[]}`)
	signature := signBody(secret, body)

	assert.True(t, VerifyWebhookSignature(secret, body, signature))
}

func TestVerifyWebhookSignatureTamperedBody(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"order_id":"SWG-1001"}`)
	signature := signBody(secret, body)

	tampered := []byte(`{"order_id":"SWG-1002"}`)
	assert.False(t, VerifyWebhookSignature(secret, tampered, signature))
}

func TestVerifyWebhookSignatureSingleByteMutations(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"order_id":"SWG-1001"}`)
	signature := signBody(secret, body)

	for i := range signature {
		mutated := []byte(signature)
		mutated[i] ^= 0x01
		assert.False(t, VerifyWebhookSignature(secret, body, string(mutated)), "signature byte %d", i)
	}
	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, VerifyWebhookSignature(secret, mutated, signature), "body byte %d", i)
	}
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	body := []byte(`{"order_id":"SWG-1001"}`)
	signature := signBody("whsec_test", body)

	assert.False(t, VerifyWebhookSignature("whsec_other", body, signature))
}

func TestVerifyWebhookSignatureFailsClosed(t *testing.T) {
	body := []byte(`{}`)
	signature := signBody("whsec_test", body)

	assert.False(t, VerifyWebhookSignature("", body, signature), "empty secret")
	assert.False(t, VerifyWebhookSignature("whsec_test", nil, signature), "empty body")
	assert.False(t, VerifyWebhookSignature("whsec_test", body, ""), "empty signature")
}

func TestSignatureFromHeadersPrefersPlatformHeader(t *testing.T) {
	header := http.Header{}
	header.Set("X-Swiggy-Signature", "platform-sig")
	header.Set("X-Webhook-Signature", "shared-sig")

	assert.Equal(t, "platform-sig", SignatureFromHeaders(header, "swiggy"))
}

func TestSignatureFromHeadersFallsBackToShared(t *testing.T) {
	header := http.Header{}
	header.Set("X-Webhook-Signature", "shared-sig")

	assert.Equal(t, "shared-sig", SignatureFromHeaders(header, "zomato"))
	assert.Equal(t, "", SignatureFromHeaders(http.Header{}, "zomato"))
}

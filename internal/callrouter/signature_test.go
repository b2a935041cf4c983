package callrouter

import (
	"strings"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := "shared-secret"
	body := []byte(`{"message":{"call":{"phoneNumberId":"phone-123"}}}`)
	sig := signBody(body, secret)

	if !VerifySignature(body, sig, secret) {
		t.Fatal("correct signature must verify")
	}
	if !VerifySignature(body, strings.ToUpper(sig), secret) {
		t.Error("hex signature should verify regardless of case")
	}

	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		if VerifySignature(tampered, sig, secret) {
			t.Fatalf("flipping byte %d must break the signature", i)
		}
	}
}

func TestVerifySignatureSkippedWithoutSecret(t *testing.T) {
	body := []byte(`{}`)
	if !VerifySignature(body, "", "") {
		t.Error("verification must be skipped when no secret is configured")
	}
	if !VerifySignature(body, "garbage", "") {
		t.Error("any header is accepted when no secret is configured")
	}
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	if VerifySignature([]byte(`{}`), "", "shared-secret") {
		t.Error("a configured secret must reject requests without a signature")
	}
}

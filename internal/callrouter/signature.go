// Package callrouter implements the inbound call webhook: it authenticates
// the voice platform, resolves the called number to an agency, resolves the
// caller to a lead, and returns the assistant configuration for the call.
package callrouter

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"leadrouter_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA-256 of the raw request body.
const SignatureHeader = "X-Vapi-Signature"

// VerifySignature checks a hex-encoded HMAC-SHA-256 signature over the raw
// request body. An empty secret disables verification entirely; with a secret
// configured, a missing or malformed header fails.
func VerifySignature(raw []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// SignatureMiddleware verifies the webhook signature against the raw body
// before any handler runs. The body is restored afterwards so handlers can
// bind it normally. When no secret is configured the check is skipped; the
// module logs that trust policy loudly at startup, not per request.
func SignatureMiddleware(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		if !VerifySignature(raw, c.GetHeader(SignatureHeader), secret) {
			log.Warn("webhook signature mismatch", "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
			return
		}
		c.Next()
	}
}

// Package middleware holds the gin middleware shared by the webhook routes.
package middleware

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movecall/config"
	"movecall/utils"
)

// ValidateTwilioSignature rejects webhook requests whose X-Twilio-Signature
// does not match the HMAC-SHA1 of the public URL plus the sorted form
// parameters. Validation is skipped when no auth token is configured, so
// local development can post to the webhooks directly.
func ValidateTwilioSignature() gin.HandlerFunc {
	return func(c *gin.Context) {
		authToken := config.AppConfig.TwilioAuthToken
		if authToken == "" {
			c.Next()
			return
		}

		signature := c.GetHeader("X-Twilio-Signature")
		if signature == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing signature"})
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed form body"})
			return
		}
		params := make(map[string]string, len(c.Request.PostForm))
		for key := range c.Request.PostForm {
			params[key] = c.Request.PostForm.Get(key)
		}

		expected := computeSignature(authToken, webhookURL(c), params)
		if !hmac.Equal([]byte(signature), []byte(expected)) {
			utils.GetLogger().Warn("rejected webhook with bad signature",
				zap.String("path", c.Request.URL.Path), zap.String("remote", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}

// webhookURL reconstructs the public URL Twilio signed. Behind a proxy the
// request's own host is wrong, so the configured base URL wins when set.
func webhookURL(c *gin.Context) string {
	if base := config.AppConfig.WebhookBaseURL; base != "" {
		return strings.TrimSuffix(base, "/") + c.Request.URL.RequestURI()
	}
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

// computeSignature implements Twilio's request signing: the URL concatenated
// with each form parameter name and value in key order, HMAC-SHA1 over the
// auth token, base64 encoded.
func computeSignature(authToken, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(url)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

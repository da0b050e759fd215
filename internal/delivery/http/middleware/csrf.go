package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"cvtheque-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must contain the CSRF token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour
)

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the Double-Submit Cookie pattern for CSRF
// protection.
//
// How it works:
// 1. On any request, if no csrf_token cookie exists, generate one and set it
// 2. For state-changing requests (POST, PUT, DELETE, PATCH), validate that:
//   - The X-CSRF-Token header exists
//   - The header value matches the csrf_token cookie value
//
// Cookies are automatically sent with requests, but attackers cannot read
// cookie values from a different origin, so they cannot forge the header.
//
// EXEMPTIONS:
// - Public counter endpoints, called anonymously from the job board
// - The health check
func CSRFMiddleware() gin.HandlerFunc {
	csrfExemptPaths := map[string]bool{
		"/v1/health": true,
	}
	// The view/click counters are public fire-and-forget POSTs from
	// anonymous visitors who never had a session.
	csrfExemptSuffixes := []string{
		"/view",
		"/register-click",
	}

	isExempt := func(path string) bool {
		if csrfExemptPaths[path] {
			return true
		}
		for _, s := range csrfExemptSuffixes {
			if len(path) > len(s) && path[len(path)-len(s):] == s {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if isExempt(path) {
			// Still set the cookie for future requests, but don't validate
			csrfCookie, err := c.Cookie(CSRFTokenCookieName)
			if err != nil || csrfCookie == "" {
				newToken, _ := generateCSRFToken()
				if newToken != "" {
					c.SetSameSite(http.SameSiteLaxMode)
					c.SetCookie(
						CSRFTokenCookieName,
						newToken,
						int(CSRFTokenExpiry.Seconds()),
						"/",
						"",
						true,
						false,
					)
				}
			}
			c.Next()
			return
		}

		// Get or generate CSRF token
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)

		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}

			// SameSite=Lax allows the cookie on top-level navigations but
			// not on cross-site subrequests (forms, iframes).
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				CSRFTokenCookieName,
				newToken,
				int(CSRFTokenExpiry.Seconds()),
				"/",
				"",    // Domain (empty = current domain)
				true,  // Secure (HTTPS only)
				false, // HttpOnly = false so JS can read it
			)
			csrfCookie = newToken
		}

		// For safe methods, no validation needed
		method := c.Request.Method
		if method == "GET" || method == "HEAD" || method == "OPTIONS" {
			c.Next()
			return
		}

		// For state-changing methods, validate CSRF token
		headerToken := c.GetHeader(CSRFTokenHeaderName)

		if headerToken == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}

		if headerToken != csrfCookie {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	mw := AuthMiddleware("secret-key", nil, detector)

	t.Run("valid key accepted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/gardens", nil)
		req.Header.Set(HeaderAPIKey, "secret-key")
		w := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/gardens", nil)
		req.Header.Set(HeaderAPIKey, "wrong")
		w := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/gardens", nil)
		w := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("public paths bypass auth", func(t *testing.T) {
		for _, path := range PublicPaths {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			mw(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "path %s should be public", path)
		}
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/gardens", nil)
	w := httptest.NewRecorder()

	SecurityHeadersMiddleware()(okHandler()).ServeHTTP(w, req)

	assert.Equal(t, HeaderValueNoSniff, w.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueSameOrigin, w.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueXSSBlock, w.Header().Get(HeaderXSSProtection))
	assert.Equal(t, HeaderValueReferrerStrictOrigin, w.Header().Get(HeaderReferrerPolicy))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	limited := RequestSizeLimitMiddleware(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/gardens", strings.NewReader("small"))
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/gardens", strings.NewReader(strings.Repeat("x", 64)))
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestSuspiciousActivityDetector_RateLimit(t *testing.T) {
	detector := NewSuspiciousActivityDetector()

	for i := 0; i < 1000; i++ {
		assert.True(t, detector.RecordRequest("10.0.0.1"))
	}
	assert.False(t, detector.RecordRequest("10.0.0.1"))

	// Other IPs are unaffected
	assert.True(t, detector.RecordRequest("10.0.0.2"))
}

func TestExtractIP(t *testing.T) {
	t.Run("untrusted remote ignores forwarded header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.5:1234"
		req.Header.Set(HeaderForwardedFor, "198.51.100.7")

		assert.Equal(t, "203.0.113.5", extractIP(req, nil))
	})

	t.Run("trusted proxy uses rightmost forwarded ip", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set(HeaderForwardedFor, "198.51.100.7, 192.0.2.9")

		assert.Equal(t, "192.0.2.9", extractIP(req, []string{"10.0.0.1"}))
	})
}

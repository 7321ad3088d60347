package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	t.Run("Cookie Preferred", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie_token"})
		// Add header as well to ensure cookie takes precedence
		req.Header.Set("Authorization", "Bearer header_token")

		token := ExtractAccessToken(req)
		assert.Equal(t, "cookie_token", token)
	})

	t.Run("Header Fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header_token")

		token := ExtractAccessToken(req)
		assert.Equal(t, "header_token", token)
	})

	t.Run("Empty Cookie Falls Back to Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: ""})
		req.Header.Set("Authorization", "Bearer header_token")

		token := ExtractAccessToken(req)
		assert.Equal(t, "header_token", token)
	})

	t.Run("No Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		token := ExtractAccessToken(req)
		assert.Empty(t, token)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic user:pass")

		token := ExtractAccessToken(req)
		assert.Empty(t, token)
	})
}

func TestServiceToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		tok, err := GenerateServiceToken("secret", "checkout", time.Minute)
		require.NoError(t, err)

		claims, err := ParseServiceToken("secret", tok)
		require.NoError(t, err)
		assert.Equal(t, "checkout", claims.Service)
		assert.Equal(t, "checkout", claims.Subject)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		tok, err := GenerateServiceToken("secret", "checkout", time.Minute)
		require.NoError(t, err)

		_, err = ParseServiceToken("other", tok)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		tok, err := GenerateServiceToken("secret", "checkout", -time.Minute)
		require.NoError(t, err)

		_, err = ParseServiceToken("secret", tok)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("NoneAlgorithmRejected", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, ServiceClaims{Service: "checkout"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseServiceToken("secret", tok)
		assert.Error(t, err)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		_, err := GenerateServiceToken("", "checkout", time.Minute)
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, err = ParseServiceToken("", "whatever")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}

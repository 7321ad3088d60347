package middleware

import (
	"context"
	"net/http"

	"p24-gateway/internal/auth"
	"p24-gateway/internal/logger"
	"p24-gateway/internal/utils"

	"go.uber.org/zap"
)

type contextKey string

const serviceKey contextKey = "service"

// ServiceAuth rejects requests without a valid service token signed with secret.
func ServiceAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				utils.WriteJSONError(w, "missing access token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseServiceToken(secret, tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("rejected service token", zap.Error(err))
				utils.WriteJSONError(w, "invalid access token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), serviceKey, claims.Service)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ServiceFrom returns the authenticated calling service, if any.
func ServiceFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(serviceKey).(string)
	return s, ok
}

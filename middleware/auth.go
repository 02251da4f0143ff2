package middleware

import (
	"context"
	"net/http"
	"strings"

	"notes-api/auth"
	"notes-api/responses"
)

type ctxKey string

// UserIDKey is the request-context key holding the authenticated user id.
const UserIDKey ctxKey = "userID"

// UserID extracts the authenticated user id injected by RequireAuth.
func UserID(r *http.Request) (int, bool) {
	id, ok := r.Context().Value(UserIDKey).(int)
	return id, ok
}

// RequireAuth verifies the Authorization bearer token on every request and
// injects the token's user id into the request context. Missing header is
// 401; a header that fails to decode is 403.
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				responses.Error(w, http.StatusUnauthorized, responses.ErrorBody{
					Status:  responses.StatusAuthError,
					Message: "Unauthorized",
				})
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := svc.DecodeLoginToken(tokenStr)
			if err != nil {
				responses.Error(w, http.StatusForbidden, responses.ErrorBody{
					Status:  responses.StatusAuthError,
					Message: "Invalid login credentials, please logout and login again",
				})
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	emailKey       contextKey = "email"
	accessTokenKey contextKey = "access_token"
)

// UserIDFromContext は context から userID を取得する
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

// WithUserID は context に userID をセットする
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// EmailFromContext returns the session email, if any.
func EmailFromContext(ctx context.Context) string {
	v, _ := ctx.Value(emailKey).(string)
	return v
}

// AccessTokenFromContext returns the hosted-auth access token of the session, if any.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accessTokenKey).(string)
	return v, ok && v != ""
}

// WithAccessToken stores the hosted-auth access token in ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// WithClaims stores every identity field of a verified session in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	ctx = WithUserID(ctx, c.UserID())
	ctx = context.WithValue(ctx, emailKey, c.Email)
	return WithAccessToken(ctx, c.AccessToken)
}

// RequireAuth は認証必須ミドルウェア。セッションを検証し、userID を context にセットする
func RequireAuth(sessionSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				writeUnauthorized(w, "unauthorized")
				return
			}

			claims, err := VerifySessionToken(cookie.Value, sessionSecret)
			if err != nil {
				writeUnauthorized(w, "invalid_session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth は有効なセッションがあれば userID を context にセットし、なければそのまま通す
func OptionalAuth(sessionSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := SessionFromRequest(r, sessionSecret); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DevUserID は開発用のダミー userID（AUTH_REQUIRED=false 時に使用）
const DevUserID = "00000000-0000-0000-0000-000000000001"

// DevAuth は開発用ミドルウェア。ダミー userID を context にセットする
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithUserID(r.Context(), DevUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "crowdfund_session"
const minSecretLen = 32

// Claims はセッションクッキーに格納する JWT のクレーム。
// Subject がユーザーID、AccessToken はホスト側認証サービスのアクセストークン。
type Claims struct {
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"at,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the session.
func (c *Claims) UserID() string {
	return c.Subject
}

// CreateSessionToken はユーザー情報から HS256 署名付きセッショントークンを生成する
func CreateSessionToken(userID, email, accessToken string, secret []byte, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("session: empty user id")
	}
	now := time.Now()
	claims := Claims{
		Email:       email,
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifySessionToken はトークンの署名と有効期限を検証しクレームを返す
func VerifySessionToken(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("session: missing subject")
	}
	return claims, nil
}

// SessionCookieName はセッションクッキー名
func SessionCookieName() string {
	return sessionCookieName
}

// SessionSecretBytes は文字列からセッション署名用のバイト列を生成する（最低32バイト）
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// SetSessionCookie writes the session cookie. secure should be true behind HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest は cookie からセッションを取り出して検証する
func SessionFromRequest(r *http.Request, secret []byte) (*Claims, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}
	return VerifySessionToken(cookie.Value, secret)
}

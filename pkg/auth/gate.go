package auth

import (
	"net/http"
	"net/url"
)

// PrivateRoute redirects visitors without a valid session to signInPath,
// carrying the requested path in the return_to query parameter.
func PrivateRoute(sessionSecret []byte, signInPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := SessionFromRequest(r, sessionSecret)
			if err != nil {
				target := signInPath + "?return_to=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// PublicOnlyRoute sends visitors that already have a valid session to homePath.
// Sign-in and sign-up pages use it.
func PublicOnlyRoute(sessionSecret []byte, homePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := SessionFromRequest(r, sessionSecret); err == nil {
				http.Redirect(w, r, homePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/service"
	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

const msgInvalidCredentials = "Invalid email or password"

// AuthConfig は AuthHandler の設定
type AuthConfig struct {
	SessionSecret []byte
	SessionTTL    time.Duration
	// SecureCookie は HTTPS 配信時に true
	SecureCookie bool
}

// AuthHandler handles hosted email/password sign-in, sign-up and sign-out.
type AuthHandler struct {
	authService service.AuthService
	cfg         AuthConfig
	now         func() time.Time
}

// NewAuthHandler は AuthHandler を生成する
func NewAuthHandler(authService service.AuthService, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, now: time.Now}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// sessionTTL は SessionTTL をホスト側アクセストークンの有効期限で切り詰める
func (h *AuthHandler) sessionTTL(s *model.Session) time.Duration {
	ttl := h.cfg.SessionTTL
	if s.AccessToken != "" && !s.ExpiresAt.IsZero() {
		ttl = min(ttl, s.ExpiresAt.Sub(h.now()))
	}
	return ttl
}

// startSession はセッショントークンを発行して cookie にセットする
func (h *AuthHandler) startSession(w http.ResponseWriter, s *model.Session) error {
	ttl := h.sessionTTL(s)
	if ttl <= 0 {
		return errors.New("session: access token already expired")
	}
	token, err := auth.CreateSessionToken(s.User.ID, s.User.Email, s.AccessToken, h.cfg.SessionSecret, ttl)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(w, token, ttl, h.cfg.SecureCookie)
	return nil
}

// SignIn は POST /api/auth/signin を処理する
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	session, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		slog.Error("sign in failed", "error", err)
		writeError(w, http.StatusBadGateway, "auth_unavailable")
		return
	}
	if err := h.startSession(w, session); err != nil {
		slog.Error("session token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "session_error")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{ID: session.User.ID, Email: session.User.Email})
}

// SignUp は POST /api/auth/signup を処理する。メール確認待ちなら 202
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
			return
		}
		slog.Error("sign up failed", "error", err)
		writeError(w, http.StatusBadGateway, "auth_unavailable")
		return
	}
	if session == nil {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "confirmation_required"})
		return
	}
	if err := h.startSession(w, session); err != nil {
		slog.Error("session token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "session_error")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{ID: session.User.ID, Email: session.User.Email})
}

// SignOut は POST /api/auth/signout を処理する。ホスト側のログアウト失敗は無視する
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.AccessTokenFromContext(r.Context()); ok {
		if err := h.authService.SignOut(r.Context()); err != nil {
			slog.Warn("hosted sign out failed", "error", err)
		}
	}
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me は GET /api/me を処理する
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{ID: userID, Email: auth.EmailFromContext(r.Context())})
}

package dataservice

import (
	"context"
	"net/http"
	"time"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         *authUser `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *model.Session {
	if t.AccessToken == "" || t.User == nil {
		return nil
	}
	s := &model.Session{
		User:         model.User{ID: t.User.ID, Email: t.User.Email},
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return s
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword はパスワードグラントでサインインしセッションを返す
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", credentials{email, password})
	if err != nil {
		return nil, err
	}
	var tr tokenResponse
	if err := c.do(req, &tr); err != nil {
		return nil, err
	}
	s := tr.session(time.Now())
	if s == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "no session in token response"}
	}
	return s, nil
}

// SignUp はユーザーを登録する。メール確認が必要な場合は session が nil になる
func (c *Client) SignUp(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/signup", credentials{email, password})
	if err != nil {
		return nil, nil, err
	}
	// 確認待ちの場合はユーザーオブジェクトがトップレベルで返る
	var raw struct {
		tokenResponse
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := c.do(req, &raw); err != nil {
		return nil, nil, err
	}
	if s := raw.tokenResponse.session(time.Now()); s != nil {
		u := s.User
		return &u, s, nil
	}
	u := &model.User{ID: raw.ID, Email: raw.Email}
	if raw.User != nil {
		u = &model.User{ID: raw.User.ID, Email: raw.User.Email}
	}
	return u, nil, nil
}

// SignOut revokes the access token carried by ctx.
func (c *Client) SignOut(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

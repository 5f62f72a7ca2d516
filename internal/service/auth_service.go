package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/dataservice"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// Authenticator is the hosted auth API used by AuthService.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignUp(ctx context.Context, email, password string) (*model.User, *model.Session, error)
	SignOut(ctx context.Context) error
}

// AuthService はホスト型認証のサインイン・サインアップ・サインアウトを扱う
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	// SignUp returns a nil session while the address still awaits confirmation.
	SignUp(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
}

type authService struct {
	auth Authenticator
}

// NewAuthService は AuthService を生成する
func NewAuthService(auth Authenticator) AuthService {
	return &authService{auth: auth}
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", invalid("email", "a valid email is required")
	}
	if password == "" {
		return "", invalid("password", "password is required")
	}
	return email, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		var apiErr *dataservice.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return session, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	_, session, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		var apiErr *dataservice.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, invalid("email", apiErr.Message)
		}
		return nil, err
	}
	return session, nil
}

func (s *authService) SignOut(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

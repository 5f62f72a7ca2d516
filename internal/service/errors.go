package service

import "errors"

// ErrForbidden is returned when a user tries to modify another user's resource.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCredentials はサインインの認証情報が誤っている場合のエラー
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError は入力値の検証エラー。Field は問題のある項目名
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

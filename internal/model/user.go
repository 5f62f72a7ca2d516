package model

import "time"

// User is the identity returned by the hosted auth service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated hosted-auth session.
// AccessToken is empty when sign-up still awaits email confirmation.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

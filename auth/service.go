// Package auth is the stateless façade over the backend's /auth endpoints.
// Each method is a single HTTP call; session state lives in core.SessionStore.
package auth

import (
	"context"

	"github.com/markap/adminkit/core"
	"github.com/markap/adminkit/transport"
)

const basePath = "/auth"

// Service issues authentication calls through the shared transport client.
type Service struct {
	api *transport.Client
}

var _ core.AuthAPI = (*Service)(nil)

func New(api *transport.Client) *Service {
	return &Service{api: api}
}

// Login exchanges credentials for a token and user. Transport errors are
// propagated untouched; the session store interprets status codes.
func (s *Service) Login(ctx context.Context, creds core.Credentials) (*core.LoginResponse, error) {
	var resp core.LoginResponse
	err := s.api.Post(ctx, basePath+"/login", creds, &resp,
		transport.SkipUnauthorizedHandler())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a user account. Admin-gated on the backend.
func (s *Service) Register(ctx context.Context, data core.RegisterData) (*core.RegisterResponse, error) {
	var resp core.RegisterResponse
	if err := s.api.Post(ctx, basePath+"/register", data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the current user.
func (s *Service) Profile(ctx context.Context) (*core.User, error) {
	var user core.User
	if err := s.api.Get(ctx, basePath+"/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword requests a reset code for the given email.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*core.MessageResponse, error) {
	var resp core.MessageResponse
	err := s.api.Post(ctx, basePath+"/forgot-password", map[string]string{"email": email}, &resp,
		transport.SkipUnauthorizedHandler())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword consumes a reset code and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) (*core.MessageResponse, error) {
	payload := map[string]string{
		"email":       email,
		"code":        code,
		"newPassword": newPassword,
	}
	var resp core.MessageResponse
	err := s.api.Post(ctx, basePath+"/reset-password", payload, &resp,
		transport.SkipUnauthorizedHandler())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout asks the backend to invalidate the session. Some deployments have no
// server-side session to drop and answer 404; callers tolerate any failure.
func (s *Service) Logout(ctx context.Context) error {
	return s.api.Post(ctx, basePath+"/logout", nil, nil,
		transport.SkipUnauthorizedHandler())
}

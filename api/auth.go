package api

import (
	"context"
	"net/http"

	"campus/client/token"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedOn int64  `json:"createdOn,omitempty"`
}

// AuthService talks to the auth/* endpoint family. It moves credentials over
// the wire but never persists them; the session controller owns the store.
type AuthService struct {
	client *Client
}

type AuthResult struct {
	Pair token.Pair
	User User
}

type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

func (r authResponse) result() *AuthResult {
	return &AuthResult{
		Pair: token.Pair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken},
		User: r.User,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var resp authResponse
	err := s.client.sendJSON(ctx, http.MethodPost, "auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

type RegisterParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	var resp authResponse
	if err := s.client.sendJSON(ctx, http.MethodPost, "auth/register", params, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// Refresh exchanges a refresh token explicitly. The client also refreshes
// automatically on 401; this exists for embedders that schedule their own
// proactive refreshes.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	var resp authResponse
	err := s.client.sendJSON(ctx, http.MethodPost, "auth/refresh", map[string]string{
		"refreshToken": refreshToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func (s *AuthService) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.getJSON(ctx, "auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.sendJSON(ctx, http.MethodPost, "auth/logout", nil, nil)
}

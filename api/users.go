package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type UsersService struct {
	client *Client
}

type ListUsersParams struct {
	Role   Role
	Search string
	Page   int
	Limit  int
}

func (p ListUsersParams) query() url.Values {
	q := url.Values{}
	if p.Role != "" {
		q.Set("role", string(p.Role))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

func (s *UsersService) List(ctx context.Context, params ListUsersParams) ([]User, error) {
	var users []User
	if err := s.client.getJSON(ctx, "users", params.query(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (*User, error) {
	var user User
	if err := s.client.getJSON(ctx, "users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type CreateUserParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

func (s *UsersService) Create(ctx context.Context, params CreateUserParams) (*User, error) {
	var user User
	if err := s.client.sendJSON(ctx, http.MethodPost, "users", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type UpdateUserParams struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Role      *Role   `json:"role,omitempty"`
}

func (s *UsersService) Update(ctx context.Context, id string, params UpdateUserParams) (*User, error) {
	var user User
	if err := s.client.sendJSON(ctx, http.MethodPatch, "users/"+id, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "users/"+id, nil, nil)
}

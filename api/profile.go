package api

import (
	"context"
	"io"
	"net/http"
)

type Profile struct {
	User      User   `json:"user"`
	Bio       string `json:"bio,omitempty"`
	Country   string `json:"country,omitempty"`
	Language  string `json:"language,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// ProfileOptions are the selectable values the profile form offers.
type ProfileOptions struct {
	Countries []string `json:"countries"`
	Languages []string `json:"languages"`
}

type ProfileService struct {
	client *Client
}

func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.client.getJSON(ctx, "profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateProfileParams struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Country   *string `json:"country,omitempty"`
	Language  *string `json:"language,omitempty"`
}

func (s *ProfileService) Update(ctx context.Context, params UpdateProfileParams) (*Profile, error) {
	var profile Profile
	if err := s.client.sendJSON(ctx, http.MethodPatch, "profile", params, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) Options(ctx context.Context) (*ProfileOptions, error) {
	var options ProfileOptions
	if err := s.client.getJSON(ctx, "profile/options", nil, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

func (s *ProfileService) UploadAvatar(ctx context.Context, filename string, content io.Reader) (*Profile, error) {
	form := NewMultipart().File("avatar", filename, content)
	var profile Profile
	if err := s.client.sendMultipart(ctx, "profile/avatar", form, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

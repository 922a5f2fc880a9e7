package api

import (
	"context"
	"net/url"
)

type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SuggestionsService backs the typed autocomplete inputs (institutions,
// fields of study, and the like), optionally narrowed by country.
type SuggestionsService struct {
	client *Client
}

func (s *SuggestionsService) Suggest(ctx context.Context, category, prefix, country string) ([]Suggestion, error) {
	q := url.Values{}
	q.Set("category", category)
	if prefix != "" {
		q.Set("q", prefix)
	}
	if country != "" {
		q.Set("country", country)
	}
	var suggestions []Suggestion
	if err := s.client.getJSON(ctx, "suggestions", q, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

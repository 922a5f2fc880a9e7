package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Thin helpers shared by the typed endpoint services.

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Body.Decode(out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Body.Decode(out)
}

func (c *Client) sendMultipart(ctx context.Context, path string, form *Multipart, out interface{}) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Multipart: form})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Body.Decode(out)
}

func (c *Client) getBinary(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	data, ok := resp.Body.Binary()
	if !ok {
		return nil, fmt.Errorf("api: expected binary body from %s", path)
	}
	return data, nil
}

// Package api is the HTTP client for the Campus backend. It attaches bearer
// tokens from a token.Store, retries rate-limited calls, resolves expired
// access tokens through a single-flight refresh, and normalizes every
// failure into one error shape. Typed endpoint services hang off the Client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"campus/client/token"
)

const (
	maxRateLimitRetries = 3
	backoffBase         = time.Second
	backoffCap          = 10 * time.Second
)

type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        token.Store
	refreshGroup singleflight.Group
	sessionEnded func()
	metrics      *metrics
	userAgent    string

	// sleep is swapped out in tests so backoff assertions run instantly.
	sleep func(ctx context.Context, d time.Duration) error

	Auth        *AuthService
	Users       *UsersService
	Courses     *CoursesService
	Attendance  *AttendanceService
	Assignments *AssignmentsService
	Quizzes     *QuizzesService
	Exams       *QuizzesService
	Profile     *ProfileService
	Suggestions *SuggestionsService
	Admin       *AdminService
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithSessionEndedHandler registers the callback fired when the client
// clears credentials after an unrecoverable 401. The client itself never
// navigates; the embedder decides what "session ended" means.
func WithSessionEndedHandler(fn func()) Option {
	return func(c *Client) { c.sessionEnded = fn }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithSleep replaces the backoff sleep. Tests use it to assert on delays
// without waiting them out.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

func New(baseURL string, store token.Store, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.Users = &UsersService{client: c}
	c.Courses = &CoursesService{client: c}
	c.Attendance = &AttendanceService{client: c}
	c.Assignments = &AssignmentsService{client: c}
	c.Quizzes = &QuizzesService{client: c, basePath: "quizzes"}
	c.Exams = &QuizzesService{client: c, basePath: "exams"}
	c.Profile = &ProfileService{client: c}
	c.Suggestions = &SuggestionsService{client: c}
	c.Admin = &AdminService{client: c}
	return c, nil
}

// Do executes one logical request. Retries (429 backoff, one 401 refresh +
// retransmit) happen sequentially inside this call; the request is never in
// flight twice at once.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Body != nil && req.Multipart != nil {
		return nil, fmt.Errorf("api: request carries both JSON and multipart bodies")
	}

	payload, contentType, err := encodeBody(req)
	if err != nil {
		return nil, fmt.Errorf("api: encode request: %w", err)
	}

	rateRetries := 0
	refreshed := false
	for {
		pair, loadErr := c.store.Load(ctx)
		if loadErr != nil {
			return nil, fmt.Errorf("api: load tokens: %w", loadErr)
		}

		status, header, respBody, sendErr := c.send(ctx, req, payload, contentType, pair.AccessToken)
		if sendErr != nil {
			c.count(req.Method, "unreachable")
			return nil, &Error{Kind: KindUnreachable, Status: 0, Message: "server not reachable: " + sendErr.Error()}
		}

		switch {
		case status >= 200 && status < 300:
			c.count(req.Method, "ok")
			return &Response{Status: status, Header: header, Body: newBody(header.Get("Content-Type"), respBody)}, nil

		case status == http.StatusTooManyRequests:
			if rateRetries >= maxRateLimitRetries {
				c.count(req.Method, "rate_limited")
				return nil, &Error{Kind: KindRateLimited, Status: status, Message: messageOr(respBody, "rate limit exceeded")}
			}
			delay := rateLimitDelay(header.Get("Retry-After"), rateRetries)
			rateRetries++
			c.retry("rate_limited")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, &Error{Kind: KindUnreachable, Status: 0, Message: "server not reachable: " + err.Error()}
			}

		case status == http.StatusUnauthorized:
			if !refreshed && rateRetries == 0 && pair.RefreshToken != "" {
				if _, refreshErr := c.refresh(ctx, pair.AccessToken); refreshErr != nil {
					c.count(req.Method, "session_expired")
					return nil, refreshErr
				}
				refreshed = true
				c.retry("auth_refresh")
				continue
			}
			// Anonymous 401s (e.g. bad login) have no session to end.
			if !pair.Empty() {
				c.endSession(ctx)
			}
			c.count(req.Method, "session_expired")
			return nil, &Error{Kind: KindSessionExpired, Status: status, Message: messageOr(respBody, "session expired")}

		default:
			c.count(req.Method, "failed")
			return nil, &Error{Kind: KindRequestFailed, Status: status, Message: messageOr(respBody, http.StatusText(status))}
		}
	}
}

// refresh exchanges the stored refresh token for a new pair. Concurrent
// callers collapse onto one in-flight exchange and share its outcome; the
// guard resets once it settles so a later expiry can refresh again.
// staleAccess is the access token the caller just got rejected with: if the
// stored pair has already moved past it, another caller refreshed first and
// no second exchange is issued.
func (c *Client) refresh(ctx context.Context, staleAccess string) (token.Pair, error) {
	result, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		pair, err := c.store.Load(ctx)
		if err != nil || pair.RefreshToken == "" {
			c.endSession(ctx)
			c.refreshCount("rejected")
			return nil, &Error{Kind: KindSessionExpired, Status: http.StatusUnauthorized, Message: "no refresh token"}
		}
		if pair.AccessToken != "" && pair.AccessToken != staleAccess {
			return pair, nil
		}

		body, err := json.Marshal(map[string]string{"refreshToken": pair.RefreshToken})
		if err != nil {
			return nil, fmt.Errorf("api: encode refresh: %w", err)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("api: build refresh: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-Request-Id", uuid.NewString())

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			// Transport failure keeps the stored pair so a later retry
			// can still refresh once the server is back.
			c.refreshCount("unreachable")
			return nil, &Error{Kind: KindUnreachable, Status: 0, Message: "server not reachable: " + err.Error()}
		}
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			c.endSession(ctx)
			c.refreshCount("rejected")
			return nil, &Error{Kind: KindSessionExpired, Status: resp.StatusCode, Message: messageOr(respBody, "refresh rejected")}
		}

		var fresh token.Pair
		if err := json.Unmarshal(respBody, &fresh); err != nil || fresh.AccessToken == "" || fresh.RefreshToken == "" {
			c.endSession(ctx)
			c.refreshCount("rejected")
			return nil, &Error{Kind: KindSessionExpired, Status: resp.StatusCode, Message: "malformed refresh response"}
		}
		if err := c.store.Save(ctx, fresh); err != nil {
			return nil, fmt.Errorf("api: save refreshed tokens: %w", err)
		}
		c.refreshCount("ok")
		return fresh, nil
	})
	if err != nil {
		return token.Pair{}, err
	}
	return result.(token.Pair), nil
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, contentType, accessToken string) (int, http.Header, []byte, error) {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, nil, err
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

func (c *Client) endSession(ctx context.Context) {
	_ = c.store.Clear(ctx)
	if c.sessionEnded != nil {
		c.sessionEnded()
	}
}

func encodeBody(req Request) ([]byte, string, error) {
	switch {
	case req.Multipart != nil:
		return req.Multipart.encode()
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

// rateLimitDelay honors a Retry-After value in seconds when present,
// otherwise backs off exponentially: 1s, 2s, 4s, ... capped at 10s.
func rateLimitDelay(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	delay := backoffBase << attempt
	if delay > backoffCap {
		delay = backoffCap
	}
	return delay
}

func messageOr(body []byte, fallback string) string {
	if msg := serverMessage(body); msg != "" {
		return msg
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

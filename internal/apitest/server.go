// Package apitest runs an in-process stand-in for the Campus backend: real
// HTTP over httptest, chi routing, HS256 access tokens and rotating refresh
// tokens, plus fault injection (rate-limit bursts) for exercising the
// client's retry paths. Domain endpoints are attached per test through the
// exposed router.
package apitest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type account struct {
	user     User
	password string
}

type Server struct {
	*httptest.Server
	Router chi.Router

	secret    []byte
	accessTTL time.Duration

	mu            sync.Mutex
	accounts      map[string]account // by email
	refreshTokens map[string]string  // refresh token -> email
	refreshCalls  int
	loginCalls    int
	rateLimited   int
	retryAfter    string
}

func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		Router:        chi.NewRouter(),
		secret:        []byte("apitest-secret"),
		accessTTL:     time.Minute,
		accounts:      make(map[string]account),
		refreshTokens: make(map[string]string),
	}

	s.Router.Post("/auth/login", s.handleLogin)
	s.Router.Post("/auth/refresh", s.handleRefresh)
	s.Router.Post("/auth/logout", s.handleLogout)
	s.Router.With(s.RequireAuth).Get("/auth/me", s.handleMe)

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.consumeRateLimit(w) {
			return
		}
		s.Router.ServeHTTP(w, r)
	})
	s.Server = httptest.NewServer(root)
	t.Cleanup(s.Close)
	return s
}

// SeedUser registers an account and returns it.
func (s *Server) SeedUser(email, password, role string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := User{
		ID:        fmt.Sprintf("user-%d", len(s.accounts)+1),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	s.accounts[email] = account{user: user, password: password}
	return user
}

// IssuePair mints a token pair out of band, with an arbitrary access TTL.
// A negative TTL produces an already-expired access token, which is how
// tests drive the client into its refresh path.
func (s *Server) IssuePair(email string, accessTTL time.Duration) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		panic("apitest: unknown account " + email)
	}
	access := s.signAccess(acct.user, accessTTL)
	refresh := newOpaqueToken()
	s.refreshTokens[refresh] = email
	return access, refresh
}

// FailNextWithRateLimit makes the next n requests (any path) answer 429.
// retryAfter, when non-empty, is sent as the Retry-After header in seconds.
func (s *Server) FailNextWithRateLimit(n int, retryAfter string) {
	s.mu.Lock()
	s.rateLimited = n
	s.retryAfter = retryAfter
	s.mu.Unlock()
}

func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

func (s *Server) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// RevokeRefreshTokens invalidates every outstanding refresh token so the
// next refresh attempt is rejected.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshTokens = make(map[string]string)
	s.mu.Unlock()
}

// RequireAuth guards a route with bearer-token validation, answering the
// same error codes the real backend uses.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r.Header.Get("Authorization"))
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		if _, err := s.parseAccess(tokenString); err != nil {
			writeError(w, http.StatusUnauthorized, "token_expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handlers

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	s.mu.Lock()
	s.loginCalls++
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	if !ok || acct.password != req.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	access := s.signAccess(acct.user, s.accessTTL)
	refresh := newOpaqueToken()
	s.refreshTokens[refresh] = acct.user.Email
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         acct.user,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	s.mu.Lock()
	s.refreshCalls++
	email, ok := s.refreshTokens[req.RefreshToken]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token")
		return
	}
	delete(s.refreshTokens, req.RefreshToken)
	acct := s.accounts[email]
	access := s.signAccess(acct.user, s.accessTTL)
	refresh := newOpaqueToken()
	s.refreshTokens[refresh] = email
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         acct.user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, err := s.parseAccess(bearerToken(r.Header.Get("Authorization")))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "token_expired")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == claims.Subject {
			writeJSON(w, http.StatusOK, acct.user)
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "user_not_found")
}

func (s *Server) consumeRateLimit(w http.ResponseWriter) bool {
	s.mu.Lock()
	if s.rateLimited == 0 {
		s.mu.Unlock()
		return false
	}
	s.rateLimited--
	retryAfter := s.retryAfter
	s.mu.Unlock()

	if retryAfter != "" {
		w.Header().Set("Retry-After", retryAfter)
	}
	writeError(w, http.StatusTooManyRequests, "rate_limited")
	return true
}

func (s *Server) signAccess(user User, ttl time.Duration) string {
	now := time.Now().UTC()
	claims := accessClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic("apitest: sign: " + err.Error())
	}
	return signed
}

func (s *Server) parseAccess(tokenString string) (*accessClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Helpers

func newOpaqueToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("apitest: rand: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

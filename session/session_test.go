package session_test

import (
	"context"
	"testing"
	"time"

	"campus/client/api"
	"campus/client/internal/apitest"
	"campus/client/session"
	"campus/client/token"
)

func setup(t *testing.T) (*apitest.Server, *session.Controller, token.Store) {
	t.Helper()
	server := apitest.New(t)
	server.SeedUser("student@demo.local", "dev-password", "STUDENT")
	store := token.NewMemoryStore()
	client, err := api.New(server.URL, store)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return server, session.NewController(client, store), store
}

func TestLoginStoresPairAndUser(t *testing.T) {
	_, controller, store := setup(t)
	ctx := context.Background()

	user, err := controller.Login(ctx, "student@demo.local", "dev-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "student@demo.local" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if controller.Current() == nil || controller.Current().ID != user.ID {
		t.Fatalf("current user not set")
	}
	pair, _ := store.Load(ctx)
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected stored pair, got %+v", pair)
	}
}

func TestLoginFailureStoresNothing(t *testing.T) {
	_, controller, store := setup(t)
	ctx := context.Background()

	if _, err := controller.Login(ctx, "student@demo.local", "wrong"); err == nil {
		t.Fatalf("expected error")
	}
	if controller.Current() != nil {
		t.Fatalf("user must stay nil after failed login")
	}
	pair, _ := store.Load(ctx)
	if !pair.Empty() {
		t.Fatalf("tokens must stay empty after failed login")
	}
}

func TestRestoreWithoutTokens(t *testing.T) {
	_, controller, _ := setup(t)

	user, err := controller.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user, got %+v", user)
	}
}

func TestRestoreWithValidTokens(t *testing.T) {
	server, controller, store := setup(t)
	ctx := context.Background()

	access, refresh := server.IssuePair("student@demo.local", time.Minute)
	_ = store.Save(ctx, token.Pair{AccessToken: access, RefreshToken: refresh})

	user, err := controller.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if user == nil || user.Email != "student@demo.local" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if controller.Current() == nil {
		t.Fatalf("current user not set")
	}
}

func TestRestoreRefreshesExpiredAccess(t *testing.T) {
	server, controller, store := setup(t)
	ctx := context.Background()

	access, refresh := server.IssuePair("student@demo.local", -time.Minute)
	_ = store.Save(ctx, token.Pair{AccessToken: access, RefreshToken: refresh})

	user, err := controller.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if user == nil {
		t.Fatalf("expected restored user via refresh")
	}
	if server.RefreshCalls() != 1 {
		t.Fatalf("expected one refresh, got %d", server.RefreshCalls())
	}
}

func TestRestoreAuthFailureClearsTokens(t *testing.T) {
	server, controller, store := setup(t)
	ctx := context.Background()

	access, refresh := server.IssuePair("student@demo.local", -time.Minute)
	_ = store.Save(ctx, token.Pair{AccessToken: access, RefreshToken: refresh})
	server.RevokeRefreshTokens()

	user, err := controller.Restore(ctx)
	if err != nil {
		t.Fatalf("auth failure must resolve with no user, not an error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user")
	}
	pair, _ := store.Load(ctx)
	if !pair.Empty() {
		t.Fatalf("expected cleared tokens, got %+v", pair)
	}
}

func TestRestoreUnreachableKeepsTokens(t *testing.T) {
	store := token.NewMemoryStore()
	ctx := context.Background()
	_ = store.Save(ctx, token.Pair{AccessToken: "a", RefreshToken: "r"})

	client, err := api.New("http://127.0.0.1:1", store)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	controller := session.NewController(client, store)

	_, err = controller.Restore(ctx)
	if !api.IsUnreachable(err) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
	pair, _ := store.Load(ctx)
	if pair.Empty() {
		t.Fatalf("connectivity failure must keep tokens for a later retry")
	}
}

func TestLogoutClearsStateEvenWhenServerIsDown(t *testing.T) {
	server, controller, store := setup(t)
	ctx := context.Background()

	if _, err := controller.Login(ctx, "student@demo.local", "dev-password"); err != nil {
		t.Fatalf("login: %v", err)
	}
	server.Close()

	if err := controller.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if controller.Current() != nil {
		t.Fatalf("user must be cleared")
	}
	pair, _ := store.Load(ctx)
	if !pair.Empty() {
		t.Fatalf("tokens must be cleared, got %+v", pair)
	}
}

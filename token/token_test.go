package token

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMemoryStoreAtomicity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	pairs := []Pair{
		{AccessToken: "a1", RefreshToken: "r1"},
		{AccessToken: "a2", RefreshToken: "r2"},
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = store.Save(ctx, pairs[i%2])
		}
	}()

	for i := 0; i < 1000; i++ {
		pair, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if pair.Empty() {
			continue
		}
		if pair != pairs[0] && pair != pairs[1] {
			t.Fatalf("observed torn pair: %+v", pair)
		}
	}
	close(stop)
	wg.Wait()
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tokens.json")
	store := NewFileStore(path)
	ctx := context.Background()

	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load before save: %v", err)
	}
	if !pair.Empty() {
		t.Fatalf("expected empty pair, got %+v", pair)
	}

	want := Pair{AccessToken: "access", RefreshToken: "refresh"}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}

	pair, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pair != want {
		t.Fatalf("expected %+v, got %+v", want, pair)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	pair, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if !pair.Empty() {
		t.Fatalf("expected cleared pair, got %+v", pair)
	}
	// Clearing twice must not error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStoreCorruptFileReadsAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	pair, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !pair.Empty() {
		t.Fatalf("expected empty pair, got %+v", pair)
	}
}

func TestPeek(t *testing.T) {
	now := time.Now().UTC()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "INSTRUCTOR",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := Peek(signed)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if claims.Role != "INSTRUCTOR" || claims.Subject != "user-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresWithin(now, 0) {
		t.Fatalf("token should not read as expired yet")
	}
	if !claims.ExpiresWithin(now, 2*time.Minute) {
		t.Fatalf("token should read as expiring within leeway")
	}

	if _, err := Peek("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

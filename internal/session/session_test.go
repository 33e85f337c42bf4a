package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	data := &Data{UserID: uuid.New(), Email: "test@session.local"}

	sessionID, err := store.Create(ctx, w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sessionID == "" {
		t.Error("expected non-empty session ID")
	}

	cookie := sessionCookie(w)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if cookie.Secure {
		t.Error("expected Secure=false for non-secure store")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected session data, got nil")
	}
	if retrieved.UserID != data.UserID {
		t.Errorf("userID: got %s, want %s", retrieved.UserID, data.UserID)
	}
	if retrieved.Email != "test@session.local" {
		t.Errorf("email: got %q, want %q", retrieved.Email, "test@session.local")
	}
}

func TestSessionGetNoCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (no cookie): %v", err)
	}
	if data != nil {
		t.Error("expected nil for request without session cookie")
	}
}

func TestSessionGetExpired(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "nonexistent-session-id"})

	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (expired): %v", err)
	}
	if data != nil {
		t.Error("expected nil for expired/nonexistent session")
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	if _, err := store.Create(ctx, w, &Data{UserID: uuid.New(), Email: "destroy@session.local"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookie := sessionCookie(w)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(cookie)

	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	if c := sessionCookie(w2); c == nil || c.MaxAge != -1 {
		t.Error("expected MaxAge=-1 on destroyed cookie")
	}

	retrieved, _ := store.Get(ctx, req)
	if retrieved != nil {
		t.Error("expected nil after destroy")
	}
}

func TestSessionDestroyNoCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	err := store.Destroy(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if err != nil {
		t.Errorf("Destroy (no cookie): %v", err)
	}
}

func TestSessionSecureCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, true)

	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, &Data{UserID: uuid.New(), Email: "secure@test.local"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c := sessionCookie(w)
	if c == nil {
		t.Fatal("session cookie not found")
	}
	if !c.Secure {
		t.Error("expected Secure=true for secure store")
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store so no backend is required.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"blogapi/internal/account"
	"blogapi/internal/auth"
	"blogapi/internal/blog"
	"blogapi/internal/session"
	"blogapi/internal/store"
)

// fakeSessions records session calls instead of talking to Valkey.
type fakeSessions struct {
	mu        sync.Mutex
	created   []*session.Data
	destroyed int
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "sid", Path: "/"})
	return "sid", nil
}

func (f *fakeSessions) Destroy(_ context.Context, _ http.ResponseWriter, _ *http.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
	return nil
}

// fakeRevoker is an in-memory token denylist.
type fakeRevoker struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (f *fakeRevoker) Revoke(_ context.Context, id string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids[id] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[id], nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Memory   *store.Memory
	Tokens   *auth.Tokens
	Sessions *fakeSessions
	Revoked  *fakeRevoker
	Blogs    *Blogs
	Auth     *Auth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	tokens := auth.NewTokens("handler-test-secret", time.Hour)
	sessions := &fakeSessions{}
	revoked := &fakeRevoker{ids: map[string]bool{}}
	resolver := auth.NewResolver(tokens, revoked, nil)

	return &testEnv{
		Memory:   mem,
		Tokens:   tokens,
		Sessions: sessions,
		Revoked:  revoked,
		Blogs:    NewBlogs(blog.NewService(mem.Blogs), resolver),
		Auth:     NewAuth(account.NewService(mem.Users, tokens, revoked), sessions, resolver, false),
	}
}

// envelope mirrors the response wrapper with a raw data payload.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Success    bool            `json:"success"`
}

// call runs handler against a request built from the arguments. body may
// be a string (sent verbatim) or any value (JSON encoded). params are chi
// URL parameters as key, value pairs.
func call(t *testing.T, handler http.HandlerFunc, method, target string, body any, token string, params ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	handler(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	require.Equal(t, rr.Code, env.StatusCode)
	return rr, env
}

// signup registers a user and returns its token.
func (e *testEnv) signup(t *testing.T, email, first, last string) string {
	t.Helper()
	_, env := call(t, e.Auth.Signup, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":      email,
		"password":   "secret1",
		"first_name": first,
		"last_name":  last,
	}, "")
	require.True(t, env.Success, env.Error)

	var g struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &g))
	return g.Token
}

func blogBody(title string, tags ...string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "A description for " + title,
		"body":        strings.Repeat("Body text goes here. ", 5),
		"tags":        tags,
	}
}

// blogJSON is the subset of the blog response the tests inspect.
type blogJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	State       string   `json:"state"`
	ReadCount   int      `json:"read_count"`
	ReadingTime int      `json:"reading_time"`
	Tags        []string `json:"tags"`
	Author      struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
	} `json:"author"`
}

func (e *testEnv) createBlog(t *testing.T, token, title string, tags ...string) blogJSON {
	t.Helper()
	_, env := call(t, e.Blogs.Create, http.MethodPost, "/blogs", blogBody(title, tags...), token)
	require.Equal(t, http.StatusCreated, env.StatusCode, env.Error)

	var b blogJSON
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func (e *testEnv) publish(t *testing.T, token, id string) {
	t.Helper()
	_, env := call(t, e.Blogs.ChangeState, http.MethodPatch, "/blogs/"+id+"/state",
		map[string]string{"state": "published"}, token, "id", id)
	require.Equal(t, http.StatusOK, env.StatusCode, env.Error)
}

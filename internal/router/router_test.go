// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/account"
	"blogapi/internal/auth"
	"blogapi/internal/blog"
	"blogapi/internal/handlers"
	"blogapi/internal/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mem := store.NewMemory()
	tokens := auth.NewTokens("router-test-secret", time.Hour)
	resolver := auth.NewResolver(tokens, nil, nil)

	r := New(
		handlers.NewBlogs(blog.NewService(mem.Blogs), resolver),
		handlers.NewAuth(account.NewService(mem.Users, tokens, nil), nil, resolver, false),
		handlers.NewHealth(nil),
		[]string{"https://app.example.com"},
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Success    bool            `json:"success"`
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestHealthRoute(t *testing.T) {
	srv := newServer(t)

	resp, env := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestUnknownRoutes(t *testing.T) {
	srv := newServer(t)

	resp, env := do(t, srv, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", env.Error)

	resp, env = do(t, srv, http.MethodPost, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestMyBlogsIsNotABlogID(t *testing.T) {
	srv := newServer(t)

	resp, env := do(t, srv, http.MethodGet, "/blogs/user/my-blogs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", env.Error)
}

// TestBlogLifecycle drives one blog through the whole API.
func TestBlogLifecycle(t *testing.T) {
	srv := newServer(t)

	_, env := do(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "flow@example.com", "password": "secret1", "first_name": "Flo", "last_name": "Walker",
	})
	require.True(t, env.Success, env.Error)
	var grant struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &grant))
	token := grant.Token

	resp, env := do(t, srv, http.MethodPost, "/blogs", token, map[string]any{
		"title":       "Walking the routes",
		"description": "A tour of every endpoint",
		"body":        strings.Repeat("word ", 250),
		"tags":        []string{"tour"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var created struct {
		ID          string `json:"id"`
		ReadingTime int    `json:"reading_time"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 2, created.ReadingTime)

	resp, _ = do(t, srv, http.MethodGet, "/blogs/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "drafts are hidden from anonymous readers")

	resp, env = do(t, srv, http.MethodPatch, "/blogs/"+created.ID+"/state", token, map[string]string{"state": "published"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	resp, env = do(t, srv, http.MethodGet, "/blogs?search=walker", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"totalBlogs":1`)

	resp, env = do(t, srv, http.MethodGet, "/blogs/user/my-blogs?state=published", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), created.ID)

	resp, env = do(t, srv, http.MethodPut, "/blogs/"+created.ID, token, map[string]string{"description": "An updated tour"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	assert.Contains(t, string(env.Data), "An updated tour")

	resp, _ = do(t, srv, http.MethodDelete, "/blogs/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/blogs/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/blogs", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

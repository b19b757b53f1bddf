package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *RelayClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRelayClient(srv.URL+"/", time.Second)
}

func TestPing_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ping", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})
	res, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestClaim_SuccessAndConflict(t *testing.T) {
	taken := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sites/blog", r.URL.Path)
		if taken {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("site already claimed"))
			return
		}
		taken = true
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"jwt-1"}`))
	})

	tok, err := c.Claim(context.Background(), "blog")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", tok)

	_, err = c.Claim(context.Background(), "blog")
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestClaim_EmptyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := c.Claim(context.Background(), "blog")
	assert.Error(t, err)
}

func TestPush_SendsBearerAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ENCv2:abc", body["envelope"])
		assert.Equal(t, float64(3), body["version"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":4}`))
	})
	v, err := c.Push(context.Background(), "tok", "blog", "ENCv2:abc", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func TestPush_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusConflict, ErrVersionConflict},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusRequestEntityTooLarge, ErrTooLarge},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := c.Push(context.Background(), "tok", "blog", "x", 0)
		assert.True(t, errors.Is(err, tc.want), "status %d: %v", tc.status, err)
	}
}

func TestPull_OKAndNotFound(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sites/missing" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SiteEnvelope{Envelope: "ENCv2:zz", Version: 2, UpdatedAt: ts})
	})

	got, err := c.Pull(context.Background(), "blog")
	require.NoError(t, err)
	assert.Equal(t, "ENCv2:zz", got.Envelope)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.UpdatedAt.Equal(ts))

	_, err = c.Pull(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUnreachableServer(t *testing.T) {
	c := NewRelayClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.Ping(context.Background())
	assert.Error(t, err)
}

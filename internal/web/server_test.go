package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamesense/internal/agent"
	"gamesense/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	status agent.Status
}

func (f fakeStatus) Status() agent.Status { return f.status }

type fakeResolver struct {
	rec *resolver.Record
	err error
}

func (f fakeResolver) Resolve(_ context.Context, _ string) (*resolver.Record, error) {
	return f.rec, f.err
}

func TestHandleStatus(t *testing.T) {
	srv := NewServer(fakeStatus{agent.Status{
		State:   agent.StatePlaying,
		Title:   "Portal 2",
		Record:  &resolver.Record{Name: "Portal 2"},
		Updated: time.Now(),
	}}, fakeResolver{}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got agent.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, agent.StatePlaying, got.State)
	assert.Equal(t, "Portal 2", got.Record.Name)
}

func TestHandleResolve(t *testing.T) {
	srv := NewServer(fakeStatus{}, fakeResolver{rec: &resolver.Record{Name: "Elden Ring"}}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/resolve?title=elden+ring", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got resolver.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Elden Ring", got.Name)
}

func TestHandleResolveMissingTitle(t *testing.T) {
	srv := NewServer(fakeStatus{}, fakeResolver{}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/resolve", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleResolveNotFound(t *testing.T) {
	srv := NewServer(fakeStatus{}, fakeResolver{err: resolver.ErrNoMatch}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/resolve?title=nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(fakeStatus{}, fakeResolver{}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestHandleCacheDisabled(t *testing.T) {
	srv := NewServer(fakeStatus{}, fakeResolver{}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cache", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(fakeStatus{}, fakeResolver{}, nil)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

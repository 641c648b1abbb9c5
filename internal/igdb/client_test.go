package igdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "token", time.Second)
	assert.Error(t, err)

	_, err = NewClient("id", "", time.Second)
	assert.Error(t, err)

	c, err := NewClient("id", "token", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSearchQuery(t *testing.T) {
	q := searchQuery("Portal 2")
	assert.Contains(t, q, `search "Portal 2";`)
	assert.Contains(t, q, "involved_companies.company.name")
	assert.Contains(t, q, "limit 10;")

	// Quotes in titles must not break the query body.
	assert.Contains(t, searchQuery(`Say "No" More`), `search "Say \"No\" More";`)
}

func TestSearchSendsHeadersAndBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-123", r.Header.Get("Client-ID"))
		assert.Equal(t, "Bearer token-456", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`[{"name":"Portal 2","category":0,"total_rating":91.5}]`))
	}))
	defer srv.Close()

	c, err := NewClient("client-123", "token-456", time.Second)
	require.NoError(t, err)
	c.SetEndpoint(srv.URL)

	games, err := c.Search(context.Background(), "Portal 2")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Portal 2", games[0].Name)
	assert.Equal(t, 91.5, games[0].TotalRating)
	assert.Contains(t, gotBody, `search "Portal 2";`)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient("id", "token", time.Second)
	require.NoError(t, err)
	c.SetEndpoint(srv.URL)

	games, err := c.Search(context.Background(), "no such game")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestSearchAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	c, err := NewClient("id", "token", time.Second)
	require.NoError(t, err)
	c.SetEndpoint(srv.URL)

	_, err = c.Search(context.Background(), "Portal 2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuth), "4xx should classify as an auth error")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestSearchServerErrorIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient("id", "token", time.Second)
	require.NoError(t, err)
	c.SetEndpoint(srv.URL)

	_, err = c.Search(context.Background(), "Portal 2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestSearchTransportFailureIsNetwork(t *testing.T) {
	c, err := NewClient("id", "token", time.Second)
	require.NoError(t, err)
	c.SetEndpoint("http://127.0.0.1:1") // nothing listens here

	_, err = c.Search(context.Background(), "Portal 2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestGameAccessors(t *testing.T) {
	g := Game{
		Genres:    []Named{{Name: "Puzzle"}, {Name: "Platform"}},
		Platforms: []Named{{Name: "PC"}},
		InvolvedCompanies: []InvolvedCompany{
			{Company: Named{Name: "Valve"}},
			{Company: Named{}},
		},
	}
	assert.Equal(t, []string{"Puzzle", "Platform"}, g.GenreNames())
	assert.Equal(t, []string{"PC"}, g.PlatformNames())
	assert.Equal(t, []string{"Valve"}, g.CompanyNames(), "companies without a name are skipped")
}

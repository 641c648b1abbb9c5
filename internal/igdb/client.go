// Package igdb implements a minimal client for the IGDB v4 games endpoint.
package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.igdb.com/v4/games"

// Sentinel errors classifying catalog failures.
var (
	// ErrAuth marks credential failures (4xx from the API). Fatal, not retried.
	ErrAuth = errors.New("catalog authentication failed")
	// ErrNetwork marks transport failures and timeouts. Retryable by caller policy.
	ErrNetwork = errors.New("catalog network failure")
)

// APIError carries the HTTP status of a failed catalog request.
type APIError struct {
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("igdb: status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client issues search queries against the IGDB catalog. It is stateless and
// safe for concurrent use.
type Client struct {
	clientID string
	token    string
	endpoint string
	http     *http.Client
}

// NewClient creates a catalog client from a Client-ID and bearer token.
func NewClient(clientID, token string, timeout time.Duration) (*Client, error) {
	if clientID == "" || token == "" {
		return nil, fmt.Errorf("IGDB client ID and token are required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		clientID: clientID,
		token:    token,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// SetEndpoint overrides the API endpoint, for tests.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// searchQuery builds the Apicalypse request body for a title search.
func searchQuery(title string) string {
	escaped := strings.ReplaceAll(title, `"`, `\"`)
	return fmt.Sprintf(`search "%s"; fields name, summary, total_rating, first_release_date, category, cover.url, artworks.url, screenshots.url, genres.name, platforms.name, involved_companies.company.name, url; limit 10;`, escaped)
}

// Search queries the catalog for up to 10 candidates matching title, in the
// order the service returned them. An empty slice with a nil error means no
// candidates.
func (c *Client) Search(ctx context.Context, title string) ([]Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(searchQuery(title)))
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			apiErr.Err = ErrAuth
		} else {
			apiErr.Err = ErrNetwork
		}
		return nil, apiErr
	}

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrNetwork, err)
	}
	return games, nil
}

// FetchToken exchanges a Twitch client id/secret pair for an app access
// token, which the games endpoint accepts as a bearer token.
func FetchToken(clientID, clientSecret string) (string, error) {
	vals := url.Values{}
	vals.Set("client_id", clientID)
	vals.Set("client_secret", clientSecret)
	vals.Set("grant_type", "client_credentials")

	resp, err := http.PostForm("https://id.twitch.tv/oauth2/token", vals)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %s", ErrAuth, resp.Status)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	return result.AccessToken, nil
}

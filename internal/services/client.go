package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// ErrNotFound is returned when the API has no such bracket.
var ErrNotFound = errors.New("not found")

// Source provides the data a story is built from.
type Source interface {
	Teams(ctx context.Context) ([]bracket.Team, error)
	Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error)
	SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error)
}

// ErrorResponse is the error body written by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BracketClient talks to the bracket data API.
type BracketClient struct {
	baseURL string
	client  *http.Client
}

var _ Source = (*BracketClient)(nil)

// NewBracketClient returns a client for baseURL. A nil httpClient uses
// http.DefaultClient.
func NewBracketClient(baseURL string, httpClient *http.Client) *BracketClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BracketClient{baseURL: strings.TrimRight(baseURL, "/"), client: httpClient}
}

// Health reports whether the API answers /health with 200.
func (c *BracketClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *BracketClient) Teams(ctx context.Context) ([]bracket.Team, error) {
	var teams []bracket.Team
	if err := c.getJSON(ctx, "/v1/teams", &teams); err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	return teams, nil
}

func (c *BracketClient) Slides(ctx context.Context, bracketID, groupID string, year int) (*bracket.SlidesData, error) {
	q := url.Values{}
	if groupID != "" {
		q.Set("group_id", groupID)
	}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	path := "/v1/brackets/" + url.PathEscape(bracketID) + "/slides"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var data bracket.SlidesData
	if err := c.getJSON(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("failed to get slides for bracket %s: %w", bracketID, err)
	}
	return &data, nil
}

func (c *BracketClient) SearchGroups(ctx context.Context, query string, year int) ([]bracket.Group, error) {
	q := url.Values{"q": {query}}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var groups []bracket.Group
	if err := c.getJSON(ctx, "/v1/groups/search?"+q.Encode(), &groups); err != nil {
		return nil, fmt.Errorf("failed to search groups: %w", err)
	}
	return groups, nil
}

func (c *BracketClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, errorResp.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

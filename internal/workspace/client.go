package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Statuses a ticket may carry to be picked up by the sync. The match is
// exact and case-sensitive against the source system's vocabulary; a
// mismatch silently excludes tickets rather than erroring.
var SyncStatuses = []string{"Em aberto", "Designado", "Realizando"}

const defaultPageSize = 100

// Client queries databases of the external workspace tool. It is
// constructed once at process start and reused across requests; it holds
// no mutable state beyond the shared http.Client.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
}

// NewClient returns a query client for the given API base URL and
// integration token. version is sent as the X-Workspace-Version header;
// the zero value lets the server pick its default.
func NewClient(baseURL, token, version string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		version: version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// QueryResult is one page of a database query.
type QueryResult struct {
	Pages      []Page
	NextCursor string
	HasMore    bool
}

type queryRequest struct {
	Filter      map[string]any `json:"filter,omitempty"`
	StartCursor string         `json:"start_cursor,omitempty"`
	PageSize    int            `json:"page_size"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// QueryDatabase fetches one result page of databaseID, optionally filtered
// server-side and resumed from cursor. Callers drive pagination by passing
// NextCursor back in until HasMore is false.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter map[string]any, cursor string) (QueryResult, error) {
	body, err := json.Marshal(queryRequest{
		Filter:      filter,
		StartCursor: cursor,
		PageSize:    defaultPageSize,
	})
	if err != nil {
		return QueryResult{}, fmt.Errorf("workspace: marshal query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return QueryResult{}, fmt.Errorf("workspace: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	if c.version != "" {
		req.Header.Set("X-Workspace-Version", c.version)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return QueryResult{}, fmt.Errorf("workspace: query database %s: %w", databaseID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return QueryResult{}, fmt.Errorf("workspace: query database %s: status %d: %s",
			databaseID, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return QueryResult{}, fmt.Errorf("workspace: decode response: %w", err)
	}

	res := QueryResult{Pages: out.Results, HasMore: out.HasMore}
	if out.NextCursor != nil {
		res.NextCursor = *out.NextCursor
	}
	return res, nil
}

// TicketStatusFilter builds the server-side filter for the ticket sync:
// status is non-empty AND status is one of SyncStatuses.
func TicketStatusFilter() map[string]any {
	anyOf := make([]map[string]any, 0, len(SyncStatuses))
	for _, s := range SyncStatuses {
		anyOf = append(anyOf, map[string]any{
			"property": "Status",
			"status":   map[string]any{"equals": s},
		})
	}
	return map[string]any{
		"and": []map[string]any{
			{
				"property": "Status",
				"status":   map[string]any{"is_not_empty": true},
			},
			{"or": anyOf},
		},
	}
}

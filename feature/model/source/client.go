package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"model-sync/feature/model/decode"
)

// Error is a failed source API call. It carries the HTTP status so callers
// can distinguish transient errors from auth or not-found failures.
type Error struct {
	Status int
	URL    string
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("source request %s failed with status %d: %s", e.URL, e.Status, e.Body)
}

// StatusCode returns the HTTP status of the failed call.
func (e *Error) StatusCode() int { return e.Status }

// FetchResult is one complete fetch of a model's node set. It is an explicit
// value handed from the fetch phase to the diff phase; nothing about a fetch
// is cached globally.
type FetchResult struct {
	SnapshotRef string
	Nodes       []decode.RawNode
	FetchedAt   time.Time
}

// nodePage mirrors one page of the node listing response.
type nodePage struct {
	Nodes      []decode.RawNode `json:"nodes"`
	NextCursor string           `json:"nextCursor"`
}

// Client fetches model graph nodes from the source API, page by page.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a source API client from config.
func NewClient(cfg Config) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch retrieves the full node set of the given model snapshot, following
// pagination cursors until the source reports no further page. Any non-2xx
// page fails the whole fetch; a partial node set must never reach the diff.
func (c *Client) Fetch(ctx context.Context, snapshotRef string) (*FetchResult, error) {
	if snapshotRef == "" {
		snapshotRef = c.cfg.ModelRef
	}
	if snapshotRef == "" {
		return nil, fmt.Errorf("no model reference configured")
	}

	var nodes []decode.RawNode
	cursor := ""
	for {
		page, err := c.fetchPage(ctx, snapshotRef, cursor)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, page.Nodes...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return &FetchResult{
		SnapshotRef: snapshotRef,
		Nodes:       nodes,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func (c *Client) fetchPage(ctx context.Context, snapshotRef, cursor string) (*nodePage, error) {
	endpoint, err := c.pageURL(snapshotRef, cursor)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{Status: resp.StatusCode, URL: endpoint, Body: string(body)}
	}

	var page nodePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode node page: %w", err)
	}
	return &page, nil
}

func (c *Client) pageURL(snapshotRef, cursor string) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid source base url: %w", err)
	}
	base = base.JoinPath("models", snapshotRef, "nodes")

	query := base.Query()
	if c.cfg.PageSize > 0 {
		query.Set("limit", strconv.Itoa(c.cfg.PageSize))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	base.RawQuery = query.Encode()
	return base.String(), nil
}

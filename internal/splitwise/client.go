// Package splitwise wraps the Splitwise REST API: an authenticated client
// handle plus the paginated full fetch that feeds the raw backup table.
package splitwise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://secure.splitwise.com/api/v3.0"

// Record is one expense exactly as the API returned it. The field set is
// not fixed here: whatever the API sends passes through.
type Record map[string]any

// ListOptions narrows a single get_expenses request.
type ListOptions struct {
	Visible bool
	GroupID string
	Limit   int
	Offset  int
}

// ExpenseLister is the capability the fetch loop needs: one page of
// expenses per call, an empty page signalling the end.
type ExpenseLister interface {
	ListExpenses(ctx context.Context, opts ListOptions) ([]Record, error)
}

// Client is an authenticated Splitwise API handle.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

var _ ExpenseLister = (*Client)(nil)

// NewClient creates an authenticated client using an API key.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing api_key environment variable")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// ListExpenses fetches one page of expenses. Request errors propagate
// unmodified: no retry, no backoff.
func (c *Client) ListExpenses(ctx context.Context, opts ListOptions) ([]Record, error) {
	q := url.Values{}
	q.Set("visible", strconv.FormatBool(opts.Visible))
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("offset", strconv.Itoa(opts.Offset))
	if opts.GroupID != "" {
		q.Set("group_id", opts.GroupID)
	}

	reqURL := c.baseURL + "/get_expenses?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get_expenses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get_expenses: unexpected status %d: %s", resp.StatusCode, body)
	}

	// UseNumber keeps monetary strings and numeric IDs intact instead of
	// collapsing everything to float64.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var payload struct {
		Expenses []Record `json:"expenses"`
	}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode get_expenses response: %w", err)
	}
	return payload.Expenses, nil
}

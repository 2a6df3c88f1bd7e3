package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client is a thin HTTP client for the remote document store API. It
// handles Bearer token authentication, JSON marshaling, per-user
// collection scoping, and automatic retry with exponential backoff on
// HTTP 429. It implements RemoteStore.
type Client struct {
	baseURL    string
	token      string
	session    Session
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new document store client. The baseURL is the root
// of the cloud API; the token authenticates requests; the session
// supplies the user namespace each collection is scoped under.
func NewClient(baseURL, token string, session Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// UpsertDocument writes payload under id in the named collection.
func (c *Client) UpsertDocument(ctx context.Context, collection, id string, payload any) error {
	path, err := c.documentPath(collection, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, payload, nil)
}

// FetchAllDocuments retrieves the full contents of the named collection.
func (c *Client) FetchAllDocuments(ctx context.Context, collection string) ([]RawDocument, error) {
	path, err := c.collectionPath(collection)
	if err != nil {
		return nil, err
	}

	// The API returns each document's payload keyed by its remote id;
	// slice order is the server's storage order.
	var result []struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	docs := make([]RawDocument, 0, len(result))
	for _, d := range result {
		docs = append(docs, RawDocument{ID: d.ID, Data: d.Data})
	}
	return docs, nil
}

// DeleteDocument removes the document stored under id.
func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	path, err := c.documentPath(collection, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// collectionPath builds the per-user path for a collection.
func (c *Client) collectionPath(collection string) (string, error) {
	uid := c.session.UserID()
	if uid == "" {
		return "", &AuthError{Message: "no signed-in user"}
	}
	return fmt.Sprintf("/users/%s/%s", uid, collection), nil
}

// documentPath builds the per-user path for a single document.
func (c *Client) documentPath(collection, id string) (string, error) {
	base, err := c.collectionPath(collection)
	if err != nil {
		return "", err
	}
	return base + "/" + id, nil
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", method, path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return &AuthError{
				Message: fmt.Sprintf("%s %s returned %d", method, path, resp.StatusCode),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%s %s returned %d: %s",
				method, path, resp.StatusCode, truncate(string(respBody), 200))
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
			}
		}

		return nil
	}

	return fmt.Errorf("exhausted retries: %w", lastErr)
}

// retryAfterDuration returns how long to wait before retrying a 429,
// honoring the Retry-After header when present and falling back to
// exponential backoff.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

// truncate shortens s to at most n bytes for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

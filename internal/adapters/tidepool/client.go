package tidepool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
)

const maxResponseBytes = 8 << 20

// Client calls the Tidepool platform REST API.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.DataClient = (*Client)(nil)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, body)
}

func (c *Client) CurrentUserID(ctx context.Context, token string) (string, error) {
	var out currentUserResponse
	if err := c.get(ctx, token, "/auth/user", nil, &out); err != nil {
		return "", fmt.Errorf("get current user: %w", err)
	}
	if out.UserID == "" {
		return "", fmt.Errorf("current user response missing userid")
	}
	return out.UserID, nil
}

func (c *Client) ListTrustRelationships(ctx context.Context, token, userID string) ([]domain.TrustRelationship, error) {
	var out []trustUser
	path := fmt.Sprintf("/metadata/users/%s/users", url.PathEscape(userID))
	if err := c.get(ctx, token, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list trust relationships: %w", err)
	}

	trusts := make([]domain.TrustRelationship, 0, len(out))
	for _, user := range out {
		trusts = append(trusts, user.toDomain())
	}
	return trusts, nil
}

func (c *Client) ListRecords(ctx context.Context, token, userID string, kinds []domain.RecordKind, start, end time.Time) ([]domain.Record, error) {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}

	query := url.Values{}
	query.Set("type", strings.Join(names, ","))
	query.Set("startDate", start.UTC().Format(time.RFC3339))
	query.Set("endDate", end.UTC().Format(time.RFC3339))

	var out []wireRecord
	path := fmt.Sprintf("/data/%s", url.PathEscape(userID))
	if err := c.get(ctx, token, path, query, &out); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]domain.Record, 0, len(out))
	for _, record := range out {
		records = append(records, record.toDomain())
	}
	return records, nil
}

func (c *Client) ListPendingInvitations(ctx context.Context, token, userID string) ([]domain.Invitation, error) {
	var out []wireInvitation
	path := fmt.Sprintf("/confirm/invitations/%s", url.PathEscape(userID))
	if err := c.get(ctx, token, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	invitations := make([]domain.Invitation, 0, len(out))
	for _, inv := range out {
		invitations = append(invitations, inv.toDomain())
	}
	return invitations, nil
}

func (c *Client) RespondToInvitation(ctx context.Context, token, userID string, inv domain.Invitation, accept bool) error {
	action := "accept"
	if !accept {
		action = "dismiss"
	}
	path := fmt.Sprintf("/confirm/%s/invite/%s/%s", action, url.PathEscape(userID), url.PathEscape(inv.CreatorID))

	body, err := json.Marshal(map[string]string{"key": inv.Key})
	if err != nil {
		return fmt.Errorf("encode invitation response: %w", err)
	}
	if err := c.do(ctx, token, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("%s invitation: %w", action, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, token, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body []byte, out any) error {
	endpoint, err := buildURL(c.BaseURL, path, query)
	if err != nil {
		return err
	}

	requestCtx := ctx
	if c.RequestTimeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func buildURL(baseURL, path string, query url.Values) (string, error) {
	if baseURL == "" {
		return "", fmt.Errorf("base url is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse request url: %w", err)
	}
	if len(query) > 0 {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

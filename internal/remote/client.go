// Package remote talks to the hosted time-entry service over JSON/HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ramanasai/tally/internal/timeentry"
)

const entriesPath = "/api/v1/time-entries"

// Client implements timeentry.Repository against the remote API:
//
//	GET    /api/v1/time-entries?date=YYYY-MM-DD
//	GET    /api/v1/time-entries?start=YYYY-MM-DD&end=YYYY-MM-DD
//	POST   /api/v1/time-entries
//	PUT    /api/v1/time-entries/{id}
//	DELETE /api/v1/time-entries/{id}
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

var _ timeentry.Repository = (*Client)(nil)

func NewClient(baseURL, token string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(slog.String("component", "remote")),
	}
}

func (c *Client) FetchByDate(ctx context.Context, date string) ([]timeentry.TimeEntry, error) {
	q := url.Values{}
	q.Set("date", date)
	var out []timeentry.TimeEntry
	if err := c.do(ctx, http.MethodGet, entriesPath, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchByRange(ctx context.Context, start, end string) ([]timeentry.TimeEntry, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	var out []timeentry.TimeEntry
	if err := c.do(ctx, http.MethodGet, entriesPath, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, d timeentry.Draft) (timeentry.TimeEntry, error) {
	var out timeentry.TimeEntry
	if err := c.do(ctx, http.MethodPost, entriesPath, nil, d, &out); err != nil {
		return timeentry.TimeEntry{}, err
	}
	if out.ID == "" {
		return timeentry.TimeEntry{}, errors.New("remote: create returned no id")
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	var out timeentry.TimeEntry
	if err := c.do(ctx, http.MethodPut, entriesPath+"/"+url.PathEscape(e.ID), nil, e, &out); err != nil {
		return timeentry.TimeEntry{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, entriesPath+"/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	u = u.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", timeentry.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", slog.String("method", method), slog.String("path", path),
		slog.Int("status", resp.StatusCode), slog.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, msg)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	var sentinel error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		sentinel = timeentry.ErrAuth
	case code == http.StatusNotFound:
		sentinel = timeentry.ErrNotFound
	case code >= 500:
		sentinel = timeentry.ErrNetwork
	default:
		return fmt.Errorf("remote: unexpected status %d: %s", code, string(body))
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, code, string(body))
}

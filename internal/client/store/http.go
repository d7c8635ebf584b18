// Package store implements the client side of the record store over the
// record server's HTTP API.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atinyakov/UserKeeper/internal/models"
)

const (
	apiRecords   = "/api/records"
	apiKeyHeader = "X-API-Key"
)

// HTTPStore talks to the record server.
type HTTPStore struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New returns an HTTPStore for baseURL. apiKey may be empty.
func New(client *http.Client, baseURL, apiKey string) *HTTPStore {
	return &HTTPStore{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// List fetches all records in server order.
func (s *HTTPStore) List(ctx context.Context) ([]models.Record, error) {
	var result struct {
		Records []models.Record `json:"records"`
	}
	if err := s.do(ctx, "list", http.MethodGet, apiRecords, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	if result.Records == nil {
		result.Records = []models.Record{}
	}
	return result.Records, nil
}

// Create stores a new record and returns its id.
func (s *HTTPStore) Create(ctx context.Context, f models.Fields) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, "create", http.MethodPost, apiRecords, f, http.StatusCreated, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", &ConnectionError{Op: "create", Err: fmt.Errorf("invalid response: missing id")}
	}
	return result.ID, nil
}

// Update overwrites the fields of record id.
func (s *HTTPStore) Update(ctx context.Context, id string, f models.Fields) error {
	return s.do(ctx, "update", http.MethodPut, recordPath(id), f, http.StatusNoContent, nil)
}

// Delete removes record id.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, "delete", http.MethodDelete, recordPath(id), nil, http.StatusNoContent, nil)
}

func recordPath(id string) string {
	return apiRecords + "/" + url.PathEscape(id)
}

func (s *HTTPStore) do(ctx context.Context, op, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set(apiKeyHeader, s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(data))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, models.ErrNotFound)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %s: %w", op, msg, models.ErrValidation)
		case http.StatusConflict:
			return fmt.Errorf("%s: %w", op, models.ErrConflict)
		default:
			return &ConnectionError{Op: op, Err: fmt.Errorf("server error: %s", msg)}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ConnectionError{Op: op, Err: fmt.Errorf("invalid response: %w", err)}
	}
	return nil
}

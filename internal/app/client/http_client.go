package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"fleetlog/internal/app/client/config"
	"fleetlog/internal/domain/usage"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}
	baseURL := scheme + cfg.ServerAddress

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   baseURL,
		userAgent: "Fleetlog-Client/1.0",
	}, nil
}

// SetToken installs the bearer token for subsequent requests. Token issuance
// belongs to the portal's auth layer; the client only carries it.
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck verifies the backend is reachable.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", usage.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

// ListRows fetches all canonical rows for the aircraft serial. The result
// replaces whatever canonical set the caller held.
func (h *httpClient) ListRows(ctx context.Context, serial string) ([]usage.Row, error) {
	resp, err := h.doRequest(ctx, "GET", "/aircraft/"+serial+"/usage", nil)
	if err != nil {
		return nil, err
	}

	var rows []usage.Row
	if err := h.parseResponse(resp, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateRow persists a new row and returns it with the server-assigned id
// and updated_at.
func (h *httpClient) CreateRow(ctx context.Context, serial string, draft usage.Draft) (usage.Row, error) {
	resp, err := h.doRequest(ctx, "POST", "/aircraft/"+serial+"/usage", draft)
	if err != nil {
		return usage.Row{}, err
	}

	var row usage.Row
	if err := h.parseResponse(resp, &row); err != nil {
		return usage.Row{}, err
	}
	return row, nil
}

// UpdateRow writes client-editable fields of an existing row. The patch
// carries the last-known updated_at; a conflicting concurrent edit comes back
// as ErrStaleWrite and is never retried here.
func (h *httpClient) UpdateRow(ctx context.Context, id int64, patch usage.Patch) (usage.Row, error) {
	resp, err := h.doRequest(ctx, "PUT", fmt.Sprintf("/aircraft/usage/%d", id), patch)
	if err != nil {
		return usage.Row{}, err
	}

	var row usage.Row
	if err := h.parseResponse(resp, &row); err != nil {
		return usage.Row{}, err
	}
	return row, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding request body: %v", usage.ErrValidation, err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request", "method", method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usage.ErrNetwork, err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", usage.ErrNetwork, err)
	}

	h.log.Debug("received response", "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// statusError maps a non-2xx response onto the client error taxonomy,
// carrying the server's message text verbatim.
func statusError(status int, body []byte) error {
	msg := errorMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", usage.ErrUnauthorized, msg)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", usage.ErrStaleWrite, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", usage.ErrNotFound, msg)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %s", usage.ErrValidation, msg)
	default:
		return fmt.Errorf("server error (%d): %s", status, msg)
	}
}

// errorMessage extracts a human-readable message from an error body. The
// stub speaks RFC 7807 problem JSON; anything else is passed through as text.
func errorMessage(body []byte) string {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		if problem.Detail != "" {
			return problem.Detail
		}
		if problem.Error != "" {
			return problem.Error
		}
		if problem.Title != "" {
			return problem.Title
		}
	}
	return strings.TrimSpace(string(body))
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MegaGrindStone/estate-analyst-web/internal/models"
)

// Analyst is the client of the real estate analysis backend. Every call is a single request with no
// retry and no caching; repeating a call re-executes it on the server.
type Analyst struct {
	baseURL string

	client *http.Client

	logger *slog.Logger
}

// NetworkError reports that a request never got an HTTP response, e.g. because the backend is unreachable.
type NetworkError struct {
	Op  string
	Err error
}

// HTTPError reports that the backend answered with a non-success status code.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

type queryRequest struct {
	Query string `json:"query"`
}

const (
	queryPath  = "/query/"
	areasPath  = "/areas/"
	healthPath = "/health/"

	// maxErrorBody caps how much of an error response is kept in HTTPError.
	maxErrorBody = 4 << 10
)

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: error sending request: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d, body: %s", e.Op, e.StatusCode, e.Body)
}

// NewAnalyst creates a client for the backend at baseURL, e.g. "http://localhost:8000/api". A nil client
// uses a plain http.Client, which keeps the transport's default timeouts.
func NewAnalyst(baseURL string, client *http.Client, logger *slog.Logger) Analyst {
	if client == nil {
		client = &http.Client{}
	}
	return Analyst{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.With(slog.String("module", "analyst")),
	}
}

// BaseURL returns the backend URL the client talks to.
func (a Analyst) BaseURL() string {
	return a.baseURL
}

// SubmitQuery sends a natural language question to the backend and returns its analysis.
func (a Analyst) SubmitQuery(ctx context.Context, query string) (models.QueryResult, error) {
	body, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return models.QueryResult{}, fmt.Errorf("error marshaling request: %w", err)
	}

	var res models.QueryResult
	if err := a.do(ctx, "submit query", http.MethodPost, queryPath, body, &res); err != nil {
		return models.QueryResult{}, err
	}
	return res, nil
}

// Areas lists the areas the backend has data for.
func (a Analyst) Areas(ctx context.Context) (models.AreaCatalog, error) {
	var res models.AreaCatalog
	if err := a.do(ctx, "list areas", http.MethodGet, areasPath, nil, &res); err != nil {
		return models.AreaCatalog{}, err
	}
	return res, nil
}

// Health asks the backend for its status.
func (a Analyst) Health(ctx context.Context) (models.HealthStatus, error) {
	var res models.HealthStatus
	if err := a.do(ctx, "health check", http.MethodGet, healthPath, nil, &res); err != nil {
		return models.HealthStatus{}, err
	}
	return res, nil
}

func (a Analyst) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
		a.logger.Debug("Request Body", slog.String("op", op), slog.String("body", string(body)))
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: error decoding response: %w", op, err)
	}

	a.logger.Debug("Response received", slog.String("op", op), slog.Int("status", resp.StatusCode))
	return nil
}

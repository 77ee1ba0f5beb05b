// API service for the list backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBackendURL = "http://localhost:3000/api"

// APIService makes HTTP requests to the list backend, pacing them with a token bucket.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIService creates a new API service instance for the list backend.
//
// A zero rate limit leaves requests unpaced.
func NewAPIService(cfg shared.BackendConfig, client *http.Client, logger *log.Logger) *APIService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBackendURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := max(cfg.Burst, 1)

	return &APIService{
		baseURL:    cfg.BaseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     shared.WithLogger(logger, "component", "backend"),
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, data)
}

// Patch performs a PATCH request with the given JSON data and returns the raw response.
func (a *APIService) Patch(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPatch, path, data)
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}

// SaveMovie sends an edited movie to PUT /movies/{id}.
func (a *APIService) SaveMovie(ctx context.Context, movie models.Movie) (*models.BackendResponse, error) {
	if err := movie.Validate(); err != nil {
		return nil, err
	}
	return a.send(ctx, http.MethodPut, "/movies/"+url.PathEscape(movie.ID), movie)
}

// SaveAll posts the whole list to POST /movies/save-all.
func (a *APIService) SaveAll(ctx context.Context, batch models.SaveBatch) (*models.BackendResponse, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return a.send(ctx, http.MethodPost, "/movies/save-all", batch)
}

// DeleteMovie removes a movie with DELETE /movies/{id}.
func (a *APIService) DeleteMovie(ctx context.Context, id string) (*models.BackendResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	return a.send(ctx, http.MethodDelete, "/movies/"+url.PathEscape(id), nil)
}

// UpdateOrder sends the display order to PATCH /movies/reorder.
func (a *APIService) UpdateOrder(ctx context.Context, req models.ReorderRequest) (*models.BackendResponse, error) {
	return a.send(ctx, http.MethodPatch, "/movies/reorder", req)
}

// send encodes payload, performs the request and decodes the response envelope.
//
// A non-2xx status is an error; a 2xx body that is not an envelope yields a synthesized one.
func (a *APIService) send(ctx context.Context, method, path string, payload any) (*models.BackendResponse, error) {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := a.do(ctx, method, path, data)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s %s: status %d", shared.ErrAPIRequest, method, path, resp.StatusCode)
	}

	out := &models.BackendResponse{Status: resp.StatusCode, Success: true}
	if resp.IsJSON {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			a.logger.Warn("unexpected response shape", "method", method, "path", path, "error", err)
		}
		if out.Status == 0 {
			out.Status = resp.StatusCode
		}
	}

	a.logger.Info("backend write", "method", method, "path", path, "status", out.Status, "message", out.Message)
	return out, nil
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	if waited := time.Since(start); waited > time.Second {
		a.logger.Debug("paced backend request", "waited", waited)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

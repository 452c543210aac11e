// Package api is the HTTP client for the shorts processing service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cuivienor/clipdeck/internal/model"
)

const maxErrorBody = 64 << 10

// Client talks to the processing service
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL (no trailing slash).
// timeout bounds every request except downloads, which rely on ctx.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

type processRequest struct {
	URL string `json:"url"`
}

type processResponse struct {
	JobID string `json:"job_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateJob starts phase 1 for videoURL and returns the job id
func (c *Client) CreateJob(ctx context.Context, videoURL string) (string, error) {
	body, err := json.Marshal(processRequest{URL: videoURL})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var resp processResponse
	if err := c.do(ctx, "create job", http.MethodPost, "/api/process", body, &resp); err != nil {
		return "", err
	}
	if resp.JobID == "" {
		return "", &ServiceError{Op: "create job", StatusCode: http.StatusOK, Message: "The server did not return a job id."}
	}
	return resp.JobID, nil
}

// Status fetches the current snapshot of a job
func (c *Client) Status(ctx context.Context, jobID string) (model.StatusSnapshot, error) {
	var snap model.StatusSnapshot
	err := c.do(ctx, "fetch status", http.MethodGet, "/api/status/"+url.PathEscape(jobID), nil, &snap)
	return snap, err
}

// Continue asks the service to start phase 2 for a job waiting in review
func (c *Client) Continue(ctx context.Context, jobID string) error {
	return c.do(ctx, "continue job", http.MethodPost, "/api/continue/"+url.PathEscape(jobID), nil, nil)
}

// Transcript fetches the parsed transcript of a job
func (c *Client) Transcript(ctx context.Context, jobID string) (model.Transcript, error) {
	var t model.Transcript
	err := c.do(ctx, "fetch transcript", http.MethodGet, "/api/transcript/"+url.PathEscape(jobID), nil, &t)
	return t, err
}

// Download streams a produced clip into w and returns the number of bytes written
func (c *Client) Download(ctx context.Context, jobID, filename string, w io.Writer) (int64, error) {
	const op = "download clip"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+DownloadPath(jobID, filename), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	// Clips can outlive the per-request timeout; ctx bounds the transfer instead
	hc := *c.http
	hc.Timeout = 0

	resp, err := hc.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{Op: op, Err: err}
	}
	return n, nil
}

// PreviewURL returns the absolute URL of a job's preview media
func (c *Client) PreviewURL(jobID string) string {
	return c.baseURL + PreviewPath(jobID)
}

// DownloadURL returns the absolute URL of a produced clip
func (c *Client) DownloadURL(jobID, filename string) string {
	return c.baseURL + DownloadPath(jobID, filename)
}

// PreviewPath returns the service path of a job's preview media
func PreviewPath(jobID string) string {
	return "/api/preview/" + url.PathEscape(jobID)
}

// DownloadPath returns the service path of a produced clip
func DownloadPath(jobID, filename string) string {
	return "/api/download/" + url.PathEscape(jobID) + "/" + url.PathEscape(filename)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "The server sent an unreadable response.",
		}
	}
	return nil
}

// checkStatus turns a non-2xx response into a *ServiceError carrying the
// body's "error" field when there is one
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	svcErr := &ServiceError{Op: op, StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var body errorResponse
		if json.Unmarshal(data, &body) == nil {
			svcErr.Message = body.Error
		}
	}
	return svcErr
}

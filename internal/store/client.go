package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loganlanou/phishdesk/internal/templates"
)

// Client talks to the remote template and landing-page store
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a store client. A zero timeout leaves requests bounded
// only by their context and the store's own failure signaling.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImportRequest asks the store to parse a raw email
type ImportRequest struct {
	Content      string `json:"content"`
	ConvertLinks bool   `json:"convert_links"`
}

// ImportResult is the parsed form of an imported email
type ImportResult struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// GenerateRequest asks the store to generate a template with AI
type GenerateRequest struct {
	Scenario           string `json:"scenario"`
	TargetCompany      string `json:"target_company"`
	IncludeLandingPage bool   `json:"include_landing_page"`
}

// GenerateResult is generated email content, optionally with landing page HTML
type GenerateResult struct {
	Subject     string `json:"subject"`
	Text        string `json:"text"`
	HTML        string `json:"html"`
	LandingPage string `json:"landing_page,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// APIError is a non-success response from the store
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error %d", e.Status)
	}
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// ErrorMessage extracts the message the store sent with a failure, or
// fallback when there is none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (c *Client) Templates(ctx context.Context) ([]templates.Template, error) {
	var list []templates.Template
	if err := c.do(ctx, http.MethodGet, "/api/templates/", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateTemplate(ctx context.Context, t templates.Template) (*templates.Template, error) {
	t.ID = 0
	var created templates.Template
	if err := c.do(ctx, http.MethodPost, "/api/templates/", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, t templates.Template) (*templates.Template, error) {
	if t.ID == 0 {
		return nil, fmt.Errorf("update template: missing id")
	}
	var updated templates.Template
	if err := c.do(ctx, http.MethodPut, templatePath(t.ID), t, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTemplate removes a template and returns the store's confirmation message
func (c *Client) DeleteTemplate(ctx context.Context, id int64) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodDelete, templatePath(id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ImportEmail(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	var result ImportResult
	if err := c.do(ctx, http.MethodPost, "/api/import/email", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GenerateTemplate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.do(ctx, http.MethodPost, "/api/templates/generate_ai", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreatePage(ctx context.Context, page templates.LandingPage) (*templates.LandingPage, error) {
	page.ID = 0
	var created templates.LandingPage
	if err := c.do(ctx, http.MethodPost, "/api/pages/", page, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func templatePath(id int64) string {
	return "/api/templates/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("store request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg messageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

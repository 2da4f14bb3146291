package main

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

	"defiquiz/internal/quiz"
	"defiquiz/internal/service"
)

// apiError is a non-2xx response from the quiz API.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string, timeout time.Duration) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) Questions(ctx context.Context, protocolID string) (service.QuestionsResult, error) {
	q := url.Values{"protocolId": {protocolID}}
	return do[service.QuestionsResult](ctx, c, http.MethodGet, "/api/quiz/questions?"+q.Encode(), nil)
}

func (c *apiClient) Submit(ctx context.Context, sub quiz.Submission) (service.SubmitResult, error) {
	return do[service.SubmitResult](ctx, c, http.MethodPost, "/api/quiz/submit", sub)
}

func (c *apiClient) Results(ctx context.Context, token string) (service.ResultsResult, error) {
	q := url.Values{"token": {token}}
	return do[service.ResultsResult](ctx, c, http.MethodGet, "/api/quiz/results?"+q.Encode(), nil)
}

func do[T any](ctx context.Context, c *apiClient, method, path string, body any) (T, error) {
	var zero T

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&msg)
		return zero, &apiError{Status: resp.StatusCode, Message: msg.Error}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

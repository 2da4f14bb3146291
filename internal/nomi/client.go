// Package nomi is a client for the Nomi Echo voice and question service.
package nomi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout applies when New is given a non-positive timeout.
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = 32 << 20

// Client talks to one Nomi Echo deployment. It is safe for concurrent use.
// A Client without a base URL still constructs; every call returns *ConfigError.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for baseURL. A trailing slash is trimmed.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		timeout: timeout,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContextUpload posts protocol documentation and returns the context id and brief.
// Both bare and {"data": {...}} response envelopes are accepted.
func (c *Client) ContextUpload(ctx context.Context, req ContextUploadRequest) (*ContextUploadResponse, error) {
	if req.MaxWords == 0 {
		req.MaxWords = DefaultMaxWords
	}

	status, body, err := c.postJSON(ctx, "/api/context/upload", req)
	if err != nil {
		return nil, err
	}

	res, ok := decodeContext(body)
	if !ok {
		return nil, &ResponseError{
			Status:  status,
			Message: "invalid Nomi Echo response (context/upload): contextId or brief missing",
			Details: rawDetails(body),
		}
	}
	return res, nil
}

// VoiceSynthesize returns MP3 audio for text. An empty language selects DefaultLanguage.
func (c *Client) VoiceSynthesize(ctx context.Context, text, language string) ([]byte, error) {
	if language == "" {
		language = DefaultLanguage
	}
	_, body, err := c.postJSON(ctx, "/api/voice/synthesize", VoiceSynthesizeRequest{Text: text, Language: language})
	return body, err
}

// AgentQuestion asks the agent for a question about an uploaded context.
func (c *Client) AgentQuestion(ctx context.Context, req AgentQuestionRequest) (*AgentQuestionResponse, error) {
	status, body, err := c.postJSON(ctx, "/api/agent/question", req)
	if err != nil {
		return nil, err
	}

	var res AgentQuestionResponse
	if err := json.Unmarshal(body, &res); err != nil || res.Question == "" {
		return nil, &ResponseError{
			Status:  status,
			Message: "invalid Nomi Echo response (agent/question): question missing",
			Details: rawDetails(body),
		}
	}
	return &res, nil
}

// AgentAnalyzeResponse uploads a recorded answer and returns its analysis.
func (c *Client) AgentAnalyzeResponse(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponseResult, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	if req.Audio == nil {
		return nil, &Error{Message: "audio is required"}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := req.AudioFilename
	if filename == "" {
		filename = "audio.webm"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, filename))
	ct := req.AudioContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, &Error{Message: "build multipart body", Err: err}
	}
	if _, err := io.Copy(part, req.Audio); err != nil {
		return nil, &Error{Message: "read audio", Err: err}
	}

	fields := [][2]string{
		{"contextId", req.ContextID},
		{"sessionId", req.SessionID},
		{"originalQuestion", req.OriginalQuestion},
		{"originalQuestionId", req.OriginalQuestionID},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, &Error{Message: "build multipart body", Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Message: "build multipart body", Err: err}
	}

	status, body, err := c.do(ctx, "/api/agent/analyze-response", w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Analysis *struct {
			Score *float64 `json:"score"`
		} `json:"analysis"`
	}
	var res AnalyzeResponseResult
	if json.Unmarshal(body, &probe) != nil || probe.Analysis == nil || probe.Analysis.Score == nil ||
		json.Unmarshal(body, &res) != nil {
		return nil, &ResponseError{
			Status:  status,
			Message: "invalid Nomi Echo response (agent/analyze-response): analysis.score missing",
			Details: rawDetails(body),
		}
	}
	return &res, nil
}

func (c *Client) configured() error {
	if c.baseURL == "" {
		return &ConfigError{Message: "NOMI_ECHO_API_URL is not configured"}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	if err := c.configured(); err != nil {
		return 0, nil, err
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, &Error{Message: "encode request", Err: err}
	}
	return c.do(ctx, path, "application/json", bytes.NewReader(b))
}

// do sends one request and returns the status and body of a 2xx response.
func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return 0, nil, &ConfigError{Message: fmt.Sprintf("invalid NOMI_ECHO_API_URL: %v", err)}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, responseError(resp, data)
	}
	return resp.StatusCode, data, nil
}

func classify(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &TimeoutError{}
	}
	return &Error{Message: fmt.Sprintf("connecting to Nomi Echo: %v", err), Err: err}
}

func responseError(resp *http.Response, body []byte) *ResponseError {
	var details any
	switch {
	case strings.Contains(resp.Header.Get("Content-Type"), "application/json") && len(body) > 0:
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			details = v
		} else {
			details = string(body)
		}
	case len(body) > 0:
		details = string(body)
	default:
		details = statusDetails(resp)
	}

	msg := defaultStatusMessage(resp.StatusCode)
	switch d := details.(type) {
	case map[string]any:
		if m, ok := d["message"]; ok {
			msg = fmt.Sprint(m)
		}
	case string:
		msg = d
	}

	return &ResponseError{Status: resp.StatusCode, Message: msg, Details: details}
}

func rawDetails(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}

type contextProbe struct {
	ContextUploadResponse
	Brief *string `json:"brief"`
}

func (p *contextProbe) valid() bool {
	return p != nil && p.ContextID != "" && p.Brief != nil
}

func (p *contextProbe) result() *ContextUploadResponse {
	res := p.ContextUploadResponse
	res.Brief = *p.Brief
	return &res
}

func decodeContext(body []byte) (*ContextUploadResponse, bool) {
	var env struct {
		Data *contextProbe `json:"data"`
	}
	if json.Unmarshal(body, &env) == nil && env.Data.valid() {
		return env.Data.result(), true
	}

	var bare contextProbe
	if json.Unmarshal(body, &bare) == nil && bare.valid() {
		return bare.result(), true
	}
	return nil, false
}

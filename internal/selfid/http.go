package selfid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPConfig configures an HTTPVerifier.
type HTTPConfig struct {
	URL        string
	Scope      string
	Endpoint   string
	UseMock    bool
	MinimumAge int
	Timeout    time.Duration
}

// HTTPVerifier posts attestations to a verifier sidecar.
type HTTPVerifier struct {
	cfg  HTTPConfig
	http *http.Client
}

// NewHTTPVerifier builds a verifier; an empty URL makes every Verify fail with ErrNotConfigured.
func NewHTTPVerifier(cfg HTTPConfig, hc *http.Client) *HTTPVerifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	cfg.URL = strings.TrimSuffix(cfg.URL, "/")
	return &HTTPVerifier{cfg: cfg, http: hc}
}

type verifyRequest struct {
	Scope           string          `json:"scope"`
	Endpoint        string          `json:"endpoint"`
	MockPassport    bool            `json:"mockPassport"`
	MinimumAge      int             `json:"minimumAge"`
	UserIDType      string          `json:"userIdentifierType"`
	AttestationID   json.RawMessage `json:"attestationId"`
	Proof           json.RawMessage `json:"proof"`
	PublicSignals   json.RawMessage `json:"publicSignals"`
	UserContextData string          `json:"userContextData"`
}

type verifyResponse struct {
	IsValidDetails struct {
		IsValid           bool `json:"isValid"`
		IsMinimumAgeValid bool `json:"isMinimumAgeValid"`
	} `json:"isValidDetails"`
	DiscloseOutput *struct {
		DateOfBirth string `json:"dateOfBirth"`
		Name        string `json:"name"`
		Nationality string `json:"nationality"`
	} `json:"discloseOutput"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, a Attestation) (*Result, error) {
	if v.cfg.URL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(verifyRequest{
		Scope:           v.cfg.Scope,
		Endpoint:        v.cfg.Endpoint,
		MockPassport:    v.cfg.UseMock,
		MinimumAge:      v.cfg.MinimumAge,
		UserIDType:      "hex",
		AttestationID:   a.AttestationID,
		Proof:           a.Proof,
		PublicSignals:   a.PublicSignals,
		UserContextData: a.UserContextData,
	})
	if err != nil {
		return nil, fmt.Errorf("encode attestation: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.URL+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("call verifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("verifier responded %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode verifier response: %w", err)
	}

	res := &Result{
		IsValid:           out.IsValidDetails.IsValid,
		IsMinimumAgeValid: out.IsValidDetails.IsMinimumAgeValid,
	}
	if d := out.DiscloseOutput; d != nil {
		res.DateOfBirth = d.DateOfBirth
		res.Name = d.Name
		res.Nationality = d.Nationality
	}
	return res, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"defiquiz/internal/model"
	"defiquiz/internal/selfid"
	"defiquiz/internal/store"
)

// VerificationTTL is how long a successful verification counts.
const VerificationTTL = time.Hour

const verificationPrefix = "verification:"

// VerifyResponse mirrors what the Self app expects back; it is always sent with HTTP 200.
type VerifyResponse struct {
	Status string          `json:"status"`
	Result bool            `json:"result"`
	Reason string          `json:"reason,omitempty"`
	Data   *VerifiedFields `json:"data,omitempty"`
}

// VerifiedFields are the attributes disclosed by a successful verification.
type VerifiedFields struct {
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
}

// CheckResult answers a polling client.
type CheckResult struct {
	Verified    bool   `json:"verified"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Name        string `json:"name,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// VerificationService gates results behind an identity verification.
type VerificationService interface {
	// Verify checks an attestation and caches a success under the user's wallet.
	Verify(ctx context.Context, a selfid.Attestation) *VerifyResponse

	// Check reports whether userID holds a fresh verification.
	Check(ctx context.Context, userID string) (*CheckResult, error)

	// Scope is the Self scope the verifier checks proofs against.
	Scope() string
}

type verificationService struct {
	verifier selfid.Verifier
	cache    *store.JSON[model.Verification]
	scope    string
	now      func() time.Time
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(verifier selfid.Verifier, cache store.Interface, scope string) VerificationService {
	return &verificationService{
		verifier: verifier,
		cache:    &store.JSON[model.Verification]{Underlying: cache, Prefix: verificationPrefix},
		scope:    scope,
		now:      time.Now,
	}
}

func (s *verificationService) Scope() string { return s.scope }

func verifyError(reason string) *VerifyResponse {
	return &VerifyResponse{Status: "error", Result: false, Reason: reason}
}

func (s *verificationService) Verify(ctx context.Context, a selfid.Attestation) *VerifyResponse {
	res, err := s.verifier.Verify(ctx, a)
	if err != nil {
		slog.ErrorContext(ctx, "self verification failed", "component", "verify-self", "error", err)
		return verifyError(err.Error())
	}
	if !res.Passed() {
		return verifyError("Verification failed - User does not meet requirements")
	}

	fields := &VerifiedFields{Name: res.Name, Nationality: res.Nationality}
	if res.DateOfBirth != "" {
		if dob, err := selfid.FormatDateOfBirth(res.DateOfBirth); err == nil {
			fields.DateOfBirth = dob
		}
	}

	wallet, err := selfid.WalletFromUserContext(a.UserContextData)
	if err != nil {
		slog.WarnContext(ctx, "cannot extract wallet from user context", "component", "verify-self", "error", err)
		return &VerifyResponse{Status: "success", Result: true, Data: fields}
	}

	rec := model.Verification{
		Verified:    true,
		DateOfBirth: fields.DateOfBirth,
		Name:        fields.Name,
		Nationality: fields.Nationality,
		Timestamp:   s.now().UnixMilli(),
	}
	if err := s.cache.Set(ctx, wallet, rec, VerificationTTL); err != nil {
		slog.ErrorContext(ctx, "cannot cache verification", "component", "verify-self", "wallet", wallet, "error", err)
	} else {
		slog.InfoContext(ctx, "verification stored", "component", "verify-self", "wallet", wallet)
	}

	return &VerifyResponse{Status: "success", Result: true, Data: fields}
}

func (s *verificationService) Check(ctx context.Context, userID string) (*CheckResult, error) {
	key := strings.ToLower(strings.TrimSpace(userID))
	if key == "" {
		return nil, ErrUserIDRequired
	}

	rec, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &CheckResult{Verified: false}, nil
		}
		return nil, fmt.Errorf("load verification: %w", err)
	}

	if s.now().Sub(time.UnixMilli(rec.Timestamp)) > VerificationTTL {
		if err := s.cache.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "cannot drop stale verification", "component", "verify-self", "error", err)
		}
		return &CheckResult{Verified: false}, nil
	}

	return &CheckResult{
		Verified:    rec.Verified,
		DateOfBirth: rec.DateOfBirth,
		Name:        rec.Name,
		Nationality: rec.Nationality,
	}, nil
}

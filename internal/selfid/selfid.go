// Package selfid is the boundary to a Self Protocol verifier. Proof checking
// happens in a sidecar running the Self SDK; this package only forwards
// attestations to it and decodes its verdict.
package selfid

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotConfigured  = errors.New("selfid: verifier URL is not configured")
	ErrTimeout        = errors.New("selfid: verifier timed out")
	ErrBadUserContext = errors.New("selfid: malformed user context data")
	ErrBadDateOfBirth = errors.New("selfid: malformed date of birth")
)

// Attestation is what the Self app posts back after the user scans the QR code.
type Attestation struct {
	AttestationID   json.RawMessage `json:"attestationId"`
	Proof           json.RawMessage `json:"proof"`
	PublicSignals   json.RawMessage `json:"publicSignals"`
	UserContextData string          `json:"userContextData"`
}

// Result is the verifier's verdict and the attributes the user chose to disclose.
// DateOfBirth is in the passport's YYMMDD form.
type Result struct {
	IsValid           bool
	IsMinimumAgeValid bool
	DateOfBirth       string
	Name              string
	Nationality       string
}

// Passed reports whether the proof is valid and meets the minimum age.
func (r *Result) Passed() bool {
	return r != nil && r.IsValid && r.IsMinimumAgeValid
}

// Verifier checks one attestation.
type Verifier interface {
	Verify(ctx context.Context, a Attestation) (*Result, error)
}

// WalletFromUserContext extracts the lower-cased 0x wallet address from hex
// user context data: the first 32 bytes are skipped and the address is the last
// 20 bytes of the following 32-byte word.
func WalletFromUserContext(data string) (string, error) {
	data = strings.TrimPrefix(strings.TrimPrefix(data, "0x"), "0X")
	if len(data) < 128 {
		return "", fmt.Errorf("%w: need at least 64 bytes, got %d hex chars", ErrBadUserContext, len(data))
	}

	addr := data[64+24 : 64+64]
	if _, err := hex.DecodeString(addr); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadUserContext, err)
	}
	return "0x" + strings.ToLower(addr), nil
}

// FormatDateOfBirth turns YYMMDD into YYYY-MM-DD. Years from 50 map to the 1900s.
func FormatDateOfBirth(yymmdd string) (string, error) {
	if len(yymmdd) != 6 {
		return "", fmt.Errorf("%w: %q", ErrBadDateOfBirth, yymmdd)
	}
	yy, err := strconv.Atoi(yymmdd[:2])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDateOfBirth, yymmdd)
	}

	century := "20"
	if yy >= 50 {
		century = "19"
	}
	return century + yymmdd[:2] + "-" + yymmdd[2:4] + "-" + yymmdd[4:6], nil
}

package selfid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "AbCdEf0123456789aBcDeF0123456789AbCdEf01"

func userContext() string {
	return strings.Repeat("0", 64) + strings.Repeat("0", 24) + wallet + strings.Repeat("f", 32)
}

func TestWalletFromUserContext(t *testing.T) {
	got, err := WalletFromUserContext(userContext())
	require.NoError(t, err)
	assert.Equal(t, "0x"+strings.ToLower(wallet), got)

	got, err = WalletFromUserContext("0x" + userContext())
	require.NoError(t, err)
	assert.Equal(t, "0x"+strings.ToLower(wallet), got)

	_, err = WalletFromUserContext("abcd")
	assert.ErrorIs(t, err, ErrBadUserContext)

	_, err = WalletFromUserContext(strings.Repeat("0", 88) + strings.Repeat("z", 40))
	assert.ErrorIs(t, err, ErrBadUserContext)
}

func TestFormatDateOfBirth(t *testing.T) {
	tests := map[string]string{
		"990115": "1999-01-15",
		"500101": "1950-01-01",
		"491231": "2049-12-31",
		"050607": "2005-06-07",
	}
	for in, want := range tests {
		got, err := FormatDateOfBirth(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "9901", "ab0101"} {
		_, err := FormatDateOfBirth(bad)
		assert.ErrorIs(t, err, ErrBadDateOfBirth, bad)
	}
}

func TestHTTPVerifier(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewHTTPVerifier(HTTPConfig{}, nil).Verify(context.Background(), Attestation{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("forwards attestation and decodes verdict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/verify", r.URL.Path)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "defi-quiz-app", body["scope"])
			assert.Equal(t, float64(18), body["minimumAge"])
			assert.Equal(t, true, body["mockPassport"])
			assert.Equal(t, float64(1), body["attestationId"])

			w.Write([]byte(`{"isValidDetails":{"isValid":true,"isMinimumAgeValid":true},"discloseOutput":{"dateOfBirth":"990115","name":"ALICE","nationality":"MEX"}}`))
		}))
		defer srv.Close()

		v := NewHTTPVerifier(HTTPConfig{URL: srv.URL + "/", Scope: "defi-quiz-app", UseMock: true, MinimumAge: 18}, srv.Client())
		res, err := v.Verify(context.Background(), Attestation{AttestationID: json.RawMessage("1"), UserContextData: userContext()})

		require.NoError(t, err)
		assert.True(t, res.Passed())
		assert.Equal(t, "990115", res.DateOfBirth)
		assert.Equal(t, "MEX", res.Nationality)
	})

	t.Run("non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad proof", http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewHTTPVerifier(HTTPConfig{URL: srv.URL}, srv.Client()).Verify(context.Background(), Attestation{})
		assert.ErrorContains(t, err, "bad proof")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		_, err := NewHTTPVerifier(HTTPConfig{URL: srv.URL, Timeout: 20 * time.Millisecond}, srv.Client()).Verify(context.Background(), Attestation{})
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestResultPassed(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.Passed())
	assert.False(t, (&Result{IsValid: true}).Passed())
	assert.True(t, (&Result{IsValid: true, IsMinimumAgeValid: true}).Passed())
}

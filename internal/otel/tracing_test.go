package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestInitDisabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	shutdown, err := Init(context.Background())

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitUnsupportedProtocolDegrades(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	shutdown, err := Init(context.Background())

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGetSampler(t *testing.T) {
	cases := map[string]string{
		"always_on":                trace.AlwaysSample().Description(),
		"always_off":               trace.NeverSample().Description(),
		"traceidratio":             trace.TraceIDRatioBased(0.25).Description(),
		"parentbased_traceidratio": trace.ParentBased(trace.TraceIDRatioBased(0.25)).Description(),
		"":                         trace.ParentBased(trace.AlwaysSample()).Description(),
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("OTEL_TRACES_SAMPLER", name)
			t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
			assert.Equal(t, want, getSampler().Description())
		})
	}
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.5, parseRatio("0.5"))
	assert.Equal(t, 1.0, parseRatio("nope"))
	assert.Equal(t, 1.0, parseRatio("3"))
	assert.Equal(t, 0.0, parseRatio("-1"))
}

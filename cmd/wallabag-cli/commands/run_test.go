package commands

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pocheclient/lib/telemetry"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanRecorder keeps exported spans past Shutdown.
type spanRecorder struct {
	lock  sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (r *spanRecorder) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.spans = append(r.spans, spans...)
	return nil
}

func (r *spanRecorder) Shutdown(ctx context.Context) error {
	return nil
}

func (r *spanRecorder) find(name string) (sdktrace.ReadOnlySpan, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, span := range r.spans {
		if span.Name() == name {
			return span, true
		}
	}
	return nil, false
}

func TestFailedCommandFlushesTelemetry(t *testing.T) {
	recorder := &spanRecorder{}
	setupTelemetry = func(ctx context.Context, serviceName string) (telemetry.Telemetry, error) {
		// batched spans only leave the process on shutdown
		provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(recorder))
		otel.SetTracerProvider(provider)
		return telemetry.Telemetry{TracerProvider: provider}, nil
	}
	t.Cleanup(func() {
		setupTelemetry = telemetry.SetupFromEnv
	})

	server := httptest.NewServer(nil)
	endpoint := server.URL
	server.Close()

	path := filepath.Join(t.TempDir(), "wallabag.json5")
	require.Nil(t, os.WriteFile(path, []byte(`{ endpoint: "`+endpoint+`", username: "poche" }`), 0600))

	err := run(context.Background(), []string{"--config", path, "test"})
	require.NotNil(t, err)

	span, ok := recorder.find("probe:Run")
	require.True(t, ok, "the failed probe span was not exported")
	require.Equal(t, codes.Error, span.Status().Code)
}

func TestMissingConfigIsAnError(t *testing.T) {
	setupTelemetry = func(ctx context.Context, serviceName string) (telemetry.Telemetry, error) {
		return telemetry.Telemetry{}, nil
	}
	t.Cleanup(func() {
		setupTelemetry = telemetry.SetupFromEnv
	})

	err := run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "wallabag.json5"), "add", "https://example.com"})
	require.True(t, errors.Is(err, os.ErrNotExist))
}

package testutil

import (
	"log/slog"
	"os"
	"testing"

	"farmgate/internal/telemetry"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// NewMockDB creates a pgxmock pool and automatically handles cleanup via t.Cleanup
func NewMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)

	t.Cleanup(func() {
		mockPool.Close()
	})

	return mockPool
}

// NewTestLogger creates a standardized logger for tests
func NewTestLogger() *slog.Logger {
	// os.Stdout so logs show up under -v; swap for io.Discard if they get noisy.
	baseHandler := slog.NewJSONHandler(os.Stdout, nil)
	return slog.New(telemetry.NewTraceHandler(baseHandler))
}

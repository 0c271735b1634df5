// Package testutil holds shared fixtures for tests across the module.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/registry"
	"github.com/specialistvlad/recipegrid/internal/storage"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewContext returns a context carrying a debug-level logger that writes into
// the returned buffer. Set RECIPEGRID_TEST_LOGS=true to dump the buffer at the
// end of the test.
func NewContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Cleanup(func() {
		if os.Getenv("RECIPEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return ctxlog.WithLogger(context.Background(), logger), logBuffer
}

// NewRegistry returns a registry with the given modules registered.
func NewRegistry(modules ...registry.Module) *registry.Registry {
	reg := registry.New()
	for _, m := range modules {
		m.Register(reg)
	}
	return reg
}

// NewStorage returns a router with an in-memory backend mounted on mem://.
func NewStorage() (*storage.Router, *storage.Memory) {
	mem := storage.NewMemory()
	router := storage.NewRouter()
	router.Handle("mem", mem)
	return router, mem
}

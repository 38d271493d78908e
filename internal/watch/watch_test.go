package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runLog struct {
	mu      sync.Mutex
	reasons []string
}

func (l *runLog) run(_ context.Context, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons = append(l.reasons, reason)
}

func (l *runLog) has(reason string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func start(t *testing.T, opts Options) {
	t.Helper()
	w, err := New(opts)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWatcherRunsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "site.sql")
	require.NoError(t, os.WriteFile(dump, []byte("v1"), 0o600))
	log := &runLog{}
	start(t, Options{Files: []string{dump}, Debounce: 20 * time.Millisecond, RunOnStart: true, Run: log.run})

	require.Eventually(t, func() bool { return log.has(ReasonStartup) }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(dump, []byte("v2"), 0o600))
	assert.Eventually(t, func() bool { return log.has(ReasonChange) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherRunsOnMediaChange(t *testing.T) {
	media := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(media, "assets", "images"), 0o750))
	log := &runLog{}
	start(t, Options{Dirs: []string{media}, Debounce: 20 * time.Millisecond, Run: log.run})

	require.NoError(t, os.WriteFile(filepath.Join(media, "assets", "images", "a.jpg"), []byte("x"), 0o600))
	assert.Eventually(t, func() bool { return log.has(ReasonChange) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherInterval(t *testing.T) {
	log := &runLog{}
	start(t, Options{Interval: 50 * time.Millisecond, Run: log.run})
	assert.Eventually(t, func() bool { return log.has(ReasonInterval) }, 2*time.Second, 10*time.Millisecond)
}

func TestNewRequiresRun(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestStartsWithParent(t *testing.T) {
	assert.True(t, startsWithParent(".."+string(filepath.Separator)+"x"))
	assert.False(t, startsWithParent("..x"))
	assert.False(t, startsWithParent("a"))
}

package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("OPENAI_API_KEY=old\n"), 0o600))

	var calls atomic.Int32
	w, err := NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	w.Start()
	defer w.Stop()

	// No initial callback.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(file, []byte("OPENAI_API_KEY=new\n"), 0o600))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w, err := NewWatcher(filepath.Join(dir, ".env"), func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), ".env"), func() error { return nil })
	require.NoError(t, err)
	w.Start()

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", ".env"), func() error { return nil })
	assert.ErrorContains(t, err, "failed to watch directory")
}

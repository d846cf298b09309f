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

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "modules/httpd", "modules/perl", "modules/.git/objects", "other")
	slash := filepath.ToSlash(root)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "plain file watches its directory",
			patterns: []string{slash + "/other/x.yaml"},
			want:     []string{"other"},
		},
		{
			name:     "single-level glob",
			patterns: []string{slash + "/modules/*.yaml"},
			want:     []string{"modules"},
		},
		{
			name:     "recursive glob skips vcs metadata",
			patterns: []string{slash + "/modules/**/*.yaml"},
			want:     []string{"modules", "modules/httpd", "modules/perl"},
		},
		{
			name:     "duplicates collapse",
			patterns: []string{slash + "/other/a.yaml", slash + "/other/*.yml"},
			want:     []string{"other"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WatchDirs(tt.patterns)
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.Join(root, w)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestWatchDirs_MissingBase(t *testing.T) {
	_, err := WatchDirs([]string{filepath.ToSlash(t.TempDir()) + "/nope/*.yaml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{BaseDir: t.TempDir()})
	require.ErrorContains(t, err, "no patterns")

	_, err = New(Config{BaseDir: t.TempDir(), Patterns: []string{"[unclosed"}})
	require.ErrorContains(t, err, "invalid pattern")
}

func TestWatcher_Matches(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "modules")

	w, err := New(Config{BaseDir: root, Patterns: []string{"modules/**/*.yaml", "top.yml"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	assert.True(t, w.Matches("modules/httpd.yaml"))
	assert.True(t, w.Matches(filepath.Join(root, "modules", "a", "b.yaml")))
	assert.True(t, w.Matches("top.yml"))
	assert.False(t, w.Matches("modules/httpd.json"))
	assert.False(t, w.Matches("elsewhere/x.yaml"))
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	root := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		BaseDir:  root,
		Patterns: []string{"*.yaml"},
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the loop a moment to start receiving.
	time.Sleep(50 * time.Millisecond)
	for _, name := range []string{"a.yaml", "b.yaml", "ignored.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(250 * time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "events within the window should produce one callback")
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, collected)
}

func TestWatcher_RunTwice(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{BaseDir: root, Patterns: []string{"*.yaml"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	require.Eventually(t, w.started.Load, time.Second, 5*time.Millisecond)

	require.ErrorContains(t, w.Run(ctx), "more than once")
	cancel()
	require.NoError(t, <-errCh)
}

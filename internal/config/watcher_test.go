package config

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

func TestWatcher_ReloadsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var reloaded *Config
	var reloadErr error
	w.SetReloadCallback(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = cfg
	})
	w.SetErrorCallback(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reloadErr = err
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[popup]\nfont_size = 40\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloaded != nil && reloaded.Popup.FontSize == 40
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("[popup]\nopacity = 7.0\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloadErr != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	calls := 0
	w.SetReloadCallback(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	})

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0644))
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestWatcher_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backlight-popup")
	path := filepath.Join(dir, "config.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var reloaded *Config
	w.SetReloadCallback(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = cfg
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// A config created after startup is picked up
	require.NoError(t, os.WriteFile(path, []byte("[popup]\nfont_size = 32\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloaded != nil && reloaded.Popup.FontSize == 32
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StartUncreatableDir(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0644))

	w, err := NewWatcher(filepath.Join(parent, "config.toml"), nil)
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

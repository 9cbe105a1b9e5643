package instance

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "instance.json")
	now := time.Now().Unix()

	require.NoError(t, Write(path, Info{
		PID:        os.Getpid(),
		StartedAt:  now,
		Version:    "test",
		HideSignal: "SIGUSR1",
		ShowSignal: "SIGUSR2",
	}))

	info, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, CurrentSchemaVersion, info.SchemaVersion)
	assert.Equal(t, now, info.Started().Unix())
	assert.True(t, info.Alive())
	assert.GreaterOrEqual(t, info.Uptime(), time.Duration(0))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "instance.json"))
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestLoad_DeadProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	require.NoError(t, Write(path, Info{PID: -1}))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRunning)
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")

	// Missing file is fine
	require.NoError(t, Remove(path, 1))

	// Belongs to someone else: kept
	require.NoError(t, Write(path, Info{PID: os.Getpid()}))
	require.NoError(t, Remove(path, os.Getpid()+1))
	_, err := os.Stat(path)
	require.NoError(t, err)

	// Ours: removed
	require.NoError(t, Remove(path, os.Getpid()))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClaim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	self := os.Getpid()
	other := self + 100000

	// First claim on an empty dir wins
	existing, err := Claim(path, Info{PID: self, Version: "primary"})
	require.NoError(t, err)
	assert.Nil(t, existing)

	// A second process must not take over a live record
	existing, err = Claim(path, Info{PID: other, Version: "second"})
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.NotNil(t, existing)
	assert.Equal(t, self, existing.PID)

	// ... and its shutdown must leave the primary discoverable
	require.NoError(t, Remove(path, other))
	info, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, self, info.PID)
	assert.Equal(t, "primary", info.Version)

	// Re-claiming our own record is allowed
	_, err = Claim(path, Info{PID: self, Version: "restarted"})
	require.NoError(t, err)
}

func TestClaim_ReplacesStaleRecords(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
	}{
		{"dead process", func(t *testing.T, path string) {
			require.NoError(t, Write(path, Info{PID: -1}))
		}},
		{"corrupt file", func(t *testing.T, path string) {
			require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "instance.json")
			tt.setup(t, path)

			_, err := Claim(path, Info{PID: os.Getpid()})
			require.NoError(t, err)

			info, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, os.Getpid(), info.PID)
		})
	}
}

func TestInfo_Send(t *testing.T) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR2)
	defer signal.Stop(ch)

	info := &Info{PID: os.Getpid()}
	require.NoError(t, info.Send(syscall.SIGUSR2))

	select {
	case sig := <-ch:
		assert.Equal(t, syscall.SIGUSR2, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered")
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/backlight-popup", Dir())
	assert.Equal(t, "/run/user/1000/backlight-popup/instance.json", Path())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Contains(t, Dir(), "backlight-popup-")
}

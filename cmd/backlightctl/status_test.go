package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/instance"
)

func TestParsePercent(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"40", 40, false},
		{"75%", 75, false},
		{" 0 ", 0, false},
		{"100", 100, false},
		{"101", 0, true},
		{"-5", 0, true},
		{"bright", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parsePercent(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepSize(t *testing.T) {
	got, err := stepSize(nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	got, err = stepSize([]string{"10%"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	_, err = stepSize([]string{"x"}, 5)
	assert.Error(t, err)
}

func TestWriteStatus(t *testing.T) {
	cfg = config.DefaultConfig()

	status := Status{Brightness: 42, Source: "sysfs:intel_backlight"}
	status.applyInstance(&instance.Info{
		PID:       1234,
		StartedAt: time.Now().Add(-2 * time.Hour).Unix(),
		Version:   "1.0.0",
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatus(&buf, "json", status))

		var got Status
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, status, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatus(&buf, "yaml", status))

		var got Status
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, status, got)
	})

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatus(&buf, "plain", status))

		out := buf.String()
		assert.Contains(t, out, "Brightness:  42%")
		assert.Contains(t, out, "Popup: running (pid 1234)")
		assert.Contains(t, out, "2 hours ago")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeStatus(&bytes.Buffer{}, "xml", status))
	})
}

func TestPlainStatus_NotRunning(t *testing.T) {
	cfg = config.DefaultConfig()

	out := plainStatus(Status{Error: "no backlight device found"})
	assert.Contains(t, out, "unavailable (no backlight device found)")
	assert.Contains(t, out, "Popup: not running")
}

func TestLoadInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	globalOpts.instancePath = path
	t.Cleanup(func() { globalOpts.instancePath = "" })

	_, err := loadInstance()
	assert.ErrorIs(t, err, instance.ErrNotRunning)

	require.NoError(t, instance.Write(path, instance.Info{PID: os.Getpid(), ShowSignal: "SIGUSR2"}))
	info, err := loadInstance()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), info.PID)
}

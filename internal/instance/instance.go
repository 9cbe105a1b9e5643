// Package instance records the running popup so other processes can find
// and signal it. The record is a small JSON file in the user's runtime dir.
package instance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// CurrentSchemaVersion is the current version of the instance schema.
const CurrentSchemaVersion = 1

var (
	// ErrNotRunning is returned when no live popup instance is recorded.
	ErrNotRunning = errors.New("backlight-popup is not running")
	// ErrAlreadyRunning is returned by Claim when another live instance owns the record.
	ErrAlreadyRunning = errors.New("backlight-popup is already running")
)

// Info describes a running popup.
type Info struct {
	PID        int    `json:"pid" yaml:"pid"`
	StartedAt  int64  `json:"started_at" yaml:"started_at"` // Unix timestamp
	Version    string `json:"version" yaml:"version"`
	HideSignal string `json:"hide_signal" yaml:"hide_signal"`
	ShowSignal string `json:"show_signal" yaml:"show_signal"`
	Terminal   bool   `json:"terminal,omitempty" yaml:"terminal,omitempty"`

	SchemaVersion int `json:"schema_version" yaml:"schema_version"`
}

// Dir returns the directory holding the instance file.
// Uses XDG_RUNTIME_DIR if set, otherwise the OS temp dir.
func Dir() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return filepath.Join(os.TempDir(), fmt.Sprintf("backlight-popup-%d", os.Getuid()))
	}
	return filepath.Join(runtimeDir, "backlight-popup")
}

// Path returns the path to the instance file.
func Path() string {
	return filepath.Join(Dir(), "instance.json")
}

// Write records info at path, replacing any previous record.
func Write(path string, info Info) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if info.SchemaVersion == 0 {
		info.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// Claim writes info at path unless a live process other than info.PID is
// already recorded there. In that case it returns the existing record and
// ErrAlreadyRunning, and the file is left untouched. Dead, missing and
// unreadable records are replaced.
func Claim(path string, info Info) (*Info, error) {
	existing, err := Load(path)
	if err == nil && existing.PID != info.PID {
		return existing, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, existing.PID)
	}
	if err := Write(path, info); err != nil {
		return nil, err
	}
	return nil, nil
}

// Load reads the record at path. A missing file, or one whose process has
// gone away, yields ErrNotRunning.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotRunning
		}
		return nil, err
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("corrupt instance file %s: %w", path, err)
	}
	if !info.Alive() {
		return nil, ErrNotRunning
	}

	return &info, nil
}

// Remove deletes the record at path if it belongs to pid.
func Remove(path string, pid int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var info Info
	if err := json.Unmarshal(data, &info); err == nil && info.PID != pid {
		// Another instance took over the file.
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Alive reports whether the recorded process still exists.
func (i *Info) Alive() bool {
	if i.PID <= 0 {
		return false
	}
	err := syscall.Kill(i.PID, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Send delivers sig to the recorded process.
func (i *Info) Send(sig os.Signal) error {
	p, err := os.FindProcess(i.PID)
	if err != nil {
		return err
	}
	if err := p.Signal(sig); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", i.PID, err)
	}
	return nil
}

// Started returns the start time.
func (i *Info) Started() time.Time {
	return time.Unix(i.StartedAt, 0)
}

// Uptime returns how long the instance has been running.
func (i *Info) Uptime() time.Duration {
	return time.Since(i.Started())
}

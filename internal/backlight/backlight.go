// Package backlight reads and adjusts display backlight brightness.
package backlight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Reader returns the current brightness as a percentage (0-100).
type Reader interface {
	// Name returns the reader identifier (e.g., "sysfs", "xbacklight").
	Name() string

	// Percentage reads the current brightness.
	Percentage(ctx context.Context) (int, error)
}

// ReadError represents a brightness source failure.
type ReadError struct {
	Source  string
	Message string
	Err     error
}

func (e *ReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReader creates a Reader for the given source name.
// "auto" prefers sysfs, then xbacklight, then brightnessctl.
func NewReader(source, device, sysfsRoot string) (Reader, error) {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsRoot
	}

	switch source {
	case "sysfs":
		dev, err := FindDevice(sysfsRoot, device)
		if err != nil {
			return nil, err
		}
		return NewSysfsReader(dev), nil
	case "xbacklight":
		return NewXbacklightReader(), nil
	case "brightnessctl":
		return NewBrightnessctlReader(device), nil
	case "", "auto":
		return detectReader(sysfsRoot, device)
	default:
		return nil, &ReadError{Source: source, Message: "unknown brightness source"}
	}
}

func detectReader(sysfsRoot, device string) (Reader, error) {
	if dev, err := FindDevice(sysfsRoot, device); err == nil {
		return NewSysfsReader(dev), nil
	}
	if _, err := exec.LookPath("xbacklight"); err == nil {
		return NewXbacklightReader(), nil
	}
	if _, err := exec.LookPath("brightnessctl"); err == nil {
		return NewBrightnessctlReader(device), nil
	}
	return nil, &ReadError{Source: "auto", Message: "no backlight device or brightness tool found", Err: os.ErrNotExist}
}

func checkPercent(source string, value float64) error {
	if value < 0.0 || value > 100.0 {
		return &ReadError{Source: source, Message: fmt.Sprintf("unexpected percentage %v", value)}
	}
	return nil
}

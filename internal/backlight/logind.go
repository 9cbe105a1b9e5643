package backlight

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// logind D-Bus constants.
const (
	LogindService     = "org.freedesktop.login1"
	LogindSessionPath = "/org/freedesktop/login1/session/auto"
	LogindSessionIfc  = "org.freedesktop.login1.Session"
)

// Setter writes a raw brightness value to a backlight device.
type Setter interface {
	SetBrightness(ctx context.Context, device string, value int) error
}

// LogindSetter sets brightness through systemd-logind, which lets the
// session owner change the backlight without write access to sysfs.
type LogindSetter struct {
	conn *dbus.Conn
}

// NewLogindSetter connects to the system bus.
func NewLogindSetter() (*LogindSetter, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &LogindSetter{conn: conn}, nil
}

// SetBrightness calls Session.SetBrightness("backlight", device, value).
func (s *LogindSetter) SetBrightness(ctx context.Context, device string, value int) error {
	if value < 0 {
		return fmt.Errorf("brightness value must not be negative, got %d", value)
	}
	obj := s.conn.Object(LogindService, dbus.ObjectPath(LogindSessionPath))
	call := obj.CallWithContext(ctx, LogindSessionIfc+".SetBrightness", 0, "backlight", device, uint32(value))
	if call.Err != nil {
		return fmt.Errorf("logind SetBrightness %s=%d: %w", device, value, call.Err)
	}
	return nil
}

// SetPercent sets dev to percent (clamped to 0-100) and returns the
// percentage that was applied.
func SetPercent(ctx context.Context, setter Setter, dev *Device, percent int) (int, error) {
	percent = max(0, min(100, percent))
	value, err := dev.ValueForPercent(percent)
	if err != nil {
		return 0, err
	}
	if err := setter.SetBrightness(ctx, dev.Name, value); err != nil {
		return 0, err
	}
	return percent, nil
}

// Step changes dev by delta percent from its current value.
func Step(ctx context.Context, setter Setter, dev *Device, delta int) (int, error) {
	current, err := dev.Percentage()
	if err != nil {
		return 0, err
	}
	return SetPercent(ctx, setter, dev, current+delta)
}

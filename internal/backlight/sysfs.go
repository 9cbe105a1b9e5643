package backlight

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultSysfsRoot is where the kernel exposes backlight devices.
const DefaultSysfsRoot = "/sys/class/backlight"

// Device is a backlight device under /sys/class/backlight.
type Device struct {
	Name string
	Path string
}

// FindDevice returns the named device, or the first device (by name) when
// name is empty.
func FindDevice(root, name string) (*Device, error) {
	if name != "" {
		dev := &Device{Name: name, Path: filepath.Join(root, name)}
		if _, err := os.Stat(filepath.Join(dev.Path, "max_brightness")); err != nil {
			return nil, &ReadError{Source: "sysfs", Message: "backlight device not found: " + name, Err: err}
		}
		return dev, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &ReadError{Source: "sysfs", Message: "failed to list backlight devices", Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, err := os.Stat(filepath.Join(root, e.Name(), "max_brightness")); err == nil {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, &ReadError{Source: "sysfs", Message: "no backlight devices in " + root, Err: os.ErrNotExist}
	}
	sort.Strings(names)

	return &Device{Name: names[0], Path: filepath.Join(root, names[0])}, nil
}

// Brightness returns the raw brightness value.
func (d *Device) Brightness() (int, error) {
	return d.readInt("brightness")
}

// MaxBrightness returns the raw maximum brightness value.
func (d *Device) MaxBrightness() (int, error) {
	return d.readInt("max_brightness")
}

// Percentage returns the brightness rounded to a whole percent.
func (d *Device) Percentage() (int, error) {
	cur, err := d.Brightness()
	if err != nil {
		return 0, err
	}
	maxValue, err := d.MaxBrightness()
	if err != nil {
		return 0, err
	}
	if maxValue <= 0 {
		return 0, &ReadError{Source: "sysfs", Message: fmt.Sprintf("device %s reports max_brightness %d", d.Name, maxValue)}
	}

	pct := 100 * float64(cur) / float64(maxValue)
	if err := checkPercent("sysfs", pct); err != nil {
		return 0, err
	}
	return int(math.Round(pct)), nil
}

// ValueForPercent converts a percentage into a raw brightness value,
// clamping the percentage to 0-100.
func (d *Device) ValueForPercent(percent int) (int, error) {
	maxValue, err := d.MaxBrightness()
	if err != nil {
		return 0, err
	}
	percent = max(0, min(100, percent))
	return int(math.Round(float64(maxValue) * float64(percent) / 100)), nil
}

func (d *Device) readInt(file string) (int, error) {
	data, err := os.ReadFile(filepath.Join(d.Path, file))
	if err != nil {
		return 0, &ReadError{Source: "sysfs", Message: "failed to read " + file, Err: err}
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, &ReadError{Source: "sysfs", Message: "failed to parse " + file, Err: err}
	}
	return v, nil
}

// SysfsReader reads brightness straight from a sysfs device.
type SysfsReader struct {
	device *Device
}

// NewSysfsReader creates a SysfsReader for dev.
func NewSysfsReader(dev *Device) *SysfsReader {
	return &SysfsReader{device: dev}
}

// Name returns the reader identifier.
func (r *SysfsReader) Name() string {
	return "sysfs"
}

// Device returns the device being read.
func (r *SysfsReader) Device() *Device {
	return r.device
}

// Percentage reads the current brightness.
func (r *SysfsReader) Percentage(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.device.Percentage()
}

package backlight

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// CommandReader reads brightness from an external tool's stdout.
type CommandReader struct {
	name  string
	args  []string
	parse func(out []byte) (int, error)
}

// NewXbacklightReader reads brightness from `xbacklight`.
func NewXbacklightReader() *CommandReader {
	return &CommandReader{
		name:  "xbacklight",
		parse: ParseXbacklight,
	}
}

// NewBrightnessctlReader reads brightness from `brightnessctl -m`.
// An empty device lets brightnessctl pick its default.
func NewBrightnessctlReader(device string) *CommandReader {
	args := []string{"-m"}
	if device != "" {
		args = append(args, "-d", device)
	}
	args = append(args, "info")
	return &CommandReader{
		name:  "brightnessctl",
		args:  args,
		parse: ParseBrightnessctl,
	}
}

// Name returns the reader identifier.
func (r *CommandReader) Name() string {
	return r.name
}

// Percentage runs the command and parses its output.
func (r *CommandReader) Percentage(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, r.name, r.args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, &ReadError{
			Source:  r.name,
			Message: "failed to execute " + r.name,
			Err:     err,
		}
	}
	return r.parse(output)
}

// ParseXbacklight parses xbacklight output, a float such as "42.000000".
func ParseXbacklight(out []byte) (int, error) {
	s := strings.TrimSpace(string(out))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ReadError{Source: "xbacklight", Message: fmt.Sprintf("unexpected output %q", s), Err: err}
	}
	if err := checkPercent("xbacklight", v); err != nil {
		return 0, err
	}
	return int(math.Round(v)), nil
}

// ParseBrightnessctl parses `brightnessctl -m info` output:
//
//	intel_backlight,backlight,19200,20%,96000
func ParseBrightnessctl(out []byte) (int, error) {
	line, _, _ := bytes.Cut(bytes.TrimSpace(out), []byte("\n"))
	fields := strings.Split(string(line), ",")
	if len(fields) < 5 {
		return 0, &ReadError{Source: "brightnessctl", Message: fmt.Sprintf("unexpected output %q", line)}
	}

	cur, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, &ReadError{Source: "brightnessctl", Message: "invalid current value", Err: err}
	}
	maxValue, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0, &ReadError{Source: "brightnessctl", Message: "invalid max value", Err: err}
	}
	if maxValue <= 0 {
		return 0, &ReadError{Source: "brightnessctl", Message: fmt.Sprintf("max value %d", maxValue)}
	}

	pct := 100 * float64(cur) / float64(maxValue)
	if err := checkPercent("brightnessctl", pct); err != nil {
		return 0, err
	}
	return int(math.Round(pct)), nil
}

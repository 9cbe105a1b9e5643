package config

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "100ms", "1s", or milliseconds as a string ("100").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Bare milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '100ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Color is a "#RRGGBB" colour. It unmarshals from "#RRGGBB", "RRGGBB" or
// "r, g, b" and is always stored normalised to upper-case "#RRGGBB".
type Color string

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// ParseColor parses a colour into its normalised form.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return "", fmt.Errorf("invalid color %q: need three components", s)
		}
		var rgb [3]uint64
		for i, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return "", fmt.Errorf("invalid color %q: component %d must be 0-255", s, i+1)
			}
			rgb[i] = v
		}
		return Color(fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])), nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid color %q: must be #RRGGBB or r, g, b", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: must be #RRGGBB or r, g, b", s)
	}
	return Color("#" + strings.ToUpper(hex)), nil
}

// signalNames lists the signals usable for popup intents. SIGINT and SIGTERM
// stop the popup, and the terminal view relies on SIGWINCH.
var signalNames = map[string]syscall.Signal{
	"SIGUSR1": syscall.SIGUSR1,
	"SIGUSR2": syscall.SIGUSR2,
	"SIGHUP":  syscall.SIGHUP,
}

// ParseSignal parses "SIGUSR1", "USR1" or "usr1".
func ParseSignal(name string) (syscall.Signal, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "SIG") {
		n = "SIG" + n
	}
	sig, ok := signalNames[n]
	if !ok {
		return 0, fmt.Errorf("unsupported signal %q, must be one of SIGUSR1, SIGUSR2, SIGHUP", name)
	}
	return sig, nil
}

// SignalName returns the "SIGxxx" name of a supported signal.
func SignalName(sig syscall.Signal) string {
	for name, s := range signalNames {
		if s == sig {
			return name
		}
	}
	return sig.String()
}

// HideSignal returns the parsed hide signal. The config must be valid.
func (s SignalConfig) HideSignal() syscall.Signal {
	sig, _ := ParseSignal(s.Hide)
	return sig
}

// ShowSignal returns the parsed show signal. The config must be valid.
func (s SignalConfig) ShowSignal() syscall.Signal {
	sig, _ := ParseSignal(s.Show)
	return sig
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backlight-popup/internal/backlight"
	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/instance"
)

var setOpts struct {
	noPopup bool
}

var setCmd = &cobra.Command{
	Use:   "set <percent>",
	Short: "Set the brightness",
	Long: `Set the backlight to an absolute percentage and show the popup.

Examples:
  backlightctl set 40
  backlightctl set 75%`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pct, err := parsePercent(args[0])
		if err != nil {
			return err
		}
		return adjust(func(ctx context.Context, setter backlight.Setter, dev *backlight.Device) (int, error) {
			return backlight.SetPercent(ctx, setter, dev, pct)
		})
	},
}

var upCmd = &cobra.Command{
	Use:   "up [percent]",
	Short: "Increase the brightness",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return step(args, 1)
	},
}

var downCmd = &cobra.Command{
	Use:   "down [percent]",
	Short: "Decrease the brightness",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return step(args, -1)
	},
}

func init() {
	for _, c := range []*cobra.Command{setCmd, upCmd, downCmd} {
		c.Flags().BoolVar(&setOpts.noPopup, "no-popup", false,
			"Do not signal the popup after changing brightness")
		rootCmd.AddCommand(c)
	}
}

// parsePercent parses "40" or "40%" in the range 0-100.
func parsePercent(arg string) (int, error) {
	s := strings.TrimSuffix(strings.TrimSpace(arg), "%")
	pct, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", arg)
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("percentage must be between 0 and 100, got %d", pct)
	}
	return pct, nil
}

// stepSize returns the step from args, or the configured default.
func stepSize(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	return parsePercent(args[0])
}

func step(args []string, sign int) error {
	delta, err := stepSize(args, cfg.Backlight.Step)
	if err != nil {
		return err
	}
	return adjust(func(ctx context.Context, setter backlight.Setter, dev *backlight.Device) (int, error) {
		return backlight.Step(ctx, setter, dev, sign*delta)
	})
}

type adjustFunc func(ctx context.Context, setter backlight.Setter, dev *backlight.Device) (int, error)

// adjust applies fn to the configured device through logind, then shows
// the popup.
func adjust(fn adjustFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dev, err := backlight.FindDevice(backlight.DefaultSysfsRoot, cfg.Backlight.Device)
	if err != nil {
		return err
	}

	setter, err := backlight.NewLogindSetter()
	if err != nil {
		return err
	}

	pct, err := fn(ctx, setter, dev)
	if err != nil {
		return fmt.Errorf("failed to set brightness: %w", err)
	}
	logger.Debug("brightness changed", "device", dev.Name, "percent", pct)
	fmt.Printf("%d%%\n", pct)

	if setOpts.noPopup {
		return nil
	}

	err = signalPopup(func(c config.SignalConfig) string { return c.Show })
	if errors.Is(err, instance.ErrNotRunning) {
		logger.Debug("popup not running, skipping show")
		return nil
	}
	return err
}

// Package main provides backlightctl, the control CLI for backlight-popup.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/instance"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	cfg        *config.Config
	globalOpts struct {
		verbose      bool
		configPath   string
		instancePath string
	}
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "backlightctl",
	Short: "Control the backlight and the backlight-popup overlay",
	Long: `backlightctl adjusts the display backlight and signals a running
backlight-popup so the new level is shown.

Brightness is changed through systemd-logind, so no extra permissions on
/sys/class/backlight are required.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/backlight-popup/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.instancePath, "instance-file", "",
		"Path to the popup instance file (default: $XDG_RUNTIME_DIR/backlight-popup/instance.json)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func instancePath() string {
	if globalOpts.instancePath != "" {
		return globalOpts.instancePath
	}
	return instance.Path()
}

// loadInstance returns the running popup, or ErrNotRunning.
func loadInstance() (*instance.Info, error) {
	info, err := instance.Load(instancePath())
	if err != nil {
		if errors.Is(err, instance.ErrNotRunning) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read instance file: %w", err)
	}
	return info, nil
}

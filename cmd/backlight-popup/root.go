// Package main is the entry point for the backlight-popup daemon.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backlight-popup/internal/backlight"
	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/instance"
	"github.com/jmylchreest/backlight-popup/internal/mailbox"
)

const appID = "io.github.jmylchreest.backlight-popup"

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var globalOpts struct {
	verbose    bool
	terminal   bool
	configPath string
}

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "backlight-popup",
	Short: "Show the display brightness in an on-screen popup",
	Long: `backlight-popup shows the current backlight brightness in a small overlay.

The popup is controlled by signals:

  SIGUSR1   hide the popup
  SIGUSR2   show the popup

The mapping can be changed in the [signals] section of the config file.
Use backlightctl to adjust brightness and show the popup in one step.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.Flags().BoolVar(&globalOpts.terminal, "terminal", false,
		"Render the popup in the terminal instead of a layer-shell window")
	rootCmd.Flags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/backlight-popup/config.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("backlight-popup failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// session holds what both front ends share.
type session struct {
	cfg          *config.Config
	mailbox      *mailbox.Mailbox
	router       *mailbox.Router
	reader       backlight.Reader
	instancePath string
}

func run(cmd *cobra.Command, args []string) error {
	setupLogger()
	logger.Info("starting backlight-popup", "version", version)

	cfg, err := config.Load(globalOpts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := newSession(cfg)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		logger.Warn("another popup owns the instance file, exiting", "error", err)
		return nil
	}
	if err != nil {
		return err
	}
	defer s.close()

	if globalOpts.terminal {
		return runTerminal(s)
	}
	return runWindow(s)
}

func newSession(cfg *config.Config) (*session, error) {
	reader, err := backlight.NewReader(cfg.Backlight.Source, cfg.Backlight.Device, "")
	if err != nil {
		return nil, fmt.Errorf("failed to open brightness source: %w", err)
	}
	logger.Debug("brightness source selected", "source", reader.Name())

	// Only the owner of the instance record may route signals.
	instancePath := instance.Path()
	info := instance.Info{
		PID:        os.Getpid(),
		StartedAt:  time.Now().Unix(),
		Version:    version,
		HideSignal: cfg.Signals.Hide,
		ShowSignal: cfg.Signals.Show,
		Terminal:   globalOpts.terminal,
	}
	if _, err := instance.Claim(instancePath, info); err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			return nil, err
		}
		logger.Warn("failed to write instance file", "path", instancePath, "error", err)
	} else {
		logger.Debug("instance file written", "path", instancePath)
	}

	initial := mailbox.MessageNone
	if cfg.Popup.InitialVisible {
		initial = mailbox.MessageDraw
	}
	mb := mailbox.New(initial)

	s := &session{
		cfg:          cfg,
		mailbox:      mb,
		router:       mailbox.NewRouter(mb, logger),
		reader:       reader,
		instancePath: instancePath,
	}

	routes := []struct {
		sig os.Signal
		msg mailbox.Message
	}{
		{cfg.Signals.HideSignal(), mailbox.MessageHide},
		{cfg.Signals.ShowSignal(), mailbox.MessageShow},
	}
	for _, r := range routes {
		if err := s.router.Register(r.sig, r.msg); err != nil {
			s.close()
			var setupErr *mailbox.SetupError
			if errors.As(err, &setupErr) {
				return nil, fmt.Errorf("failed to install signal handler: %w", setupErr)
			}
			return nil, err
		}
	}

	return s, nil
}

func (s *session) close() {
	s.router.Stop()
	if err := instance.Remove(s.instancePath, os.Getpid()); err != nil {
		logger.Warn("failed to remove instance file", "path", s.instancePath, "error", err)
	}
}

// newConfigWatcher starts watching the config file. Failures are logged and
// leave hot reload disabled.
func (s *session) newConfigWatcher(onReload func(cfg *config.Config)) *config.Watcher {
	w, err := config.NewWatcher(globalOpts.configPath, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
		return nil
	}
	w.SetReloadCallback(onReload)
	w.SetErrorCallback(func(err error) {
		logger.Warn("config reload rejected, keeping previous config", "error", err)
	})
	return w
}

// restartRequired logs settings that only take effect after a restart.
func restartRequired(old, next *config.Config) {
	if old.Signals != next.Signals {
		logger.Warn("signal mapping changed, restart backlight-popup to apply",
			"hide", next.Signals.Hide, "show", next.Signals.Show)
	}
	if old.Backlight.Source != next.Backlight.Source || old.Backlight.Device != next.Backlight.Device {
		logger.Warn("brightness source changed, restart backlight-popup to apply",
			"source", next.Backlight.Source, "device", next.Backlight.Device)
	}
}

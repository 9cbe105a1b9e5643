package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/display"
	"github.com/jmylchreest/backlight-popup/internal/popup"
)

// runWindow runs the layer-shell popup on the GTK main loop.
func runWindow(s *session) error {
	app := adw.NewApplication(appID, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		view          *display.Popup
		ticker        *display.Ticker
		configWatcher *config.Watcher
		running       atomic.Bool
		fatal         error
	)

	stop := func() {
		if ticker != nil {
			ticker.Stop()
		}
		if configWatcher != nil {
			configWatcher.Stop()
			configWatcher = nil
		}
		if view != nil {
			view.Destroy()
			view = nil
		}
	}

	// Shutdown signals are separate from the popup signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			glib.IdleAdd(func() {
				if running.Load() {
					stop()
				}
				app.Quit()
			})
		case <-ctx.Done():
		}
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		cfg := s.cfg
		view = display.NewPopup(&app.Application, cfg, s.reader, logger)
		controller := popup.NewController(s.mailbox, view, logger)

		if cfg.Popup.InitialVisible {
			if err := view.Redraw(); err != nil {
				fatal = err
				app.Quit()
				return
			}
			view.Show()
		}

		ticker = display.NewTicker(controller, func(err error) {
			fatal = err
			stop()
			app.Quit()
		}, logger)
		ticker.Start(cfg.Popup.RefreshInterval.Duration())

		configWatcher = s.newConfigWatcher(func(next *config.Config) {
			glib.IdleAdd(func() {
				if view == nil {
					return
				}
				restartRequired(cfg, next)
				view.UpdateConfig(next)
				ticker.Reset(next.Popup.RefreshInterval.Duration())
				cfg = next
				logger.Info("config reloaded")
			})
		})
		if configWatcher != nil {
			if err := configWatcher.Start(ctx); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
				configWatcher = nil
			}
		}

		logger.Info("backlight-popup ready",
			"hide_signal", cfg.Signals.Hide,
			"show_signal", cfg.Signals.Show,
			"visible", cfg.Popup.InitialVisible)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stop()
		running.Store(false)
	})

	// Flags were consumed by cobra
	status := app.Run(os.Args[:1])

	if fatal != nil {
		return fmt.Errorf("popup redraw failed: %w", fatal)
	}
	if status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}

	logger.Info("backlight-popup stopped")
	return nil
}

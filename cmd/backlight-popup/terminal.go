package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/tui"
)

// runTerminal runs the popup as a BubbleTea program.
func runTerminal(s *session) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.New(s.cfg, s.mailbox, s.reader, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			program.Quit()
		case <-ctx.Done():
		}
	}()

	current := s.cfg
	if w := s.newConfigWatcher(func(next *config.Config) {
		restartRequired(current, next)
		current = next
		program.Send(tui.ConfigMsg{Config: next})
	}); w != nil {
		if err := w.Start(ctx); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		} else {
			defer w.Stop()
		}
	}

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("terminal popup failed: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return fmt.Errorf("popup redraw failed: %w", m.Err())
	}
	return nil
}

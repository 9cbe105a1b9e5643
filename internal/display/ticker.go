package display

import (
	"log/slog"
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/backlight-popup/internal/popup"
)

// Ticker runs a popup.Controller on the GTK main loop at a fixed interval.
type Ticker struct {
	controller *popup.Controller
	logger     *slog.Logger
	onError    func(err error)

	interval time.Duration
	source   glib.SourceHandle
	running  bool
}

// NewTicker creates a Ticker. onError is called on the main loop when a
// tick fails; the ticker stops itself first.
func NewTicker(controller *popup.Controller, onError func(err error), logger *slog.Logger) *Ticker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ticker{
		controller: controller,
		logger:     logger,
		onError:    onError,
	}
}

// Start installs the timeout. Calling Start on a running ticker restarts it
// with the new interval.
func (t *Ticker) Start(interval time.Duration) {
	t.Stop()
	t.interval = interval
	t.running = true
	t.source = glib.TimeoutAdd(uint(interval.Milliseconds()), t.tick)
	t.logger.Debug("popup ticker started", "interval", interval)
}

// Reset restarts the ticker if interval differs from the current one.
func (t *Ticker) Reset(interval time.Duration) {
	if t.running && interval == t.interval {
		return
	}
	t.Start(interval)
}

// Stop removes the timeout.
func (t *Ticker) Stop() {
	if !t.running {
		return
	}
	t.running = false
	glib.SourceRemove(t.source)
}

func (t *Ticker) tick() bool {
	if _, err := t.controller.Tick(); err != nil {
		// Returning false removes the source, so mark it gone first
		t.running = false
		if t.onError != nil {
			t.onError(err)
		}
		return false
	}
	return true
}

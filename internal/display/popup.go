package display

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/backlight-popup/internal/backlight"
	"github.com/jmylchreest/backlight-popup/internal/config"
	"github.com/jmylchreest/backlight-popup/internal/popup"
)

// readTimeout bounds a single brightness read on the GTK main loop.
const readTimeout = time.Second

// Popup is the brightness popup window. It implements popup.View and must
// only be used from the GTK main loop.
type Popup struct {
	window *gtk.Window
	label  *gtk.Label
	reader backlight.Reader
	config *config.Config
	logger *slog.Logger

	lastPercent int
}

var _ popup.View = (*Popup)(nil)

// NewPopup creates the popup window. The window starts hidden.
func NewPopup(app *gtk.Application, cfg *config.Config, reader backlight.Reader, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Popup{
		reader:      reader,
		config:      cfg,
		logger:      logger,
		lastPercent: -1,
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetTitle("Backlight Popup")
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetCanFocus(false)

	// Initialize layer-shell
	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0) // Don't reserve space
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "backlight-popup")

	p.label = gtk.NewLabel("")
	p.label.AddCSSClass("backlight-percentage")
	p.label.SetJustify(gtk.JustifyCenter)
	p.label.SetUseMarkup(true)
	p.label.SetHExpand(true)
	p.label.SetVExpand(true)
	p.window.SetChild(p.label)

	p.applyConfig()
	p.window.SetVisible(false)

	return p
}

// Redraw reads the brightness and updates the label.
func (p *Popup) Redraw() error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	pct, err := p.reader.Percentage(ctx)
	if err != nil {
		return fmt.Errorf("failed to read brightness from %s: %w", p.reader.Name(), err)
	}

	if pct != p.lastPercent {
		p.logger.Debug("brightness changed", "percent", pct, "source", p.reader.Name())
	}
	p.lastPercent = pct
	p.label.SetMarkup(p.content(pct).Markup())
	return nil
}

// Show makes the popup visible.
func (p *Popup) Show() {
	p.window.SetVisible(true)
	p.window.Present()
}

// Hide makes the popup invisible.
func (p *Popup) Hide() {
	p.window.SetVisible(false)
}

// UpdateConfig applies a reloaded configuration.
func (p *Popup) UpdateConfig(cfg *config.Config) {
	p.config = cfg
	p.applyConfig()
	if p.lastPercent >= 0 {
		p.label.SetMarkup(p.content(p.lastPercent).Markup())
	}
}

// Destroy closes the window.
func (p *Popup) Destroy() {
	p.window.Destroy()
}

func (p *Popup) content(pct int) popup.Content {
	return popup.Content{
		Percent:  pct,
		Color:    string(p.config.Popup.AccentColor),
		FontSize: p.config.Popup.FontSize,
	}
}

func (p *Popup) applyConfig() {
	cfg := p.config.Popup
	p.window.SetDefaultSize(cfg.Width, cfg.Height)
	p.window.SetSizeRequest(cfg.Width, cfg.Height)
	p.window.SetOpacity(cfg.Opacity)
	applyAnchors(p.window, config.Position(cfg.Position), cfg.OffsetX, cfg.OffsetY)
}

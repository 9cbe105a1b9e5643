// Package popup implements the visibility state machine that turns mailbox
// messages into view actions, once per timer tick.
package popup

import (
	"log/slog"

	"github.com/jmylchreest/backlight-popup/internal/mailbox"
)

// View is the UI collaborator driven by the Controller.
type View interface {
	// Redraw recomputes the displayed content.
	Redraw() error
	// Show makes the popup visible.
	Show()
	// Hide makes the popup invisible.
	Hide()
}

// Action is what a tick did.
type Action int

const (
	// ActionNone means the tick was idle.
	ActionNone Action = iota
	// ActionRedraw means the view content was refreshed.
	ActionRedraw
	// ActionHide means the popup was hidden.
	ActionHide
	// ActionShow means the popup was shown.
	ActionShow
)

// String returns the string representation of Action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRedraw:
		return "redraw"
	case ActionHide:
		return "hide"
	case ActionShow:
		return "show"
	default:
		return "unknown"
	}
}

// Controller reads the mailbox once per tick and performs one transition.
type Controller struct {
	mailbox *mailbox.Mailbox
	view    View
	logger  *slog.Logger
}

// NewController creates a Controller for the given mailbox and view.
func NewController(mb *mailbox.Mailbox, view View, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		mailbox: mb,
		view:    view,
		logger:  logger,
	}
}

// Tick performs one transition:
//
//	draw -> redraw, stays draw
//	hide -> hide, becomes none
//	none -> nothing
//	show -> show, becomes draw
//
// Hide and show are acknowledged with a compare-and-swap so a signal that
// lands between the read and the ack is handled on the next tick.
// The returned error is the view's redraw error, if any.
func (c *Controller) Tick() (Action, error) {
	msg := c.mailbox.Load()

	switch msg {
	case mailbox.MessageDraw:
		return ActionRedraw, c.view.Redraw()
	case mailbox.MessageHide:
		c.view.Hide()
		c.ack(mailbox.MessageHide, mailbox.MessageNone)
		return ActionHide, nil
	case mailbox.MessageNone:
		return ActionNone, nil
	case mailbox.MessageShow:
		c.view.Show()
		c.ack(mailbox.MessageShow, mailbox.MessageDraw)
		return ActionShow, nil
	default:
		// Load already rejects unknown codes; reaching this is a bug.
		panic(mailbox.InvariantViolation{Code: uint32(msg)})
	}
}

func (c *Controller) ack(handled, next mailbox.Message) {
	if !c.mailbox.CompareAndSwap(handled, next) {
		c.logger.Debug("newer message arrived before ack", "handled", handled, "current", c.mailbox.Load())
		return
	}
	c.logger.Debug("popup transition", "handled", handled, "next", next)
}

// Package display shows the brightness popup as a GTK4 layer-shell window.
// It handles window creation, anchoring and the timer that drives the
// visibility state machine on the GTK main loop.
package display

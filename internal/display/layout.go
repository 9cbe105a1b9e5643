package display

import (
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/backlight-popup/internal/config"
)

// applyAnchors sets the layer-shell anchors and margins for pos.
// With no anchors the compositor centres the surface.
func applyAnchors(window *gtk.Window, pos config.Position, offsetX, offsetY int) {
	// Reset all anchors first
	for _, edge := range []layershell.LayerShellEdge{
		layershell.LayerShellEdgeTop,
		layershell.LayerShellEdgeBottom,
		layershell.LayerShellEdgeLeft,
		layershell.LayerShellEdgeRight,
	} {
		layershell.SetAnchor(window, edge, false)
		layershell.SetMargin(window, edge, 0)
	}

	anchor := func(edge layershell.LayerShellEdge, margin int) {
		layershell.SetAnchor(window, edge, true)
		layershell.SetMargin(window, edge, margin)
	}

	switch pos {
	case config.PositionTopRight:
		anchor(layershell.LayerShellEdgeTop, offsetY)
		anchor(layershell.LayerShellEdgeRight, offsetX)
	case config.PositionTopLeft:
		anchor(layershell.LayerShellEdgeTop, offsetY)
		anchor(layershell.LayerShellEdgeLeft, offsetX)
	case config.PositionTopCenter:
		anchor(layershell.LayerShellEdgeTop, offsetY)
	case config.PositionBottomRight:
		anchor(layershell.LayerShellEdgeBottom, offsetY)
		anchor(layershell.LayerShellEdgeRight, offsetX)
	case config.PositionBottomLeft:
		anchor(layershell.LayerShellEdgeBottom, offsetY)
		anchor(layershell.LayerShellEdgeLeft, offsetX)
	case config.PositionBottomCenter:
		anchor(layershell.LayerShellEdgeBottom, offsetY)
	case config.PositionCenter:
		// Unanchored
	}
}

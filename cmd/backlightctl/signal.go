package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backlight-popup/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalPopup(func(c config.SignalConfig) string { return c.Show })
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalPopup(func(c config.SignalConfig) string { return c.Hide })
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hideCmd)
}

// signalPopup sends the signal chosen by pick to the running popup. The
// instance's own mapping wins over the local config.
func signalPopup(pick func(config.SignalConfig) string) error {
	info, err := loadInstance()
	if err != nil {
		return err
	}

	name := pick(config.SignalConfig{Hide: info.HideSignal, Show: info.ShowSignal})
	if name == "" {
		name = pick(cfg.Signals)
	}

	sig, err := config.ParseSignal(name)
	if err != nil {
		return fmt.Errorf("instance pid %d: %w", info.PID, err)
	}

	logger.Debug("signalling popup", "pid", info.PID, "signal", config.SignalName(sig))
	return info.Send(sig)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/backlight-popup/internal/backlight"
	"github.com/jmylchreest/backlight-popup/internal/instance"
)

var statusOpts struct {
	format string
}

// Status is the output of the status command.
type Status struct {
	Brightness int    `json:"brightness" yaml:"brightness"`
	Source     string `json:"source" yaml:"source"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`

	Running   bool   `json:"running" yaml:"running"`
	PID       int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	StartedAt int64  `json:"started_at,omitempty" yaml:"started_at,omitempty"` // Unix timestamp
	Started   string `json:"started,omitempty" yaml:"started,omitempty"`
	Terminal  bool   `json:"terminal,omitempty" yaml:"terminal,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show brightness and popup status",
	Long: `Show the current brightness and whether backlight-popup is running.

Output formats:
  plain   human readable (default)
  json    one JSON object
  yaml    YAML document`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var status Status

	reader, err := backlight.NewReader(cfg.Backlight.Source, cfg.Backlight.Device, "")
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Source = reader.Name()
		pct, err := reader.Percentage(ctx)
		if err != nil {
			status.Error = err.Error()
		} else {
			status.Brightness = pct
		}
	}

	info, err := loadInstance()
	switch {
	case err == nil:
		status.applyInstance(info)
	case errors.Is(err, instance.ErrNotRunning):
	default:
		logger.Warn("failed to read instance file", "error", err)
	}

	return writeStatus(os.Stdout, statusOpts.format, status)
}

func (s *Status) applyInstance(info *instance.Info) {
	s.Running = true
	s.PID = info.PID
	s.Version = info.Version
	s.StartedAt = info.StartedAt
	s.Started = humanize.Time(info.Started())
	s.Terminal = info.Terminal
}

// writeStatus renders status in format.
func writeStatus(w io.Writer, format string, status Status) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		return encoder.Encode(status)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()
		return encoder.Encode(status)
	case "plain", "":
		_, err := io.WriteString(w, plainStatus(status))
		return err
	default:
		return fmt.Errorf("unknown format %q (use plain, json or yaml)", format)
	}
}

func plainStatus(status Status) string {
	var b strings.Builder

	if status.Error != "" {
		fmt.Fprintf(&b, "Brightness: unavailable (%s)\n", status.Error)
	} else {
		bar := progress.New(
			progress.WithSolidFill(string(cfg.Popup.AccentColor)),
			progress.WithoutPercentage(),
			progress.WithWidth(20),
		)
		fmt.Fprintf(&b, "Brightness: %3d%% %s\n", status.Brightness, bar.ViewAs(float64(status.Brightness)/100))
		fmt.Fprintf(&b, "  Source: %s\n", status.Source)
	}

	if !status.Running {
		b.WriteString("Popup: not running\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Popup: running (pid %d)\n", status.PID)
	fmt.Fprintf(&b, "  Started: %s\n", status.Started)
	if status.Version != "" {
		fmt.Fprintf(&b, "  Version: %s\n", status.Version)
	}
	if status.Terminal {
		b.WriteString("  Mode: terminal\n")
	}
	return b.String()
}

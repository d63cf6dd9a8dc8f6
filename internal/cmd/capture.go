package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/espcam/campanel/internal/log"
)

// Capture saves one still frame.
type Capture struct {
	Output string `help:"Output file" default:"capture.jpg" short:"o" type:"path"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the capture command is executed.
func (c *Capture) Run(logger *slog.Logger, rawLogger log.RawLogger, dev *Device) error {
	client := dev.Client(logger, rawLogger)
	frame, err := client.CaptureStill(context.Background())
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Output, frame, 0o644); err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	logger.Info("Saved capture", "file", c.Output, "bytes", len(frame))
	fmt.Fprintln(stdout(c.Out), c.Output)
	return nil
}

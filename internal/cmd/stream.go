package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/espcam/campanel/internal/log"
)

// Stream prints the stream address or saves frames from it.
type Stream struct {
	Frames int    `help:"Number of frames to save; 0 only prints the stream URL" default:"0" short:"n"`
	Dir    string `help:"Directory for saved frames" default:"." type:"path"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the stream command is executed.
func (s *Stream) Run(logger *slog.Logger, rawLogger log.RawLogger, dev *Device) error {
	client := dev.Client(logger, rawLogger)
	streamURL, err := client.StreamURL()
	if err != nil {
		return err
	}
	w := stdout(s.Out)
	if s.Frames <= 0 {
		fmt.Fprintln(w, streamURL)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs, err := client.OpenStream(ctx)
	if err != nil {
		return err
	}
	defer fs.Close()

	logger.Info("Reading stream", "url", streamURL, "frames", s.Frames)
	for i := 0; i < s.Frames; i++ {
		frame, err := fs.Next()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Stream interrupted", "saved", i)
				return nil
			}
			return fmt.Errorf("read frame %d: %w", i, err)
		}
		name := filepath.Join(s.Dir, fmt.Sprintf("frame-%04d.jpg", i))
		if err := os.WriteFile(name, frame, 0o644); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		logger.Debug("Saved frame", "file", name, "bytes", len(frame))
		fmt.Fprintln(w, name)
	}
	return nil
}

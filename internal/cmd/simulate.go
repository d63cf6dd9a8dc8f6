package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/espcam/campanel/internal/simulator"
	"github.com/espcam/campanel/pkg/control"
)

// Simulate runs a simulated camera for development without hardware.
type Simulate struct {
	Addr          string        `help:"Configuration endpoint listen address" default:"127.0.0.1:8080" env:"CAMPANEL_SIM_ADDR"`
	StreamAddr    string        `help:"Stream endpoint listen address" default:"127.0.0.1:8081" env:"CAMPANEL_SIM_STREAM_ADDR"`
	FrameSize     string        `help:"Initial frame size index" default:"4" name:"framesize"`
	FrameInterval time.Duration `help:"Delay between stream frames" default:"100ms"`
}

// Run is called by Kong when the simulate command is executed.
func (s *Simulate) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs, err := simulator.ParseFrameSize(s.FrameSize)
	if err != nil {
		return err
	}
	dev := simulator.New(control.ESP32(), logger)
	dev.Set(control.FrameResolution, fs)
	dev.FrameInterval = s.FrameInterval

	logger.Info("Starting camera simulator", "addr", s.Addr, "stream", s.StreamAddr)
	return dev.Serve(ctx, s.Addr, s.StreamAddr)
}

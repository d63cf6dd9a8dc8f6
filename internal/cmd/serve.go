package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/espcam/campanel/internal/log"
	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/internal/server/api/handler"
	"github.com/espcam/campanel/pkg/panel"
)

// Serve runs the panel API for one camera.
type Serve struct {
	api.ServerConfig `embed:"" prefix:"api."`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger, dev *Device) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := dev.Client(logger, rawLogger)
	session := panel.New(client, panel.DefaultOptions(), logger)
	session.On(panel.EventUserEdit, func(ev panel.Event) {
		if ev.Err == nil {
			logger.Info("Control changed", "control", ev.Control, "value", ev.Value)
		}
	})

	// A failed hydration leaves the defaults in place; the panel stays usable.
	_ = session.Hydrate(ctx)

	apiSrv := api.New(s.ServerConfig, logger)
	handler.RegisterAll(apiSrv.Router(), session, client)
	if err := apiSrv.Start(); err != nil {
		return err
	}
	logger.Info("Serving camera panel", "device", client.Base(), "api", apiSrv.Addr())

	<-ctx.Done()
	logger.Info("Shutting down panel API")
	apiSrv.Close()
	return nil
}

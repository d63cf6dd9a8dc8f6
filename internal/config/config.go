// Package config defines the CLI structure and configuration for campanel.
package config

import (
	"github.com/espcam/campanel/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"CAMPANEL_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"CAMPANEL_LOG_FILE"`
	RawFile string `help:"Raw device request log file path (default: none)" env:"CAMPANEL_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Config string `help:"Configuration file (JSON, YAML or TOML)" env:"CAMPANEL_CONFIG" type:"path"`

	Log    `embed:"" prefix:"log."`
	Device cmd.Device `embed:"" prefix:"device."`

	Status   cmd.Status   `cmd:"" help:"Print the camera configuration"`
	Set      cmd.Set      `cmd:"" help:"Change one camera control"`
	Capture  cmd.Capture  `cmd:"" help:"Save a still frame"`
	Stream   cmd.Stream   `cmd:"" help:"Print the stream URL or save stream frames"`
	Joystick cmd.Joystick `cmd:"" help:"Print the directional code of a joystick displacement"`
	Serve    cmd.Serve    `cmd:"" help:"Serve the panel API for a camera"`
	Simulate cmd.Simulate `cmd:"" help:"Run a simulated camera"`
}

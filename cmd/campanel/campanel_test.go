package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espcam/campanel/internal/config"
	"github.com/espcam/campanel/internal/log"
)

func TestJoystickNegativeDisplacement(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"left", []string{"joystick", "-40", "0"}, "256 (90.00°)\n"},
		{"up", []string{"joystick", "0", "-40"}, "0 (0.00°)\n"},
		{"down", []string{"joystick", "0", "40"}, "512 (180.00°)\n"},
		{"right", []string{"joystick", "40", "0"}, "768 (270.00°)\n"},
		{"decimal", []string{"joystick", "-0.5", "-0.5"}, "128 (45.00°)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli config.CLI
			var out bytes.Buffer
			cli.Joystick.Out = &out

			parser, err := kong.New(&cli, parserOptions(nil, nil, nil)...)
			require.NoError(t, err)
			ctx, err := parser.Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, "joystick <dx> <dy>", ctx.Command())

			ctx.Bind(slog.Default())
			ctx.BindTo(log.NewRaw(nil), (*log.RawLogger)(nil))
			ctx.Bind(&cli.Device)
			require.NoError(t, ctx.Run())
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestFindUserConfig(t *testing.T) {
	t.Setenv("CAMPANEL_CONFIG", "")
	assert.Equal(t, "a.yaml", findUserConfig([]string{"--config=a.yaml", "status"}))
	assert.Equal(t, "b.toml", findUserConfig([]string{"status", "--config", "b.toml"}))
	assert.Equal(t, "", findUserConfig([]string{"status"}))
}

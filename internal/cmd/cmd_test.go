package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/espcam/campanel/internal/log"
	"github.com/espcam/campanel/internal/simulator"
	"github.com/espcam/campanel/pkg/binding"
	"github.com/espcam/campanel/pkg/control"
)

func startDevice(t *testing.T) (*simulator.Device, *Device) {
	t.Helper()
	dev := simulator.New(control.ESP32(), nil)
	srv := httptest.NewServer(dev.Handler())
	t.Cleanup(srv.Close)
	return dev, &Device{URL: srv.URL, StreamPort: 81}
}

func TestStatusFormats(t *testing.T) {
	dev, d := startDevice(t)
	dev.Set(control.GainControl, control.Bool(false))

	tests := []struct {
		format string
		check  func(t *testing.T, out []byte)
	}{
		{"json", func(t *testing.T, out []byte) {
			var m map[string]any
			require.NoError(t, json.Unmarshal(out, &m))
			assert.Equal(t, false, m["agc"])
			assert.Equal(t, float64(204), m["aec_value"])
			assert.Equal(t, "4", m["framesize"])
			assert.NotContains(t, m, "face_enroll")
		}},
		{"yaml", func(t *testing.T, out []byte) {
			var m map[string]any
			require.NoError(t, yaml.Unmarshal(out, &m))
			assert.Equal(t, false, m["agc"])
			assert.Equal(t, 204, m["aec_value"])
			assert.Equal(t, "4", m["framesize"])
		}},
		{"toml", func(t *testing.T, out []byte) {
			tree, err := toml.LoadBytes(out)
			require.NoError(t, err)
			assert.Equal(t, false, tree.Get("agc"))
			assert.Equal(t, int64(204), tree.Get("aec_value"))
			assert.Equal(t, "4", tree.Get("framesize"))
		}},
		{"table", func(t *testing.T, out []byte) {
			lines := strings.Split(strings.TrimSpace(string(out)), "\n")
			require.NotEmpty(t, lines)
			assert.True(t, strings.HasPrefix(lines[0], "CONTROL"))
			assert.Contains(t, lines[1], "framesize")
			assert.Contains(t, lines[1], "4 (QVGA(320x240))")
			assert.NotContains(t, string(out), "face_enroll")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			s := &Status{Format: tt.format, Out: &buf}
			require.NoError(t, s.Run(slog.Default(), log.NewRaw(nil), d))
			tt.check(t, buf.Bytes())
		})
	}
}

func TestStatusDeviceDown(t *testing.T) {
	dev, d := startDevice(t)
	dev.SetFailing(true)
	err := (&Status{Format: "json", Out: &bytes.Buffer{}}).Run(slog.Default(), log.NewRaw(nil), d)
	assert.Error(t, err)
}

func TestSetReportsForcedValues(t *testing.T) {
	dev, d := startDevice(t)
	dev.Set(control.FaceDetection, control.Bool(true))
	dev.Set(control.FaceRecognition, control.Bool(true))

	var buf bytes.Buffer
	s := &Set{Control: "framesize", Value: "8", Out: &buf}
	require.NoError(t, s.Run(slog.Default(), log.NewRaw(nil), d))

	assert.Equal(t, "framesize = 8\nface_detect = false (forced locally, not written)\nface_recognize = false (forced locally, not written)\n", buf.String())
	assert.Equal(t, []simulator.Write{{ID: control.FrameResolution, Value: "8"}}, dev.Writes())
	assert.Equal(t, control.Bool(true), dev.State()[control.FaceDetection])
}

func TestSetGuard(t *testing.T) {
	dev, d := startDevice(t)
	dev.Set(control.FrameResolution, control.Choice("9"))

	err := (&Set{Control: "face-detect", Value: "1", Out: &bytes.Buffer{}}).Run(slog.Default(), log.NewRaw(nil), d)
	assert.EqualError(t, err, binding.ResolutionWarning)
	assert.Empty(t, dev.Writes())
}

func TestSetErrors(t *testing.T) {
	_, d := startDevice(t)
	err := (&Set{Control: "zoom", Value: "1"}).Run(slog.Default(), log.NewRaw(nil), d)
	assert.ErrorIs(t, err, control.ErrUnknownControl)

	err = (&Set{Control: "quality"}).Run(slog.Default(), log.NewRaw(nil), d)
	assert.EqualError(t, err, "missing value for quality")
}

func TestCapture(t *testing.T) {
	_, d := startDevice(t)
	out := filepath.Join(t.TempDir(), "still.jpg")

	var buf bytes.Buffer
	require.NoError(t, (&Capture{Output: out, Out: &buf}).Run(slog.Default(), log.NewRaw(nil), d))
	assert.Equal(t, out+"\n", buf.String())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, b[:2])
}

func TestStreamPrintsURL(t *testing.T) {
	var buf bytes.Buffer
	d := &Device{URL: "192.168.4.1", StreamPort: 81}
	require.NoError(t, (&Stream{Out: &buf}).Run(slog.Default(), log.NewRaw(nil), d))
	assert.Equal(t, "http://192.168.4.1:81/stream\n", buf.String())
}

func TestJoystick(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   string
	}{
		{0, 0, "0 (0.00°)\n"},
		{0, -10, "0 (0.00°)\n"},
		{-10, 0, "256 (90.00°)\n"},
		{0, 10, "512 (180.00°)\n"},
		{10, 0, "768 (270.00°)\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, (&Joystick{DX: tt.dx, DY: tt.dy, Out: &buf}).Run(slog.Default()))
		assert.Equal(t, tt.want, buf.String())
	}
}

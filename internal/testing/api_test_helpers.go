package testing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/internal/simulator"
	"github.com/espcam/campanel/pkg/apiclient"
	"github.com/espcam/campanel/pkg/control"
	"github.com/espcam/campanel/pkg/panel"
)

// StartAPIServer starts an API server on a free port and calls register to
// let the test register the handlers it needs. Returns the address and a
// function to call when done.
func StartAPIServer(t *testing.T, register func(r *api.Router, apiSrv *api.Server)) (addr string, done func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr = ln.Addr().String()
	_ = ln.Close()

	apiSrv := api.New(api.ServerConfig{Addr: addr}, slog.Default())
	if register != nil {
		register(apiSrv.Router(), apiSrv)
	}
	if err := apiSrv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}

	done = func() {
		apiSrv.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return addr, done
}

// StartDevice runs a simulated camera behind httptest servers and returns
// it together with a client and a panel session bound to it. The servers
// are closed through t.Cleanup.
func StartDevice(t *testing.T) (*simulator.Device, *apiclient.Client, *panel.Session) {
	t.Helper()
	dev := simulator.New(control.ESP32(), slog.Default())
	srv := httptest.NewServer(dev.Handler())
	t.Cleanup(srv.Close)

	c := apiclient.New(srv.URL)
	return dev, c, panel.New(c, panel.DefaultOptions(), slog.Default())
}

// ExecCmd dials the API server, sends cmd and returns the response line
// without the trailing newline. Client errors call t.Fatalf.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()
	r := bufio.NewReader(c)
	_, _ = fmt.Fprintf(c, "%s\n", cmd)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	return strings.TrimSuffix(line, "\n")
}

// ExecSession sends several commands over one connection and returns one
// response line per command.
func ExecSession(t *testing.T, addr string, cmds ...string) []string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()
	r := bufio.NewReader(c)
	out := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		_, _ = fmt.Fprintf(c, "%s\n", cmd)
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read failed for %q: %v", cmd, err)
		}
		out = append(out, strings.TrimSuffix(line, "\n"))
	}
	return out
}

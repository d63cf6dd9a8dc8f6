package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/espcam/campanel/pkg/apitypes"
	"github.com/espcam/campanel/pkg/binding"
)

// Server implements the panel's line-oriented TCP API. Each request is one
// line "<path> [args...]"; each reply is one line of JSON.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
}

// New creates a new API server.
func New(config ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:   config.Addr,
		logger: logger,
		config: config,
		router: NewRouter(),
	}
}

// Router returns the router used by the API server so callers can register handlers.
func (a *Server) Router() *Router { return a.router }

// Config returns the server configuration.
func (a *Server) Config() ServerConfig { return a.config }

// Addr returns the listen address, resolved once the server has started.
func (a *Server) Addr() string {
	if a.ln != nil {
		return a.ln.Addr().String()
	}
	return a.addr
}

// Start listens on the configured address and serves incoming API commands.
func (a *Server) Start() error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.ln = ln
	a.logger.Info("API listening", "addr", ln.Addr().String())
	go a.serve()
	return nil
}

// Close stops the API server.
func (a *Server) Close() {
	if a.ln != nil {
		_ = a.ln.Close()
	}
}

func (a *Server) serve() {
	for {
		c, err := a.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.logger.Info("API server stopped")
				return
			}
			a.logger.Error("API accept error", "error", err)
			return
		}
		go a.handleConn(c)
	}
}

func (a *Server) writeError(w io.Writer, err error) {
	problem := apitypes.ApiError{Error: err.Error()}
	var verr *binding.ValidationError
	if errors.As(err, &verr) {
		problem.Warning = verr.Warning
	}
	problemJSON, _ := json.Marshal(problem)
	fmt.Fprintf(w, "%s\n", problemJSON)
}

func (a *Server) writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w, "{}")
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

func (a *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := a.logger.With("remote", conn.RemoteAddr().String(), "conn", uuid.NewString())
	r := bufio.NewReader(conn)
	w := conn
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				connLogger.Error("read api line", "error", err)
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		connLogger.Debug("api cmd", "cmd", line)
		fields := strings.Fields(line)
		path := strings.ToLower(fields[0])
		args := fields[1:]

		h, params := a.router.Match(path)
		if h == nil {
			connLogger.Warn("api unknown path", "path", path)
			a.writeError(w, errors.New("unknown path"))
			continue
		}
		req := &Request{Ctx: connCtx, Params: params, Args: args}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Warn("api handler error", "path", path, "error", err)
			a.writeError(w, err)
			continue
		}
		connLogger.Debug("api handler success", "path", path)
		a.writeOK(w, res.JSON)
	}
}

package api

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Request is one parsed API command line.
type Request struct {
	Ctx    context.Context
	Params map[string]string
	Args   []string
}

// Response carries the JSON payload written back on success.
type Response struct {
	JSON string
}

// HandlerFunc serves one route. Returned errors are reported to the caller
// by the server; handlers do not log them.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

type route struct {
	segments []string
	handler  HandlerFunc
}

// Router matches command paths such as "set/{control}" against registered patterns.
type Router struct {
	mu     sync.RWMutex
	routes []route
}

func NewRouter() *Router { return &Router{} }

// Register adds a handler for pattern. Segments written as {name} capture
// the corresponding path segment into Request.Params.
func (r *Router) Register(pattern string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{segments: split(pattern), handler: h})
}

// Match returns the handler registered for path and the captured parameters.
// Literal segments are compared case-insensitively.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	parts := split(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rt := range r.routes {
		if params, ok := matchSegments(rt.segments, parts); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

func matchSegments(pattern, parts []string) (map[string]string, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			params[seg[1:len(seg)-1]] = parts[i]
			continue
		}
		if !strings.EqualFold(seg, parts[i]) {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

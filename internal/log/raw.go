package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records the raw request/response lines exchanged with a device.
type RawLogger interface {
	// Log writes one line. outbound is true for requests sent to the device.
	Log(outbound bool, line string)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRaw returns a RawLogger writing to w. A nil writer discards everything.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawLogger{w: w}
}

func (l *rawLogger) Log(outbound bool, line string) {
	dir := "<-"
	if outbound {
		dir = "->"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "%s %s %s\n", time.Now().Format("15:04:05.000000"), dir, line)
}

type nopRaw struct{}

func (nopRaw) Log(bool, string) {}

// Package log provides the logging backend, based around go-logging.
package log

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/op/go-logging.v1"
)

// Backend fans per-module loggers into one leveled writer.
type Backend struct {
	backend logging.LeveledBackend
}

// GetLogger returns a per-module logger that writes to the backend.
func (b *Backend) GetLogger(module string) *logging.Logger {
	l := logging.MustGetLogger(module)
	l.SetBackend(b.backend)
	return l
}

// New initializes a logging backend writing to w (os.Stderr when nil).
func New(w io.Writer, level string) (*Backend, error) {
	lvl, err := levelFromString(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	logFmt := logging.MustStringFormatter("%{time:15:04:05.000} %{level:.4s} %{module}: %{message}")
	base := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(base, logFmt)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")

	return &Backend{backend: leveled}, nil
}

// NewDiscard returns a backend that drops everything; used by tests.
func NewDiscard() *Backend {
	b, _ := New(io.Discard, "CRITICAL")
	return b
}

func levelFromString(l string) (logging.Level, error) {
	switch l {
	case "ERROR":
		return logging.ERROR, nil
	case "WARNING":
		return logging.WARNING, nil
	case "NOTICE":
		return logging.NOTICE, nil
	case "INFO":
		return logging.INFO, nil
	case "DEBUG":
		return logging.DEBUG, nil
	case "CRITICAL":
		return logging.CRITICAL, nil
	default:
		return logging.CRITICAL, fmt.Errorf("log: invalid level: %q", l)
	}
}

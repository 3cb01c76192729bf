// Package logger wires github.com/op/go-logging for the rest of the module.
//
// Packages keep a package-level logger:
//
//	var log = logger.NewLogger("[evm]")
//
// and the command line front end calls Init once to pick the output, level
// and colouring.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

const (
	plainFormat = `%{time:15:04:05.000} %{module} %{level:.4s} %{message}`
	colorFormat = `%{color}%{time:15:04:05.000} %{module} %{level:.4s}%{color:reset} %{message}`
)

var (
	mu      sync.Mutex
	leveled logging.LeveledBackend
)

func init() {
	// quiet by default: library users opt in to output through Init
	Init(os.Stderr, "WARNING", false)
}

// NewLogger returns the named module logger.
func NewLogger(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}

// Init installs a single formatted backend writing to w at the given level for
// every module.
func Init(w io.Writer, level string, color bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	format := plainFormat
	if color {
		format = colorFormat
	}
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))

	mu.Lock()
	defer mu.Unlock()
	leveled = logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}

// SetLevel changes the level of one module, or of all modules when module is empty.
func SetLevel(level, module string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	leveled.SetLevel(lvl, module)
	return nil
}

// ParseLevel accepts the go-logging level names case-insensitively, plus the
// numeric verbosities 0 (CRITICAL) to 5 (DEBUG).
func ParseLevel(level string) (logging.Level, error) {
	switch strings.TrimSpace(level) {
	case "0":
		return logging.CRITICAL, nil
	case "1":
		return logging.ERROR, nil
	case "2":
		return logging.WARNING, nil
	case "3":
		return logging.NOTICE, nil
	case "4":
		return logging.INFO, nil
	case "5":
		return logging.DEBUG, nil
	}
	lvl, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(level)))
	if err != nil {
		return logging.WARNING, errors.Wrapf(err, "log level %q", level)
	}
	return lvl, nil
}

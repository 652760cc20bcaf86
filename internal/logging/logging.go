// Package logging builds the zerolog loggers used by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/risetrans/internal/config"
)

// FileName is the log file written when a directory is configured.
const FileName = "risetrans.log"

// Logger is a zerolog.Logger that may own a log file.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New returns a logger writing to w (stderr when nil) and, when cfg.Dir is
// set, to FileName inside it.
func New(cfg config.LoggerConfig, w io.Writer) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	l := &Logger{}
	if cfg.Dir != "" {
		mode := os.FileMode(cfg.Mode)
		if mode == 0 {
			mode = 0o644
		}
		l.file, err = os.OpenFile(filepath.Join(cfg.Dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(w, l.file)
	}

	l.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

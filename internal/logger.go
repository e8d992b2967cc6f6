package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/moby/term"
	"github.com/rs/zerolog"
)

// NewLogger builds the server logger. Logs always go to stderr because stdout carries
// the MCP protocol. When stderr is a terminal the output is human readable, otherwise
// it is one JSON object per line. If logFile is non-empty, JSON logs are also appended
// to that file. The returned func closes the file and is safe to call when no file was opened.
func NewLogger(level LogLevel, logFile string) (zerolog.Logger, func() error, error) {
	return newLogger(os.Stderr, term.IsTerminal(os.Stderr.Fd()), level, logFile)
}

func newLogger(stderr io.Writer, console bool, level LogLevel, logFile string) (zerolog.Logger, func() error, error) {
	lvl, err := zerolog.ParseLevel(string(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := stderr
	if console {
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	}

	writers := []io.Writer{out}
	closer := func() error { return nil }

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to create log directory for %q: %w", logFile, err)
		}

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to open log file %q: %w\nCheck that the directory is writable", logFile, err)
		}
		writers = append(writers, f)
		closer = f.Close
	}

	logger := zerolog.New(io.MultiWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	return logger, closer, nil
}

package newsprep

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/newsprep/config"
)

// newRunLogger builds a text logger that writes to console and appends to
// the configured log file. An empty log file path logs to console only.
func newRunLogger(cfg *config.Config, console io.Writer) (*slog.Logger, func() error, error) {
	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	if console == nil {
		console = io.Discard
	}

	out := console
	closer := func() error { return nil }
	if path := cfg.Paths.LogFile; path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(console, f)
		closer = f.Close
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closer, nil
}

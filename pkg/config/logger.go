package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logging configures the zerolog logger handed to the stages.
type Logging struct {
	Level   string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format  string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
	Output  string `mapstructure:"output" yaml:"output" validate:"required"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color"`
}

// NewLogger builds a logger from the configuration. Unknown levels fall back
// to warn. Output names stderr, stdout, discard or a file opened for append;
// the returned Closer releases that file and is a no-op for the others.
func (l Logging) NewLogger() (zerolog.Logger, io.Closer, error) {
	w, err := outputWriter(l.Output)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	c, ok := w.(io.Closer)
	if !ok {
		c = nopCloser{}
	}
	return l.NewLoggerTo(w), c, nil
}

// NewLoggerTo is NewLogger with an explicit destination.
func (l Logging) NewLoggerTo(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.WarnLevel
	}
	if strings.EqualFold(l.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, NoColor: l.NoColor}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func outputWriter(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return nopCloseWriter{os.Stderr}, nil
	case "stdout":
		return nopCloseWriter{os.Stdout}, nil
	case "discard":
		return io.Discard, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("config: logging output: %w", err)
		}
		return f, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// nopCloseWriter hides the Close of the standard streams.
type nopCloseWriter struct{ io.Writer }

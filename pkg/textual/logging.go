package textual

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu      sync.RWMutex
	defaultLogger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
)

// SetDefaultLogger replaces the logger used by stages built without WithLogger.
func SetDefaultLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = l
}

// DefaultLogger returns the logger used by stages built without WithLogger.
func DefaultLogger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// NewLineLogger is a pass-through line stage that logs every line at debug
// level under the given label.
func NewLineLogger(label string, upstream Upstream, opts ...Option) (*LineProcessor, error) {
	opts = append([]Option{WithName(label)}, opts...)
	var p *LineProcessor
	p, err := NewLineProcessor(TransformerFunc(func(line string) (string, error) {
		p.Logger().Debug().Int64("line", p.Lines()+1).Str("text", line).Msg(label)
		return line, nil
	}), upstream, opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

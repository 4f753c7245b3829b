package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleSink receives every formatted entry synchronously.
type ConsoleSink interface {
	Write(e Entry)
}

// ConsoleSinkFunc adapts a function to ConsoleSink.
type ConsoleSinkFunc func(e Entry)

func (f ConsoleSinkFunc) Write(e Entry) { f(e) }

type zerologConsole struct {
	logger zerolog.Logger
}

// NewConsoleSink returns a console sink writing human-readable lines to w
// (stderr when w is nil) through zerolog's ConsoleWriter.
func NewConsoleSink(w io.Writer, noColor bool) ConsoleSink {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	}
	return newZerologConsole(zerolog.New(cw))
}

func newZerologConsole(l zerolog.Logger) *zerologConsole {
	return &zerologConsole{logger: l.Level(zerolog.TraceLevel)}
}

// Write gating already happened in the writer, so every entry is emitted at
// its mapped tier.
func (c *zerologConsole) Write(e Entry) {
	c.logger.WithLevel(e.Level.ConsoleLevel()).
		Time(zerolog.TimestampFieldName, e.Time).
		Msg(e.Prefix + " " + e.Message)
}

package logx

import (
	"bytes"
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// CallerResolver supplies call-site information for the convenience methods.
// Resolution itself lives outside this package.
type CallerResolver func() Caller

// WriterOptions are the collaborators of a Writer. Nil fields fall back to
// a stderr console, a disabled diagnostics logger and an empty caller.
type WriterOptions struct {
	Console     ConsoleSink
	Diagnostics *zerolog.Logger
	Sink        SinkOptions
	Callers     CallerResolver
}

// pipeline is what one Config snapshot resolves to.
type pipeline struct {
	cfg  Config
	sink *FileSink
}

// Writer routes records through filter, formatter, console and file sink.
// It is safe for concurrent use.
type Writer struct {
	console  ConsoleSink
	diag     zerolog.Logger
	sinkOpts SinkOptions
	callers  CallerResolver

	current atomic.Pointer[pipeline]
	mu      sync.Mutex
	closed  atomic.Bool
}

var _ Logger = (*Writer)(nil)

// NewWriter builds a writer for cfg.
func NewWriter(cfg Config, opts WriterOptions) *Writer {
	w := &Writer{
		console:  opts.Console,
		sinkOpts: opts.Sink,
		callers:  opts.Callers,
		diag:     zerolog.Nop(),
	}
	if w.console == nil {
		w.console = NewConsoleSink(nil, false)
	}
	if opts.Diagnostics != nil {
		w.diag = *opts.Diagnostics
	}
	if w.callers == nil {
		w.callers = func() Caller { return Caller{} }
	}
	w.current.Store(w.build(cfg))
	return w
}

func (w *Writer) build(cfg Config) *pipeline {
	p := &pipeline{cfg: cfg}
	if cfg.SaveToFile && !w.closed.Load() {
		p.sink = NewFileSink(cfg.FilePath, w.sinkOpts, w.diag)
	}
	return p
}

// SetSinkOptions changes the tuning used for file sinks built by later
// ApplyConfig calls.
func (w *Writer) SetSinkOptions(opts SinkOptions) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sinkOpts = opts
}

// Config returns the snapshot the writer is currently using.
func (w *Writer) Config() Config {
	return w.current.Load().cfg
}

// Sink returns the active file sink, or nil when persistence is off.
func (w *Writer) Sink() *FileSink {
	return w.current.Load().sink
}

// ApplyConfig replaces the pipeline. The previous file sink is drained and
// stopped before the new one is installed, so two sinks never write the same
// partition at once.
func (w *Writer) ApplyConfig(cfg Config) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if old := w.current.Load(); old.sink != nil {
		old.sink.Shutdown()
		// Shutdown may give up early under a ShutdownTimeout; the next sink
		// must not start appending while this one still drains.
		<-old.sink.Done()
	}
	w.current.Store(w.build(cfg))
	w.diag.Debug().
		Bool("debug", cfg.Debug).
		Bool("save_to_file", cfg.SaveToFile).
		Str("file_path", cfg.FilePath).
		Msg("logx configuration applied")
}

// Flush waits until everything submitted so far has been written.
func (w *Writer) Flush() {
	if s := w.Sink(); s != nil {
		s.Flush()
	}
}

// Shutdown drains and stops the file sink. Console output continues. Calling
// it again is a no-op.
func (w *Writer) Shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed.Store(true)
	p := w.current.Load()
	if p.sink == nil {
		return
	}
	w.current.Store(&pipeline{cfg: p.cfg})
	p.sink.Shutdown()
}

// Recover is the crash hook. Deferred at a goroutine root it records the
// panic, drains the file sink, and re-panics.
func (w *Writer) Recover() {
	if r := recover(); r != nil {
		w.crash(r)
	}
}

func (w *Writer) crash(r any) {
	p := w.current.Load()
	if p.cfg.Emits(ERROR) {
		w.dispatch(p, Record{
			Level:   ERROR,
			Tag:     crashTag,
			Message: fmt.Sprintf("panic: %v\n%s", r, debug.Stack()),
			Time:    time.Now(),
		})
	}
	w.Shutdown()
	panic(r)
}

const crashTag = "CRASH"

// Emit is the single entry point: gate by level, filter, format, then write
// to the console and, when persistence is on, queue for the file sink.
func (w *Writer) Emit(level Level, tag, message string, caller Caller) {
	p := w.current.Load()
	if !p.cfg.Emits(level) {
		return
	}
	if !ShouldEmit(tag, caller.Source, p.cfg) {
		return
	}
	rec := Record{
		Level:     level,
		Tag:       tag,
		Message:   message,
		StackInfo: caller.StackInfo,
		Source:    caller.Source,
		Parent:    caller.Parent,
		Time:      time.Now(),
	}
	if level == THREAD {
		rec.Thread = goroutineID()
	}
	w.dispatch(p, rec)
}

func (w *Writer) dispatch(p *pipeline, rec Record) {
	defer func() {
		if r := recover(); r != nil {
			w.diag.Error().
				Interface("panic", r).
				Str("tag", rec.Tag).
				Stringer("level", rec.Level).
				Msg("log record dropped")
		}
	}()

	switch rec.Level {
	case JSON:
		body := rec
		rec.Message = jsonStartMarker
		w.formatAndWrite(p, rec)
		w.formatAndWrite(p, body)
		rec.Message = jsonEndMarker
		w.formatAndWrite(p, rec)
		return
	case PARENT:
		if e, ok := FormatParentLine(rec, p.cfg); ok {
			w.write(p, e)
		}
	}
	w.formatAndWrite(p, rec)
}

func (w *Writer) formatAndWrite(p *pipeline, rec Record) {
	if e, ok := formatterFor(rec.Level).Format(rec, p.cfg); ok {
		w.write(p, e)
	}
}

func (w *Writer) write(p *pipeline, e Entry) {
	w.console.Write(e)
	if p.sink != nil {
		p.sink.Submit(e)
	}
}

func (w *Writer) Verbose(tag, msg string) { w.Emit(VERBOSE, tag, msg, w.callers()) }
func (w *Writer) Debug(tag, msg string)   { w.Emit(DEBUG, tag, msg, w.callers()) }
func (w *Writer) Info(tag, msg string)    { w.Emit(INFO, tag, msg, w.callers()) }
func (w *Writer) Warn(tag, msg string)    { w.Emit(WARN, tag, msg, w.callers()) }
func (w *Writer) Error(tag, msg string)   { w.Emit(ERROR, tag, msg, w.callers()) }
func (w *Writer) JSON(tag, doc string)    { w.Emit(JSON, tag, doc, w.callers()) }
func (w *Writer) Thread(tag, msg string)  { w.Emit(THREAD, tag, msg, w.callers()) }
func (w *Writer) Parent(tag, msg string)  { w.Emit(PARENT, tag, msg, w.callers()) }

// goroutineID reads the current goroutine number from the stack header
// "goroutine 42 [running]:".
func goroutineID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	if _, err := strconv.ParseUint(string(b), 10, 64); err != nil {
		return "?"
	}
	return string(b)
}

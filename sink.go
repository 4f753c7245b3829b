package logx

import (
	"bytes"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// SinkState is the lifecycle position of a FileSink.
type SinkState int32

const (
	SinkRunning SinkState = iota
	SinkDraining
	SinkStopped
)

func (s SinkState) String() string {
	switch s {
	case SinkRunning:
		return "running"
	case SinkDraining:
		return "draining"
	case SinkStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SinkOptions tunes a FileSink. Zero values select the defaults.
type SinkOptions struct {
	// QueueCapacity bounds the number of queued entries; Submit drops beyond it.
	QueueCapacity int
	// BatchSize caps the entries written per file operation.
	BatchSize int
	// FlushInterval switches on buffering: entries are held until BatchSize
	// is reached or the interval elapses. Zero writes every batch as soon as
	// it is collected.
	FlushInterval time.Duration
	// ShutdownTimeout bounds how long Shutdown waits for the drain; the
	// consumer keeps draining afterwards. Zero waits
	// until it is done.
	ShutdownTimeout time.Duration
}

func (o SinkOptions) withDefaults() SinkOptions {
	if o.QueueCapacity < 1 {
		o.QueueCapacity = DefaultQueueCapacity
	}
	if o.BatchSize < 1 {
		o.BatchSize = DefaultBatchSize
	}
	if o.FlushInterval < 0 {
		o.FlushInterval = 0
	}
	return o
}

// FileSink appends entries to day-partitioned files from a single consumer
// goroutine. Submit never blocks; when the queue is full the entry is dropped
// and counted.
type FileSink struct {
	id   string
	dir  string
	opts SinkOptions
	diag zerolog.Logger

	queue    chan Entry
	flushReq chan chan struct{}
	quit     chan struct{}
	done     chan struct{}

	state   atomic.Int32
	dropped atomic.Uint64
	written atomic.Uint64
	drains  atomic.Int32
	// Submit calls between their state check and their send
	inflight atomic.Int32

	shutdownOnce sync.Once

	// owned by the consumer goroutine
	dirReady bool
	reported uint64
	buf      bytes.Buffer
	appendFn func(path string, data []byte) error
}

// NewFileSink starts a sink writing under dir.
func NewFileSink(dir string, opts SinkOptions, diag zerolog.Logger) *FileSink {
	s := newFileSink(dir, opts, diag, appendPartition)
	go s.run()
	return s
}

func newFileSink(dir string, opts SinkOptions, diag zerolog.Logger, appendFn func(string, []byte) error) *FileSink {
	opts = opts.withDefaults()
	id := uuid.NewString()
	return &FileSink{
		id:       id,
		dir:      dir,
		opts:     opts,
		diag:     diag.With().Str("component", "logx.filesink").Str("sink_id", id).Logger(),
		queue:    make(chan Entry, opts.QueueCapacity),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		appendFn: appendFn,
	}
}

// ID identifies the sink in diagnostics.
func (s *FileSink) ID() string { return s.id }

// Dir is the directory partitions are written to.
func (s *FileSink) Dir() string { return s.dir }

// State reports the lifecycle state.
func (s *FileSink) State() SinkState { return SinkState(s.state.Load()) }

// Dropped is the number of entries rejected by Submit.
func (s *FileSink) Dropped() uint64 { return s.dropped.Load() }

// Written is the number of entries successfully appended to a partition.
func (s *FileSink) Written() uint64 { return s.written.Load() }

// Submit enqueues e without blocking and reports whether it was accepted.
func (s *FileSink) Submit(e Entry) bool {
	s.inflight.Inc()
	defer s.inflight.Dec()

	if SinkState(s.state.Load()) != SinkRunning {
		s.dropped.Inc()
		return false
	}
	select {
	case s.queue <- e:
		return true
	default:
		s.dropped.Inc()
		return false
	}
}

// Flush asks the consumer to write everything queued or buffered so far and
// waits until it has. It returns at once on a sink that is no longer running.
func (s *FileSink) Flush() {
	if SinkState(s.state.Load()) != SinkRunning {
		return
	}
	ack := make(chan struct{})
	select {
	case s.flushReq <- ack:
	case <-s.done:
		return
	}
	select {
	case <-ack:
	case <-s.done:
	}
}

// Shutdown stops intake, writes out every resident entry and waits for the
// consumer to exit. Only the first call starts the drain; later calls wait
// for the same completion.
func (s *FileSink) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.state.Store(int32(SinkDraining))
		// a Submit that saw Running finishes its send before the final drain
		for s.inflight.Load() > 0 {
			runtime.Gosched()
		}
		close(s.quit)
	})

	if s.opts.ShutdownTimeout <= 0 {
		<-s.done
		return
	}
	timer := time.NewTimer(s.opts.ShutdownTimeout)
	defer timer.Stop()
	select {
	case <-s.done:
	case <-timer.C:
		s.diag.Warn().
			Dur("timeout", s.opts.ShutdownTimeout).
			Int("queued", len(s.queue)).
			Msg("file sink drain did not finish before the shutdown timeout")
	}
}

// Done is closed once the consumer has exited.
func (s *FileSink) Done() <-chan struct{} { return s.done }

func (s *FileSink) run() {
	defer close(s.done)
	defer s.state.Store(int32(SinkStopped))

	var tick <-chan time.Time
	if s.opts.FlushInterval > 0 {
		t := time.NewTicker(s.opts.FlushInterval)
		defer t.Stop()
		tick = t.C
	}

	pending := make([]Entry, 0, s.opts.BatchSize)
	for {
		select {
		case e := <-s.queue:
			pending = s.gather(append(pending, e))
			if tick == nil || len(pending) >= s.opts.BatchSize {
				pending = s.write(pending)
			}
		case <-tick:
			pending = s.write(pending)
		case ack := <-s.flushReq:
			pending = s.drain(s.write(pending), len(s.queue))
			close(ack)
		case <-s.quit:
			s.drains.Inc()
			s.drain(s.write(pending), -1)
			s.reportDrops()
			return
		}
	}
}

// gather tops batch up from the queue without blocking.
func (s *FileSink) gather(batch []Entry) []Entry {
	for len(batch) < s.opts.BatchSize {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}

// drain writes up to limit queued entries in batches; a negative limit
// empties the queue.
func (s *FileSink) drain(batch []Entry, limit int) []Entry {
	for limit != 0 {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			limit--
		default:
			return s.write(batch)
		}
		if len(batch) >= s.opts.BatchSize {
			batch = s.write(batch)
		}
	}
	return s.write(batch)
}

// write appends batch to its partitions and returns the emptied slice. Runs
// of consecutive entries sharing a day go out in one file operation.
func (s *FileSink) write(batch []Entry) []Entry {
	if len(batch) == 0 {
		return batch
	}
	s.reportDrops()

	if !s.dirReady {
		if err := ensureDir(s.dir); err != nil {
			withErrorChain(s.diag.Error(), err).
				Str("dir", s.dir).
				Int("discarded", len(batch)).
				Msg("log batch discarded")
			return resetBatch(batch)
		}
		s.dirReady = true
	}

	for start := 0; start < len(batch); {
		name := PartitionName(batch[start].Time)
		end := start + 1
		for end < len(batch) && PartitionName(batch[end].Time) == name {
			end++
		}

		s.buf.Reset()
		for _, e := range batch[start:end] {
			appendLine(&s.buf, e)
		}
		path := filepath.Join(s.dir, name)
		if err := s.appendFn(path, s.buf.Bytes()); err != nil {
			withErrorChain(s.diag.Error(), err).
				Str("file", path).
				Int("discarded", end-start).
				Msg("log batch discarded")
			// the directory may have been removed underneath us
			s.dirReady = false
		} else {
			s.written.Add(uint64(end - start))
		}
		start = end
	}
	return resetBatch(batch)
}

func (s *FileSink) reportDrops() {
	total := s.dropped.Load()
	if total <= s.reported {
		return
	}
	s.diag.Warn().
		Uint64("dropped", total-s.reported).
		Uint64("total_dropped", total).
		Msg("log entries were dropped")
	s.reported = total
}

func resetBatch(batch []Entry) []Entry {
	clear(batch)
	return batch[:0]
}

package logx

import (
	"bufio"
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recordingConsole collects entries written to the console sink.
type recordingConsole struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *recordingConsole) Write(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *recordingConsole) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *recordingConsole) Messages() []string {
	var out []string
	for _, e := range c.Entries() {
		out = append(out, e.Message)
	}
	return out
}

// syncBuffer is a bytes.Buffer safe for the consumer goroutine to write while
// a test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newDiag() (zerolog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return zerolog.New(buf).Level(zerolog.TraceLevel), buf
}

// readLines returns the lines of a partition file, without trailing newlines.
func readLines(t testing.TB, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func fileConfig(dir string) Config {
	return DefaultConfig().
		WithAppName("test").
		WithSaveToFile(true).
		WithFilePath(dir)
}

func newTestWriter(t testing.TB, cfg Config, sink SinkOptions) (*Writer, *recordingConsole, *syncBuffer) {
	t.Helper()
	console := &recordingConsole{}
	diag, buf := newDiag()
	w := NewWriter(cfg, WriterOptions{
		Console:     console,
		Diagnostics: &diag,
		Sink:        sink,
	})
	t.Cleanup(w.Shutdown)
	return w, console, buf
}

func newNop() zerolog.Logger { return zerolog.Nop() }

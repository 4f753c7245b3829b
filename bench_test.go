package logx

import (
	"strconv"
	"testing"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

func newBenchWriter(b *testing.B, cfg Config, opts SinkOptions) *Writer {
	w := NewWriter(cfg, WriterOptions{
		Console: ConsoleSinkFunc(func(Entry) {}),
		Sink:    opts,
	})
	b.Cleanup(w.Shutdown)
	return w
}

func makeDetailedChain(depth int) error {
	if depth <= 0 {
		return nil
	}
	err := smerrors.New(smerrors.Op("op_0")).Msg("root cause message")
	for i := 1; i < depth; i++ {
		op := "op_" + strconv.Itoa(i)
		err = smerrors.New(smerrors.Op(op)).Err(err).Msg("wrapped message")
	}
	return err
}

func BenchmarkSubmit(b *testing.B) {
	s := NewFileSink(b.TempDir(), SinkOptions{QueueCapacity: 4096, BatchSize: 256}, zerolog.Nop())
	b.Cleanup(s.Shutdown)
	e := Entry{Level: INFO, Tag: "Bench", Message: "hello", Time: time.Now()}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Submit(e)
	}
}

func BenchmarkEmit_ConsoleOnly(b *testing.B) {
	w := newBenchWriter(b, DefaultConfig(), SinkOptions{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Emit(INFO, "Bench", "hello", Caller{})
	}
}

func BenchmarkEmit_Filtered(b *testing.B) {
	w := newBenchWriter(b, DefaultConfig().WithFilterEnabled(true).WithAllowList("Other"), SinkOptions{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Emit(INFO, "Bench", "hello", Caller{Source: "bench"})
	}
}

func BenchmarkParallel_EmitToFile(b *testing.B) {
	cfg := DefaultConfig().WithSaveToFile(true).WithFilePath(b.TempDir())
	w := newBenchWriter(b, cfg, SinkOptions{QueueCapacity: 8192, BatchSize: 256})
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			w.Emit(INFO, "Bench", "hello", Caller{})
		}
	})
}

func BenchmarkPrettyJSON(b *testing.B) {
	doc := `{"id":42,"name":"station","bands":["20m","40m","80m"],"rig":{"model":"IC-7300","power":100}}`
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = PrettyJSON(doc)
	}
}

func BenchmarkWithErrorChain_Detailed6(b *testing.B) {
	logger := zerolog.New(discard{})
	err := makeDetailedChain(6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		withErrorChain(logger.Error(), err).Msg("oops")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

package logx

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Service is the process-wide handle: it loads the options, owns the Writer
// and the ConfigStore, and wires the exit hooks. Construct it once at start-up,
// call Initialize, and Close it on the way out.
type Service struct {
	// WorkingDir anchors the diagnostics RelLogFileDir.
	WorkingDir string `di.inject:"WorkingDir"`
	// ConfigFile is an optional JSON options file; Options is used when empty.
	ConfigFile string `di.inject:"LogxConfigFile"`
	Options    *Options
	// WatchConfig reloads ConfigFile whenever it changes on disk.
	WatchConfig bool
	// HandleSignals drains the file sink on SIGINT/SIGTERM before letting the
	// signal terminate the process.
	HandleSignals bool
	// Console replaces the default stderr console sink.
	Console ConsoleSink
	Callers CallerResolver

	mu            sync.Mutex
	isInitialized atomic.Bool
	writer        *Writer
	store         *ConfigStore
	diag          zerolog.Logger
	diagFile      *lumberjack.Logger
	cancel        context.CancelFunc
	wg            sync.WaitGroup

	// raise delivers the signal again once the sink has drained.
	raise func(os.Signal)
}

// NewService returns a service that will read its options from configFile.
func NewService(configFile string) *Service {
	return &Service{ConfigFile: configFile}
}

// Initialize loads and validates the options and starts the pipeline. Calling
// it on an initialized service is a no-op.
func (s *Service) Initialize() error {
	const op smerrors.Op = "logx.Service.Initialize"
	if s == nil {
		return smerrors.New(op).Msg(errMsgNilService)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isInitialized.Load() {
		return nil
	}

	opts, err := s.loadOptions()
	if err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
	}
	cfg, err := opts.Config()
	if err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
	}

	diag, err := s.initializeDiagnostics(opts.Diagnostics)
	if err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
	}
	s.diag = diag

	console := s.Console
	if console == nil {
		console = NewConsoleSink(os.Stderr, opts.ConsoleNoColor)
	}
	s.writer = NewWriter(cfg, WriterOptions{
		Console:     console,
		Diagnostics: &s.diag,
		Sink:        opts.SinkOptions(),
		Callers:     s.Callers,
	})
	s.store = NewConfigStore(cfg, s.writer.ApplyConfig)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.WatchConfig && s.ConfigFile != emptyString {
		watcher, err := s.newConfigWatcher()
		if err != nil {
			cancel()
			s.writer.Shutdown()
			return smerrors.New(op).Err(err).Msg(errMsgWatchConfig)
		}
		s.wg.Add(1)
		go s.watchConfig(ctx, watcher)
	}

	if s.HandleSignals {
		// registered before Initialize returns
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		s.wg.Add(1)
		go s.handleSignals(ctx, ch)
	}

	s.isInitialized.Store(true)
	return nil
}

func (s *Service) loadOptions() (*Options, error) {
	if s.ConfigFile != emptyString {
		return LoadOptions(s.ConfigFile)
	}
	opts := s.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Close stops the background goroutines, drains the file sink and releases the
// diagnostics file. It is safe to call Close multiple times.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInitialized.Load() {
		return nil
	}
	s.isInitialized.Store(false)

	s.cancel()
	s.wg.Wait()
	s.writer.Shutdown()

	if s.diagFile != nil {
		if err := s.diagFile.Close(); err != nil {
			return err
		}
		s.diagFile = nil
	}
	return nil
}

// Writer returns the pipeline, or nil before Initialize.
func (s *Service) Writer() *Writer {
	if s == nil || !s.isInitialized.Load() {
		return nil
	}
	return s.writer
}

// Store returns the configuration store, or nil before Initialize.
func (s *Service) Store() *ConfigStore {
	if s == nil || !s.isInitialized.Load() {
		return nil
	}
	return s.store
}

// Recover is the crash hook for goroutine roots: defer svc.Recover().
func (s *Service) Recover() {
	if r := recover(); r != nil {
		if s != nil && s.writer != nil {
			s.writer.crash(r)
		} else {
			panic(r)
		}
	}
}

func (s *Service) handleSignals(ctx context.Context, ch chan os.Signal) {
	defer s.wg.Done()
	defer signal.Stop(ch)

	select {
	case <-ctx.Done():
		return
	case sig := <-ch:
		s.diag.Info().Stringer("signal", sig).Msg("draining log files before exit")
		s.writer.Shutdown()
		signal.Stop(ch)
		raise := s.raise
		if raise == nil {
			raise = reraise
		}
		raise(sig)
	}
}

// reraise sends sig to the process again with default handling restored, so
// the exit status reflects the signal.
func reraise(sig os.Signal) {
	if p, err := os.FindProcess(os.Getpid()); err == nil && p.Signal(sig) == nil {
		return
	}
	os.Exit(1)
}

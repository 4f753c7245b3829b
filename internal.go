package logx

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Station-Manager/types"
	"github.com/Station-Manager/utils"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// diagnosticsFileName is "<executable>.log", or "logx.log" when the
// executable name cannot be determined.
func diagnosticsFileName() string {
	exeName, err := utils.ExecName(true)
	if err != nil || exeName == emptyString {
		exeName = ServiceName
	}
	return exeName + ".log"
}

func (s *Service) initializeRollingFileLogger(cfg types.LoggingConfig) *lumberjack.Logger {
	path := filepath.Join(s.WorkingDir, cfg.RelLogFileDir, diagnosticsFileName())

	return &lumberjack.Logger{
		Filename:   path,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAge:     cfg.LogFileMaxAgeDays,
		MaxSize:    cfg.LogFileMaxSizeMB,
		Compress:   cfg.LogFileCompress,
	}
}

func (s *Service) initializeWriters(cfg types.LoggingConfig) []io.Writer {
	var writers []io.Writer

	if cfg.FileLogging {
		s.diagFile = s.initializeRollingFileLogger(cfg)
		writers = append(writers, s.diagFile)
	}
	if cfg.ConsoleLogging {
		cw := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg.ConsoleNoColor}
		if cfg.ConsoleTimeFormat != emptyString {
			cw.TimeFormat = cfg.ConsoleTimeFormat
		} else {
			cw.TimeFormat = time.TimeOnly
		}
		writers = append(writers, cw)
	}

	return writers
}

// initializeDiagnostics builds the logger the pipeline reports its own
// failures to. With no outputs configured it is a no-op logger.
func (s *Service) initializeDiagnostics(cfg types.LoggingConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	writers := s.initializeWriters(cfg)
	if len(writers) == 0 {
		return zerolog.Nop(), nil
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Str("service", ServiceName)
	if cfg.WithTimestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger(), nil
}

// parseLevel parses a diagnostics level name; an empty name means warn.
func parseLevel(level string) (zerolog.Level, error) {
	if level == emptyString {
		return zerolog.WarnLevel, nil
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

package logx

import (
	"os"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/Station-Manager/types"
	"github.com/goccy/go-json"
)

// Options is the on-disk form of the configuration, as read from a JSON file.
type Options struct {
	Debug           bool     `json:"debug"`
	FilterEnabled   bool     `json:"filter_enabled"`
	FilterAllowList []string `json:"filter_allow_list" validate:"dive,required"`
	SaveToFile      bool     `json:"save_to_file"`
	FilePath        string   `json:"file_path" validate:"required_if=SaveToFile true"`
	AppName         string   `json:"app_name" validate:"required"`
	Levels          []string `json:"levels"`

	QueueCapacity     int `json:"queue_capacity" validate:"gte=1"`
	BatchSize         int `json:"batch_size" validate:"gte=1,ltefield=QueueCapacity"`
	FlushIntervalMS   int `json:"flush_interval_ms" validate:"gte=0"`
	ShutdownTimeoutMS int `json:"shutdown_timeout_ms" validate:"gte=0"`

	ConsoleNoColor bool `json:"console_no_color"`
	// Diagnostics configures where the pipeline reports its own failures: the
	// stderr console, a rolling file under RelLogFileDir, or both.
	Diagnostics types.LoggingConfig `json:"diagnostics"`
}

// DefaultOptions mirrors DefaultConfig plus the sink and diagnostics defaults.
func DefaultOptions() *Options {
	levels := make([]string, 0, levelCount)
	for _, l := range AllLevels.Levels() {
		levels = append(levels, toString[l])
	}
	return &Options{
		Debug:         true,
		AppName:       DefaultAppName,
		Levels:        levels,
		QueueCapacity: DefaultQueueCapacity,
		BatchSize:     DefaultBatchSize,
		Diagnostics: types.LoggingConfig{
			Level:             "warn",
			WithTimestamp:     true,
			ConsoleLogging:    true,
			RelLogFileDir:     "logs",
			LogFileMaxBackups: 3,
			LogFileMaxAgeDays: 7,
			LogFileMaxSizeMB:  10,
		},
	}
}

// LoadOptions reads a JSON options file. Keys missing from the file keep
// their default values.
func LoadOptions(path string) (*Options, error) {
	const op smerrors.Op = "logx.LoadOptions"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, smerrors.New(op).Err(err).Msg(errMsgReadConfigFile)
	}
	opts := DefaultOptions()
	if err = json.Unmarshal(data, opts); err != nil {
		return nil, smerrors.New(op).Err(err).Msg(errMsgParseConfigFile)
	}
	if err = validateOptions(opts); err != nil {
		return nil, smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
	}
	return opts, nil
}

// Config converts the options into a Config snapshot.
func (o *Options) Config() (Config, error) {
	const op smerrors.Op = "logx.Options.Config"
	if o == nil {
		return Config{}, smerrors.New(op).Msg(errMsgNilOptions)
	}
	var levels LevelSet
	for _, name := range o.Levels {
		l, err := ParseLevel(name)
		if err != nil {
			return Config{}, smerrors.New(op).Err(err).Msg(errMsgOptionsInvalid)
		}
		levels = levels.With(l)
	}
	return Config{
		Debug:           o.Debug,
		FilterEnabled:   o.FilterEnabled,
		FilterAllowList: NewTagSet(o.FilterAllowList...),
		SaveToFile:      o.SaveToFile,
		FilePath:        o.FilePath,
		AppName:         o.AppName,
		Levels:          levels,
	}, nil
}

// SinkOptions extracts the file sink tuning.
func (o *Options) SinkOptions() SinkOptions {
	if o == nil {
		return SinkOptions{}
	}
	return SinkOptions{
		QueueCapacity:   o.QueueCapacity,
		BatchSize:       o.BatchSize,
		FlushInterval:   time.Duration(o.FlushIntervalMS) * time.Millisecond,
		ShutdownTimeout: time.Duration(o.ShutdownTimeoutMS) * time.Millisecond,
	}
}

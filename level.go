package logx

import (
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Level is the kind of a log record. Besides the usual severities it carries
// the special kinds JSON, THREAD and PARENT, each handled by its own formatter.
type Level uint8

const (
	VERBOSE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	JSON
	THREAD
	PARENT

	levelCount
)

var toString = [levelCount]string{
	VERBOSE: "VERBOSE",
	DEBUG:   "DEBUG",
	INFO:    "INFO",
	WARN:    "WARN",
	ERROR:   "ERROR",
	JSON:    "JSON",
	THREAD:  "THREAD",
	PARENT:  "PARENT",
}

var toLevel = map[string]Level{
	"verbose": VERBOSE,
	"trace":   VERBOSE,
	"debug":   DEBUG,
	"info":    INFO,
	"warn":    WARN,
	"warning": WARN,
	"error":   ERROR,
	"json":    JSON,
	"thread":  THREAD,
	"t_id":    THREAD,
	"parent":  PARENT,
}

// console tiers; JSON goes out at info, THREAD and PARENT at debug.
var toConsole = [levelCount]zerolog.Level{
	VERBOSE: zerolog.TraceLevel,
	DEBUG:   zerolog.DebugLevel,
	INFO:    zerolog.InfoLevel,
	WARN:    zerolog.WarnLevel,
	ERROR:   zerolog.ErrorLevel,
	JSON:    zerolog.InfoLevel,
	THREAD:  zerolog.DebugLevel,
	PARENT:  zerolog.DebugLevel,
}

func (l Level) valid() bool { return l < levelCount }

// String returns the upper-case label written into log files.
func (l Level) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return toString[l]
}

// ConsoleLevel maps the level onto the zerolog tier used by the console sink.
func (l Level) ConsoleLevel() zerolog.Level {
	if !l.valid() {
		return zerolog.InfoLevel
	}
	return toConsole[l]
}

// MarshalJSON encodes the level by name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(l.String()))
}

// UnmarshalJSON decodes a level name, case-insensitively.
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// ParseLevel parses a level name such as "info" or "WARNING".
func ParseLevel(s string) (Level, error) {
	const op smerrors.Op = "logx.ParseLevel"
	if lvl, ok := toLevel[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl, nil
	}
	return VERBOSE, smerrors.New(op).Errorf("%s %q", errMsgUnknownLevel, s)
}

// LevelSet is a set of levels held as a bitmask, so copying it copies the set.
type LevelSet uint16

// AllLevels contains every level.
const AllLevels LevelSet = 1<<levelCount - 1

// NewLevelSet returns a set holding the given levels.
func NewLevelSet(levels ...Level) LevelSet {
	var s LevelSet
	for _, l := range levels {
		s = s.With(l)
	}
	return s
}

// Has reports whether l is in the set.
func (s LevelSet) Has(l Level) bool {
	return l.valid() && s&(1<<l) != 0
}

// With returns a copy of the set including l.
func (s LevelSet) With(l Level) LevelSet {
	if !l.valid() {
		return s
	}
	return s | 1<<l
}

// Without returns a copy of the set excluding l.
func (s LevelSet) Without(l Level) LevelSet {
	if !l.valid() {
		return s
	}
	return s &^ (1 << l)
}

// Levels lists the members in declaration order.
func (s LevelSet) Levels() []Level {
	out := make([]Level, 0, levelCount)
	for l := VERBOSE; l < levelCount; l++ {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// MarshalJSON encodes the set as a list of level names.
func (s LevelSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, levelCount)
	for _, l := range s.Levels() {
		names = append(names, strings.ToLower(l.String()))
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of level names.
func (s *LevelSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	var set LevelSet
	for _, name := range names {
		lvl, err := ParseLevel(name)
		if err != nil {
			return err
		}
		set = set.With(lvl)
	}
	*s = set
	return nil
}

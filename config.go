package logx

import (
	"sort"

	"github.com/goccy/go-json"
)

// TagSet is a read-only set of tag or source names. The zero value is empty.
type TagSet struct {
	m map[string]struct{}
}

// NewTagSet builds a set from names; blank names are ignored.
func NewTagSet(names ...string) TagSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == emptyString {
			continue
		}
		m[n] = struct{}{}
	}
	return TagSet{m: m}
}

// Contains reports whether name is in the set.
func (t TagSet) Contains(name string) bool {
	_, ok := t.m[name]
	return ok
}

// Len returns the number of names.
func (t TagSet) Len() int { return len(t.m) }

// Names returns the members sorted.
func (t TagSet) Names() []string {
	out := make([]string, 0, len(t.m))
	for n := range t.m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (t TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Names())
}

func (t *TagSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	*t = NewTagSet(names...)
	return nil
}

// Config is an immutable snapshot of the logger configuration. It is passed
// by value; the With* methods return modified copies and never touch the
// receiver.
type Config struct {
	Debug           bool     `json:"debug"`
	FilterEnabled   bool     `json:"filter_enabled"`
	FilterAllowList TagSet   `json:"filter_allow_list"`
	SaveToFile      bool     `json:"save_to_file"`
	FilePath        string   `json:"file_path"`
	AppName         string   `json:"app_name"`
	Levels          LevelSet `json:"levels"`
}

// DefaultConfig has console logging on for every level, no filtering and no
// file persistence.
func DefaultConfig() Config {
	return Config{
		Debug:           true,
		FilterAllowList: NewTagSet(),
		AppName:         DefaultAppName,
		Levels:          AllLevels,
	}
}

func (c Config) WithDebug(on bool) Config {
	c.Debug = on
	return c
}

func (c Config) WithFilterEnabled(on bool) Config {
	c.FilterEnabled = on
	return c
}

// WithAllowList replaces the filter allow-list.
func (c Config) WithAllowList(names ...string) Config {
	c.FilterAllowList = NewTagSet(names...)
	return c
}

func (c Config) WithSaveToFile(on bool) Config {
	c.SaveToFile = on
	return c
}

func (c Config) WithFilePath(path string) Config {
	c.FilePath = path
	return c
}

func (c Config) WithAppName(name string) Config {
	c.AppName = name
	return c
}

func (c Config) WithLevels(levels LevelSet) Config {
	c.Levels = levels
	return c
}

// Emits reports whether records of level l pass the debug switch and the
// level set. Console and file share this gate.
func (c Config) Emits(l Level) bool {
	return c.Debug && c.Levels.Has(l)
}

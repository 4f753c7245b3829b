package logx

import (
	"sync"

	"go.uber.org/atomic"
)

// ConfigStore holds the current Config snapshot. Reads are lock-free; updates
// are serialized and each one is handed to the rebuild function, in order,
// before Update returns.
type ConfigStore struct {
	current atomic.Pointer[Config]
	mu      sync.Mutex
	rebuild func(Config)
}

// NewConfigStore returns a store holding initial. rebuild may be nil.
func NewConfigStore(initial Config, rebuild func(Config)) *ConfigStore {
	s := &ConfigStore{rebuild: rebuild}
	s.current.Store(&initial)
	return s
}

// Current returns the latest snapshot.
func (s *ConfigStore) Current() Config {
	if cfg := s.current.Load(); cfg != nil {
		return *cfg
	}
	return DefaultConfig()
}

// Update swaps in cfg and runs the rebuild function.
func (s *ConfigStore) Update(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap(cfg)
}

// modify applies fn to the current snapshot and stores the result.
func (s *ConfigStore) modify(fn func(Config) Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap(fn(s.Current()))
}

func (s *ConfigStore) swap(cfg Config) {
	s.current.Store(&cfg)
	if s.rebuild != nil {
		s.rebuild(cfg)
	}
}

func (s *ConfigStore) SetDebug(on bool) {
	s.modify(func(c Config) Config { return c.WithDebug(on) })
}

func (s *ConfigStore) SetFilterEnabled(on bool) {
	s.modify(func(c Config) Config { return c.WithFilterEnabled(on) })
}

func (s *ConfigStore) SetAllowList(names ...string) {
	s.modify(func(c Config) Config { return c.WithAllowList(names...) })
}

func (s *ConfigStore) SetSaveToFile(on bool) {
	s.modify(func(c Config) Config { return c.WithSaveToFile(on) })
}

func (s *ConfigStore) SetFilePath(path string) {
	s.modify(func(c Config) Config { return c.WithFilePath(path) })
}

func (s *ConfigStore) SetAppName(name string) {
	s.modify(func(c Config) Config { return c.WithAppName(name) })
}

func (s *ConfigStore) SetLevels(levels LevelSet) {
	s.modify(func(c Config) Config { return c.WithLevels(levels) })
}

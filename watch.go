package logx

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// newConfigWatcher watches the directory holding the options file, so that
// editors replacing the file by rename are still seen.
func (s *Service) newConfigWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = watcher.Add(filepath.Dir(s.ConfigFile)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func (s *Service) watchConfig(ctx context.Context, watcher *fsnotify.Watcher) {
	defer s.wg.Done()
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.ConfigFile)
	s.diag.Debug().Str("file", target).Msg("watching logx config file")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.reloadConfig()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			withErrorChain(s.diag.Error(), err).Msg("error whilst watching logx config file")
		case <-ctx.Done():
			return
		}
	}
}

// reloadConfig re-reads the options file and pushes the result through the
// store. Invalid files are reported and otherwise ignored.
func (s *Service) reloadConfig() {
	opts, err := LoadOptions(s.ConfigFile)
	if err != nil {
		withErrorChain(s.diag.Warn(), err).Str("file", s.ConfigFile).Msg("logx config reload skipped")
		return
	}
	cfg, err := opts.Config()
	if err != nil {
		withErrorChain(s.diag.Warn(), err).Str("file", s.ConfigFile).Msg("logx config reload skipped")
		return
	}
	s.writer.SetSinkOptions(opts.SinkOptions())
	s.store.Update(cfg)
	s.diag.Info().Str("file", s.ConfigFile).Msg("logx config reloaded")
}

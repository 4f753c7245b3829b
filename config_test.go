package logx

import (
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.FilterEnabled)
	assert.Zero(t, cfg.FilterAllowList.Len())
	assert.False(t, cfg.SaveToFile)
	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, AllLevels, cfg.Levels)

	for l := VERBOSE; l < levelCount; l++ {
		assert.True(t, cfg.Emits(l), l.String())
		assert.False(t, cfg.WithDebug(false).Emits(l), l.String())
	}
}

func TestConfig_WithLeavesReceiverUntouched(t *testing.T) {
	base := DefaultConfig().WithAllowList("A")
	changed := base.
		WithDebug(false).
		WithFilterEnabled(true).
		WithAllowList("B", "C").
		WithSaveToFile(true).
		WithFilePath("/var/log/app").
		WithAppName("app").
		WithLevels(NewLevelSet(ERROR))

	assert.Equal(t, DefaultConfig().WithAllowList("A"), base)
	assert.False(t, changed.Debug)
	assert.True(t, changed.FilterEnabled)
	assert.Equal(t, []string{"B", "C"}, changed.FilterAllowList.Names())
	assert.True(t, changed.SaveToFile)
	assert.Equal(t, "/var/log/app", changed.FilePath)
	assert.Equal(t, "app", changed.AppName)
	assert.False(t, changed.Emits(INFO))
}

func TestTagSet(t *testing.T) {
	s := NewTagSet("b", "", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains(""))
	assert.Equal(t, []string{"a", "b"}, s.Names())

	var zero TagSet
	assert.False(t, zero.Contains("a"))
	assert.Empty(t, zero.Names())
}

func TestConfig_JSON(t *testing.T) {
	cfg := DefaultConfig().
		WithFilterEnabled(true).
		WithAllowList("Net").
		WithLevels(NewLevelSet(INFO, JSON))

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"debug": true,
		"filter_enabled": true,
		"filter_allow_list": ["Net"],
		"save_to_file": false,
		"file_path": "",
		"app_name": "logx",
		"levels": ["info", "json"]
	}`, string(data))

	var back Config
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}

func TestConfigStore(t *testing.T) {
	var seen []Config
	store := NewConfigStore(DefaultConfig(), func(c Config) { seen = append(seen, c) })
	assert.Equal(t, DefaultConfig(), store.Current())
	assert.Empty(t, seen)

	store.SetDebug(false)
	store.SetFilterEnabled(true)
	store.SetAllowList("Net", "Disk")
	store.SetSaveToFile(true)
	store.SetFilePath("/tmp/logs")
	store.SetAppName("svc")
	store.SetLevels(NewLevelSet(WARN))

	cur := store.Current()
	assert.False(t, cur.Debug)
	assert.True(t, cur.FilterEnabled)
	assert.Equal(t, []string{"Disk", "Net"}, cur.FilterAllowList.Names())
	assert.True(t, cur.SaveToFile)
	assert.Equal(t, "/tmp/logs", cur.FilePath)
	assert.Equal(t, "svc", cur.AppName)
	assert.Equal(t, NewLevelSet(WARN), cur.Levels)

	// one rebuild per change, each seeing the snapshot it produced
	require.Len(t, seen, 7)
	assert.Equal(t, cur, seen[6])
	assert.False(t, seen[0].FilterEnabled)
	assert.True(t, seen[1].FilterEnabled)

	store.Update(DefaultConfig())
	assert.Equal(t, DefaultConfig(), store.Current())
	assert.Len(t, seen, 8)
}

func TestConfigStore_NilRebuild(t *testing.T) {
	store := NewConfigStore(DefaultConfig(), nil)
	require.NotPanics(t, func() { store.SetAppName("x") })
	assert.Equal(t, "x", store.Current().AppName)
}

func TestConfigStore_NoTornReads(t *testing.T) {
	a := DefaultConfig().WithAppName("a").WithFilePath("/a").WithSaveToFile(true)
	b := DefaultConfig().WithAppName("b").WithFilePath("/b").WithDebug(false)
	store := NewConfigStore(a, nil)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				c := store.Current()
				switch c.AppName {
				case "a":
					assert.Equal(t, "/a", c.FilePath)
					assert.True(t, c.SaveToFile)
					assert.True(t, c.Debug)
				case "b":
					assert.Equal(t, "/b", c.FilePath)
					assert.False(t, c.SaveToFile)
					assert.False(t, c.Debug)
				default:
					t.Errorf("unexpected snapshot %+v", c)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		if i%2 == 0 {
			store.Update(b)
		} else {
			store.Update(a)
		}
	}
	close(stop)
	wg.Wait()
}

func TestConfigStore_SerializesUpdates(t *testing.T) {
	var mu sync.Mutex
	inRebuild := 0
	maxConcurrent := 0
	store := NewConfigStore(DefaultConfig(), func(Config) {
		mu.Lock()
		inRebuild++
		if inRebuild > maxConcurrent {
			maxConcurrent = inRebuild
		}
		mu.Unlock()

		mu.Lock()
		inRebuild--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.SetDebug(i%2 == 0)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, maxConcurrent)
}

package logx

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"verbose": VERBOSE,
		"TRACE":   VERBOSE,
		"debug":   DEBUG,
		" Info ":  INFO,
		"warning": WARN,
		"WARN":    WARN,
		"error":   ERROR,
		"json":    JSON,
		"thread":  THREAD,
		"T_ID":    THREAD,
		"parent":  PARENT,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestLevel_Labels(t *testing.T) {
	assert.Equal(t, "VERBOSE", VERBOSE.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "THREAD", THREAD.String())
	assert.Equal(t, "UNKNOWN", Level(200).String())
}

func TestLevel_ConsoleTiers(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, VERBOSE.ConsoleLevel())
	assert.Equal(t, zerolog.DebugLevel, DEBUG.ConsoleLevel())
	assert.Equal(t, zerolog.InfoLevel, INFO.ConsoleLevel())
	assert.Equal(t, zerolog.WarnLevel, WARN.ConsoleLevel())
	assert.Equal(t, zerolog.ErrorLevel, ERROR.ConsoleLevel())
	assert.Equal(t, zerolog.InfoLevel, JSON.ConsoleLevel())
	assert.Equal(t, zerolog.DebugLevel, THREAD.ConsoleLevel())
	assert.Equal(t, zerolog.DebugLevel, PARENT.ConsoleLevel())
}

func TestLevelSet(t *testing.T) {
	s := NewLevelSet(INFO, ERROR)
	assert.True(t, s.Has(INFO))
	assert.True(t, s.Has(ERROR))
	assert.False(t, s.Has(DEBUG))
	assert.False(t, s.Has(Level(42)))

	s2 := s.With(DEBUG).Without(INFO)
	assert.Equal(t, []Level{DEBUG, ERROR}, s2.Levels())
	// s itself is unchanged
	assert.Equal(t, []Level{INFO, ERROR}, s.Levels())

	for l := VERBOSE; l < levelCount; l++ {
		assert.True(t, AllLevels.Has(l), l.String())
	}
}

func TestLevelSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewLevelSet(WARN, JSON))
	require.NoError(t, err)
	assert.JSONEq(t, `["warn","json"]`, string(data))

	var s LevelSet
	require.NoError(t, json.Unmarshal([]byte(`["ERROR","parent"]`), &s))
	assert.Equal(t, NewLevelSet(ERROR, PARENT), s)

	require.Error(t, json.Unmarshal([]byte(`["nope"]`), &s))
}

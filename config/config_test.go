package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/paystub-extraction/dto"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, DefaultPort, cfg.ServerPort)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, dto.StrategyAuto, cfg.Strategy)
	assert.True(t, cfg.OCREnabled)
	assert.Empty(t, cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := LoadConfig([]string{
		"--mode=stdio",
		"--strategy=regex",
		"--ocr=false",
		"--db.driver=sqlite",
		"--db.dsn=file:history.db",
	})
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, dto.StrategyRegex, cfg.Strategy)
	assert.False(t, cfg.OCREnabled)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file:history.db", cfg.DBDSN)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("PAYSTUB_PORT", "9090")
	t.Setenv("PAYSTUB_STRATEGY", "positional")
	t.Setenv("PAYSTUB_DB_DRIVER", "pgx")
	t.Setenv("PAYSTUB_DB_DSN", "postgres://localhost/paystubs")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, dto.StrategyPositional, cfg.Strategy)
	assert.Equal(t, "pgx", cfg.DBDriver)
}

func TestLoadConfigFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("PAYSTUB_PORT", "9090")

	cfg, err := LoadConfig([]string{"--port=7070"})
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.ServerPort)
}

func TestLoadConfigDebug(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.False(t, cfg.IsDebug())

	t.Setenv("PAYSTUB_LOGLEVEL", "DEBUG")
	cfg, err = LoadConfig(nil)
	require.NoError(t, err)
	assert.True(t, cfg.IsDebug())
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{"--mode=grpc"}},
		{"bad port", []string{"--port=0"}},
		{"unknown strategy", []string{"--strategy=guess"}},
		{"db without dsn", []string{"--db.driver=sqlite"}},
		{"unknown driver", []string{"--db.driver=mysql", "--db.dsn=x"}},
		{"bad log level", []string{"--loglevel=trace"}},
		{"unknown flag", []string{"--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

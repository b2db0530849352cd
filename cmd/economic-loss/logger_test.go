package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/economic-loss/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		logging  config.LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "defaults", logging: config.LoggingConfig{}},
		{name: "console debug", logging: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", logging: config.LoggingConfig{Level: "bogus", Format: "json"}, override: "warn"},
		{name: "invalid level", logging: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "invalid format", logging: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.logging, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "economic-loss.log")

	logger, err := initializeLogger(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

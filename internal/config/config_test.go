package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateKnownStartDay(t *testing.T) {
	got := Rotate("wednesday")
	assert.Equal(t, []string{"wednesday", "thursday", "friday", "saturday", "sunday", "monday", "tuesday"}, got)
}

func TestRotateUnknownStartDayReturnsCanonical(t *testing.T) {
	got := Rotate("someday")
	assert.Equal(t, DaysOfWeek, got)
}

func TestConfigValidateRejectsInvertedLengths(t *testing.T) {
	cfg := Config{MinLength: 10, MaxLength: 4, CalculationTimeoutSeconds: 1, CacheBackend: "memory", WindowWorkers: 1}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfigValidateRejectsUnknownCacheBackend(t *testing.T) {
	cfg := Config{MinLength: 4, MaxLength: 10, CalculationTimeoutSeconds: 1, CacheBackend: "file", WindowWorkers: 1}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfigValidateRejectsNonPositiveWindowWorkers(t *testing.T) {
	cfg := Config{MinLength: 4, MaxLength: 10, CalculationTimeoutSeconds: 1, CacheBackend: "memory", WindowWorkers: 0}
	err := cfg.Validate()
	require.Error(t, err)
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	cfg := Config{MinLength: 4, MaxLength: 10, CalculationTimeoutSeconds: 300, CacheBackend: "memory", WindowWorkers: 4}
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesEnvSpecificDefaults(t *testing.T) {
	cfg, err := Load("production")
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.CalculationTimeoutSeconds)
	assert.True(t, cfg.KillOnError)

	devCfg, err := Load("development")
	require.NoError(t, err)
	assert.Equal(t, 300, devCfg.CalculationTimeoutSeconds)
	assert.False(t, devCfg.KillOnError)
}

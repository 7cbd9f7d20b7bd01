package obslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDoesNotPanicAcrossEnvsAndLevels(t *testing.T) {
	for _, env := range []string{"development", "test", "production", "staging"} {
		for _, level := range []string{"debug", "info", "warn", "error", "not-a-level"} {
			logger := New(env, level)
			assert.NotNil(t, logger)
			logger.Info("smoke test", "env", env, "level", level)
		}
	}
}

func TestDiscardSwallowsOutput(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("should not appear anywhere") })
}

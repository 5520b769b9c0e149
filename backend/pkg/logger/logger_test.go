package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_FallbackBeforeInit(t *testing.T) {
	prev := Logger
	Logger = nil
	defer func() { Logger = prev }()

	assert.NotNil(t, Get())
	assert.NotNil(t, Named("extract"))
}

func TestInit(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	for _, env := range []string{"development", "production"} {
		assert.NoError(t, Init(env))
		assert.NotNil(t, Logger)
		assert.Same(t, Logger, Get())
	}
	Sync()
}

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		type withDefaults struct {
			Addr string `env:"TEST_CFG_ADDR" envDefault:":8080"`
		}

		var cfg withDefaults
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
	})

	t.Run("reads environment", func(t *testing.T) {
		type fromEnv struct {
			Suffix string `env:"TEST_CFG_SUFFIX" envDefault:".example.com"`
		}

		t.Setenv("TEST_CFG_SUFFIX", ".donate.test")

		var cfg fromEnv
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ".donate.test", cfg.Suffix)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cached struct {
			Value string `env:"TEST_CFG_CACHED" envDefault:"first"`
		}

		var first cached
		require.NoError(t, config.Load(&first))

		// A changed environment must not affect the cached type.
		t.Setenv("TEST_CFG_CACHED", "second")

		var again cached
		require.NoError(t, config.Load(&again))
		assert.Equal(t, first.Value, again.Value)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[struct{}](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable errors", func(t *testing.T) {
		type required struct {
			Token string `env:"TEST_CFG_REQUIRED_TOKEN,required"`
		}

		var cfg required
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

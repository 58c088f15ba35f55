package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.RWMutex
	cache  = make(map[string]any)
	envDot sync.Once
)

// Load populates the configuration struct from environment variables,
// loading a .env file first if one exists. Each configuration type is parsed
// once per process; later calls return the cached value so every component
// observes the same configuration.
//
//	type ServerConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	envDot.Do(func() {
		// Missing .env is fine; production sets real environment variables.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	mu.RLock()
	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		mu.RUnlock()
		return nil
	}
	mu.RUnlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(fmt.Errorf("%w: %s", ErrParsingConfig, key), err)
	}

	mu.Lock()
	cache[key] = *v
	mu.Unlock()

	return nil
}

// MustLoad is Load that panics on failure. Configuration errors should
// prevent startup, not surface later as runtime misbehavior.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "BARCARATE_"
	envConfig     = envPrefix + "CONFIG"
	envDotenv     = envPrefix + "DOTENV"
	defaultDotenv = ".env"

	successionKey = "thresholds.succession"
)

// Load builds a Config by layering defaults, a dotenv file, an optional
// YAML file and env vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. dotenv file from BARCARATE_DOTENV, or .env when present; never
//     overrides variables already set
//  3. file (YAML) if BARCARATE_CONFIG is set
//  4. env (prefix BARCARATE_, "__" separates nested keys)
func Load(_ context.Context) (*Config, error) {
	base := New()

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BARCARATE_QUEUE_SIZE -> queue_size, BARCARATE_CACHE__BACKEND -> cache.backend,
	// BARCARATE_THRESHOLDS__SUCCESSION__ST -> thresholds.succession.ST
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		s = strings.ReplaceAll(s, "__", ".")
		if pos, ok := strings.CutPrefix(s, successionKey+"."); ok {
			s = successionKey + "." + strings.ToUpper(pos)
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Position keys are merged by hand so that any spelling of a position
	// replaces its default instead of sitting beside it.
	var succession map[string]int
	if err := k.Unmarshal(successionKey, &succession); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, successionKey, err)
	}
	k.Delete(successionKey)

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := mergeSuccession(&cfg.Thresholds, succession); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotenv() error {
	path := os.Getenv(envDotenv)
	explicit := path != ""
	if !explicit {
		path = defaultDotenv
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RUGBY_CONFIG is set
//  3. env (prefix RUGBY_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RUGBY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RUGBY_ADDR, RUGBY_TRAIN_QUEUE_SIZE, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("RUGBY_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "rugby_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := validateBlend(cfg.League); err != nil {
		return nil, err
	}
	for id, override := range cfg.Leagues {
		if err := validateBlend(merge(cfg.League, override)); err != nil {
			return nil, fmt.Errorf("league %s: %w", id, err)
		}
	}
	return &cfg, nil
}

// validateBlend checks the effective blend weights of a league: both
// non-negative and summing to 1, so a blended probability stays in [0, 1].
func validateBlend(lc LeagueConfig) error {
	if lc.OddsWeight < 0 || lc.ModelWeight < 0 {
		return fmt.Errorf("%w: blend weights must be non-negative", ErrInvalidConfig)
	}
	if math.Abs(lc.ModelWeight+lc.OddsWeight-1) > 1e-6 {
		return fmt.Errorf("%w: blend weights must sum to 1, got %g + %g",
			ErrInvalidConfig, lc.ModelWeight, lc.OddsWeight)
	}
	return nil
}

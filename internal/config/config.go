// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Per-league tunables live in one LeagueConfig record: a defaults block
//   plus per-league overrides keyed by league id. Nothing league-specific is
//   hardcoded elsewhere.
// - External errors are wrapped via this package's error helpers.
package config

import (
	"strconv"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/feature"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/rating"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

// LeagueConfig carries every per-league tunable of the rating and prediction
// pipeline. Zero fields fall back to the deployment defaults.
type LeagueConfig struct {
	// Rating dynamics.
	KFactor        float64 `koanf:"k_factor"`
	BaselineRating float64 `koanf:"baseline_rating"`
	HomeAdvantage  float64 `koanf:"home_advantage"`

	// Feature construction.
	FormWindow    int     `koanf:"form_window"`
	HalfLifeDays  float64 `koanf:"half_life_days"`
	MinHistory    int     `koanf:"min_history"`
	NeutralPoints float64 `koanf:"neutral_points"`

	// Training.
	TrainSplit float64 `koanf:"train_split"`

	// Blending.
	ModelWeight float64 `koanf:"model_weight"`
	OddsWeight  float64 `koanf:"odds_weight"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ArtifactDir is the model registry root. Empty keeps artifacts in
	// process memory.
	ArtifactDir string `koanf:"artifact_dir"`

	// PostgresDSN selects the relational record store. Empty keeps match
	// records in process memory.
	PostgresDSN string `koanf:"postgres_dsn"`

	// TrainQueueSize bounds the retrain trigger queue.
	TrainQueueSize int `koanf:"train_queue_size"`

	// TrainWorkerCount sets the number of training workers.
	TrainWorkerCount int `koanf:"train_worker_count"`

	// PredictTimeoutMS bounds the predict read path.
	PredictTimeoutMS int `koanf:"predict_timeout_ms"`

	// DedupeSize bounds the ingest idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// League holds the default tunables applied to every league.
	League LeagueConfig `koanf:"league"`

	// Leagues overrides tunables per league id (string keys in YAML/env).
	Leagues map[string]LeagueConfig `koanf:"leagues"`
}

// New creates a Config with deployment defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		TrainQueueSize:   1024,
		TrainWorkerCount: 1,
		PredictTimeoutMS: 2000,
		DedupeSize:       100_000,
		League: LeagueConfig{
			KFactor:        rating.DefaultKFactor,
			BaselineRating: rating.DefaultBaseline,
			HomeAdvantage:  rating.DefaultHomeAdvantage,
			FormWindow:     feature.DefaultFormWindow,
			HalfLifeDays:   feature.DefaultHalfLifeDays,
			MinHistory:     feature.DefaultMinHistory,
			NeutralPoints:  feature.DefaultNeutralPoints,
			TrainSplit:     train.DefaultTrainSplit,
			ModelWeight:    0.4,
			OddsWeight:     0.6,
		},
		Leagues: map[string]LeagueConfig{},
	}
}

// ForLeague resolves the effective tunables for one league: the defaults
// block overlaid with that league's overrides, if any.
func (c *Config) ForLeague(leagueID int) LeagueConfig {
	if override, ok := c.Leagues[strconv.Itoa(leagueID)]; ok {
		return merge(c.League, override)
	}
	return c.League
}

// RatingParams converts the league tunables to rating dynamics.
func (lc LeagueConfig) RatingParams() rating.Params {
	return rating.Params{
		Baseline:      lc.BaselineRating,
		KFactor:       lc.KFactor,
		HomeAdvantage: lc.HomeAdvantage,
	}
}

// FeatureParams converts the league tunables to feature construction
// parameters.
func (lc LeagueConfig) FeatureParams() feature.Params {
	return feature.Params{
		Rating:        lc.RatingParams(),
		FormWindow:    lc.FormWindow,
		HalfLifeDays:  lc.HalfLifeDays,
		MinHistory:    lc.MinHistory,
		NeutralPoints: lc.NeutralPoints,
	}
}

// merge fills zero fields of an override from the defaults block.
func merge(base, override LeagueConfig) LeagueConfig {
	out := override
	if out.KFactor == 0 {
		out.KFactor = base.KFactor
	}
	if out.BaselineRating == 0 {
		out.BaselineRating = base.BaselineRating
	}
	if out.HomeAdvantage == 0 {
		out.HomeAdvantage = base.HomeAdvantage
	}
	if out.FormWindow == 0 {
		out.FormWindow = base.FormWindow
	}
	if out.HalfLifeDays == 0 {
		out.HalfLifeDays = base.HalfLifeDays
	}
	if out.MinHistory == 0 {
		out.MinHistory = base.MinHistory
	}
	if out.NeutralPoints == 0 {
		out.NeutralPoints = base.NeutralPoints
	}
	if out.TrainSplit == 0 {
		out.TrainSplit = base.TrainSplit
	}
	if out.ModelWeight == 0 && out.OddsWeight == 0 {
		out.ModelWeight = base.ModelWeight
		out.OddsWeight = base.OddsWeight
	}
	return out
}

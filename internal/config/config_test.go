package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/config"
)

func TestNew(t *testing.T) {
	Convey("Given the deployment defaults", t, func() {
		cfg := config.New()

		Convey("Then the process settings are sensible", func() {
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.TrainWorkerCount, ShouldEqual, 1)
			So(cfg.TrainQueueSize, ShouldBeGreaterThan, 0)
			So(cfg.PredictTimeoutMS, ShouldBeGreaterThan, 0)
		})

		Convey("Then the league defaults match the rating contract", func() {
			So(cfg.League.KFactor, ShouldEqual, 24)
			So(cfg.League.BaselineRating, ShouldEqual, 1500)
			So(cfg.League.HomeAdvantage, ShouldEqual, 50)
			So(cfg.League.FormWindow, ShouldEqual, 5)
			So(cfg.League.HalfLifeDays, ShouldEqual, 200)
			So(cfg.League.MinHistory, ShouldEqual, 10)
			So(cfg.League.ModelWeight, ShouldEqual, 0.4)
			So(cfg.League.OddsWeight, ShouldEqual, 0.6)
		})
	})
}

func TestForLeague(t *testing.T) {
	Convey("Given per-league overrides", t, func() {
		cfg := config.New()
		cfg.Leagues["7"] = config.LeagueConfig{KFactor: 32, HomeAdvantage: 65}

		Convey("When resolving the overridden league", func() {
			lc := cfg.ForLeague(7)

			Convey("Then overridden fields apply and the rest fall back", func() {
				So(lc.KFactor, ShouldEqual, 32)
				So(lc.HomeAdvantage, ShouldEqual, 65)
				So(lc.BaselineRating, ShouldEqual, 1500)
				So(lc.FormWindow, ShouldEqual, 5)
				So(lc.ModelWeight, ShouldEqual, 0.4)
				So(lc.OddsWeight, ShouldEqual, 0.6)
			})
		})

		Convey("When resolving any other league", func() {
			lc := cfg.ForLeague(8)

			Convey("Then the defaults block applies unchanged", func() {
				So(lc, ShouldResemble, cfg.League)
			})
		})

		Convey("When an override rebalances the blend weights", func() {
			cfg.Leagues["9"] = config.LeagueConfig{ModelWeight: 0.7, OddsWeight: 0.3}
			lc := cfg.ForLeague(9)

			Convey("Then the pair is taken together", func() {
				So(lc.ModelWeight, ShouldEqual, 0.7)
				So(lc.OddsWeight, ShouldEqual, 0.3)
			})
		})

		Convey("When converting to domain parameters", func() {
			lc := cfg.ForLeague(7)
			rp := lc.RatingParams()
			fp := lc.FeatureParams()

			Convey("Then the conversions carry every tunable", func() {
				So(rp.KFactor, ShouldEqual, 32)
				So(rp.Baseline, ShouldEqual, 1500)
				So(fp.Rating.HomeAdvantage, ShouldEqual, 65)
				So(fp.FormWindow, ShouldEqual, 5)
				So(fp.MinHistory, ShouldEqual, 10)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the layered config loader", t, func() {
		ctx := context.Background()
		// goconvey re-runs this closure for every leaf, but t.Setenv only
		// restores at test end, so clear branch-local vars between leaves.
		os.Unsetenv("RUGBY_ADDR")
		os.Unsetenv("RUGBY_LOG_LEVEL")

		Convey("When nothing external is set", func() {
			t.Setenv("RUGBY_CONFIG", "")
			cfg, err := config.Load(ctx)

			Convey("Then the defaults load cleanly", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
			})
		})

		Convey("When environment variables override", func() {
			t.Setenv("RUGBY_ADDR", ":8080")
			t.Setenv("RUGBY_LOG_LEVEL", "debug")
			cfg, err := config.Load(ctx)

			Convey("Then env wins over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When a YAML file is supplied", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nartifact_dir: /tmp/artifacts\nleague:\n  k_factor: 28\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			t.Setenv("RUGBY_CONFIG", path)
			cfg, err := config.Load(ctx)

			Convey("Then file values layer over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.ArtifactDir, ShouldEqual, "/tmp/artifacts")
				So(cfg.League.KFactor, ShouldEqual, 28)
				So(cfg.League.BaselineRating, ShouldEqual, 1500)
			})
		})

		Convey("When a file rebalances both blend weights", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "league:\n  model_weight: 0.7\n  odds_weight: 0.3\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			t.Setenv("RUGBY_CONFIG", path)
			cfg, err := config.Load(ctx)

			Convey("Then the pair loads", func() {
				So(err, ShouldBeNil)
				So(cfg.League.ModelWeight, ShouldEqual, 0.7)
				So(cfg.League.OddsWeight, ShouldEqual, 0.3)
			})
		})

		Convey("When a file moves only one blend weight", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "league:\n  model_weight: 0.7\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			t.Setenv("RUGBY_CONFIG", path)
			_, err := config.Load(ctx)

			Convey("Then the unbalanced pair is rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a league override carries an unbalanced pair", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "leagues:\n  \"5\":\n    model_weight: 0.9\n    odds_weight: 0.9\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			t.Setenv("RUGBY_CONFIG", path)
			_, err := config.Load(ctx)

			Convey("Then loading fails naming the league", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the file path is bogus", func() {
			t.Setenv("RUGBY_CONFIG", "/nonexistent/config.yaml")
			_, err := config.Load(ctx)

			Convey("Then loading fails with a load error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/registry"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/feature"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

func artifact(leagueID int, id string) *train.Artifact {
	weights := make([]float64, feature.FieldCount)
	mean := make([]float64, feature.FieldCount)
	std := make([]float64, feature.FieldCount)
	for i := range std {
		std[i] = 1
	}
	return &train.Artifact{
		Metadata: train.Metadata{
			LeagueID:             leagueID,
			ID:                   id,
			TrainedAt:            time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			TrainingRows:         48,
			FeatureSchemaVersion: feature.SchemaVersion,
		},
		Classifier: train.LinearModel{Weights: weights},
		HomeScore:  train.LinearModel{Weights: weights, Bias: 24},
		AwayScore:  train.LinearModel{Weights: weights, Bias: 18},
		Scaler:     train.Scaler{Mean: mean, Std: std},
		ClipBounds: feature.ClipBounds{"home_avg_points": {Lo: 5, Hi: 60}},
	}
}

func TestMemoryRegistry(t *testing.T) {
	Convey("Given an in-memory model registry", t, func() {
		ctx := context.Background()
		reg := registry.NewMemoryRegistry()

		Convey("When no model was ever published", func() {
			_, errActive := reg.Active(ctx, 1)
			_, errVersions := reg.Versions(ctx, 1)

			Convey("Then lookups report not found", func() {
				So(errors.Is(errActive, registry.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errVersions, registry.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a model is published", func() {
			version, err := reg.Publish(ctx, 1, artifact(1, "run-1"))
			So(err, ShouldBeNil)

			Convey("Then it becomes version one and is active", func() {
				So(version, ShouldEqual, 1)
				active, err := reg.Active(ctx, 1)
				So(err, ShouldBeNil)
				So(active.Metadata.ID, ShouldEqual, "run-1")
				So(active.Metadata.Version, ShouldEqual, 1)
			})

			Convey("And a second publish lands", func() {
				version2, err := reg.Publish(ctx, 1, artifact(1, "run-2"))
				So(err, ShouldBeNil)

				Convey("Then the active pointer advances and history is kept", func() {
					So(version2, ShouldEqual, 2)
					active, err := reg.Active(ctx, 1)
					So(err, ShouldBeNil)
					So(active.Metadata.ID, ShouldEqual, "run-2")

					versions, err := reg.Versions(ctx, 1)
					So(err, ShouldBeNil)
					So(versions, ShouldHaveLength, 2)
					So(versions[0].Version, ShouldEqual, 1)
					So(versions[1].Version, ShouldEqual, 2)
				})
			})

			Convey("Then other leagues stay untouched", func() {
				_, err := reg.Active(ctx, 2)
				So(errors.Is(err, registry.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When readers race a publish", func() {
			_, err := reg.Publish(ctx, 1, artifact(1, "run-1"))
			So(err, ShouldBeNil)

			var wg sync.WaitGroup
			ids := make(chan string, 64)
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = reg.Publish(ctx, 1, artifact(1, "run-2"))
			}()
			for i := 0; i < 63; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					a, err := reg.Active(ctx, 1)
					if err == nil {
						ids <- a.Metadata.ID
					}
				}()
			}
			wg.Wait()
			close(ids)

			Convey("Then every reader saw a complete artifact", func() {
				for id := range ids {
					So(id, ShouldBeIn, "run-1", "run-2")
				}
			})
		})
	})
}

func TestFileRegistry(t *testing.T) {
	Convey("Given a file-backed model registry", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		reg, err := registry.NewFileRegistry(root)
		So(err, ShouldBeNil)

		Convey("When no model was ever published", func() {
			_, errActive := reg.Active(ctx, 1)
			_, errVersions := reg.Versions(ctx, 1)

			Convey("Then lookups report not found", func() {
				So(errors.Is(errActive, registry.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errVersions, registry.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When models are published across versions", func() {
			v1, err := reg.Publish(ctx, 1, artifact(1, "run-1"))
			So(err, ShouldBeNil)
			v2, err := reg.Publish(ctx, 1, artifact(1, "run-2"))
			So(err, ShouldBeNil)

			Convey("Then versions are assigned monotonically", func() {
				So(v1, ShouldEqual, 1)
				So(v2, ShouldEqual, 2)
			})

			Convey("Then the active artifact round-trips through disk", func() {
				// A fresh registry over the same root has a cold cache.
				reopened, err := registry.NewFileRegistry(root)
				So(err, ShouldBeNil)

				active, err := reopened.Active(ctx, 1)
				So(err, ShouldBeNil)
				So(active.Metadata.ID, ShouldEqual, "run-2")
				So(active.Metadata.Version, ShouldEqual, 2)
				So(active.HomeScore.Bias, ShouldEqual, 24)
				So(active.ClipBounds["home_avg_points"].Hi, ShouldEqual, 60)

				versions, err := reopened.Versions(ctx, 1)
				So(err, ShouldBeNil)
				So(versions, ShouldHaveLength, 2)
				So(versions[1].ID, ShouldEqual, "run-2")
			})

			Convey("Then old artifact files are retained for rollback", func() {
				reopened, err := registry.NewFileRegistry(root)
				So(err, ShouldBeNil)
				versions, err := reopened.Versions(ctx, 1)
				So(err, ShouldBeNil)
				So(versions[0].ID, ShouldEqual, "run-1")
			})
		})
	})
}

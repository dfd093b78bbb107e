package blend_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/blend"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

func TestNormalizeOdds(t *testing.T) {
	Convey("Given decimal odds for the two outcomes", t, func() {
		Convey("When the market quotes 1.80 home and 2.20 away", func() {
			p, err := blend.NormalizeOdds(1.80, 2.20)

			Convey("Then the overround is removed", func() {
				So(err, ShouldBeNil)
				So(p, ShouldAlmostEqual, 0.55, 0.0001)
			})
		})

		Convey("When both sides are quoted evenly", func() {
			p, err := blend.NormalizeOdds(1.90, 1.90)

			Convey("Then the implied probability is exactly one half", func() {
				So(err, ShouldBeNil)
				So(p, ShouldAlmostEqual, 0.5, 1e-12)
			})
		})

		Convey("When the implied pair is summed", func() {
			pHome, err := blend.NormalizeOdds(1.44, 2.75)
			So(err, ShouldBeNil)
			pAway, err := blend.NormalizeOdds(2.75, 1.44)
			So(err, ShouldBeNil)

			Convey("Then the two probabilities sum to one", func() {
				So(pHome+pAway, ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When the odds are degenerate", func() {
			for _, odds := range [][2]float64{
				{0, 2.0}, {2.0, 0}, {-1.5, 2.0}, {math.NaN(), 2.0}, {2.0, math.Inf(1)},
			} {
				_, err := blend.NormalizeOdds(odds[0], odds[1])

				Convey(fmt.Sprintf("Then they are rejected (%v, %v)", odds[0], odds[1]), func() {
					So(errors.Is(err, blend.ErrInvalidOdds), ShouldBeTrue)
				})
			}
		})
	})
}

func TestProbability(t *testing.T) {
	Convey("Given a model probability to blend", t, func() {
		Convey("When valid odds are supplied", func() {
			p, method := blend.Probability(0.70, &model.Odds{Home: 1.80, Away: 2.20},
				blend.DefaultModelWeight, blend.DefaultOddsWeight)

			Convey("Then the result is the weighted mix tagged hybrid", func() {
				So(method, ShouldEqual, blend.MethodHybrid)
				So(p, ShouldAlmostEqual, 0.4*0.70+0.6*0.55, 0.0001)
			})
		})

		Convey("When no odds are supplied", func() {
			p, method := blend.Probability(0.70, nil,
				blend.DefaultModelWeight, blend.DefaultOddsWeight)

			Convey("Then the model probability passes through unchanged", func() {
				So(method, ShouldEqual, blend.MethodModelOnly)
				So(p, ShouldEqual, 0.70)
			})
		})

		Convey("When the supplied odds are invalid", func() {
			p, method := blend.Probability(0.70, &model.Odds{Home: -1, Away: 2.0},
				blend.DefaultModelWeight, blend.DefaultOddsWeight)

			Convey("Then blending degrades instead of failing", func() {
				So(method, ShouldEqual, blend.MethodModelOnly)
				So(p, ShouldEqual, 0.70)
			})
		})

		Convey("When model and market agree exactly", func() {
			p, method := blend.Probability(0.55, &model.Odds{Home: 1.80, Away: 2.20},
				blend.DefaultModelWeight, blend.DefaultOddsWeight)

			Convey("Then the blend is a fixed point", func() {
				So(method, ShouldEqual, blend.MethodHybrid)
				So(p, ShouldAlmostEqual, 0.55, 0.0001)
			})
		})
	})
}

func TestWinner(t *testing.T) {
	Convey("Given a final probability", t, func() {
		Convey("Then above one half the home side wins", func() {
			So(blend.Winner(0.51, "Crusaders", "Blues"), ShouldEqual, "Crusaders")
		})
		Convey("Then below one half the away side wins", func() {
			So(blend.Winner(0.49, "Crusaders", "Blues"), ShouldEqual, "Blues")
		})
		Convey("Then exactly one half is a draw", func() {
			So(blend.Winner(0.5, "Crusaders", "Blues"), ShouldEqual, "Draw")
		})
	})
}

func TestConfidenceLabel(t *testing.T) {
	Convey("Given confidence scores across the range", t, func() {
		Convey("When the probability is 0.70", func() {
			c := blend.Confidence(0.70)

			Convey("Then the label is moderate", func() {
				So(c, ShouldAlmostEqual, 0.70, 1e-12)
				So(blend.ConfidenceLabel(c), ShouldEqual, "moderate")
			})
		})

		Convey("When the probability is near the extremes", func() {
			Convey("Then both tails score high", func() {
				So(blend.ConfidenceLabel(blend.Confidence(0.92)), ShouldEqual, "high")
				So(blend.ConfidenceLabel(blend.Confidence(0.08)), ShouldEqual, "high")
			})
		})

		Convey("When the probability is near one half", func() {
			Convey("Then the matchup reads as close", func() {
				So(blend.ConfidenceLabel(blend.Confidence(0.55)), ShouldEqual, "close match expected")
				So(blend.ConfidenceLabel(blend.Confidence(0.45)), ShouldEqual, "close match expected")
			})
		})

		Convey("When scores land exactly on the thresholds", func() {
			Convey("Then the boundaries are inclusive upward", func() {
				So(blend.ConfidenceLabel(0.80), ShouldEqual, "high")
				So(blend.ConfidenceLabel(0.65), ShouldEqual, "moderate")
			})
		})

		Convey("When sweeping the whole range", func() {
			Convey("Then every score gets a label", func() {
				for c := 0.5; c <= 1.0; c += 0.01 {
					So(blend.ConfidenceLabel(c), ShouldBeIn, "high", "moderate", "close match expected")
				}
			})
		})
	})
}

func TestIntensityLabel(t *testing.T) {
	Convey("Given predicted margins across the range", t, func() {
		Convey("When the margin is 22 points", func() {
			So(blend.IntensityLabel(22), ShouldEqual, "decisive")
		})

		Convey("When the margin is negative", func() {
			Convey("Then only the magnitude matters", func() {
				So(blend.IntensityLabel(-22), ShouldEqual, "decisive")
				So(blend.IntensityLabel(-1), ShouldEqual, "close")
			})
		})

		Convey("When margins land exactly on the thresholds", func() {
			So(blend.IntensityLabel(2), ShouldEqual, "close")
			So(blend.IntensityLabel(5), ShouldEqual, "competitive")
			So(blend.IntensityLabel(10), ShouldEqual, "moderate advantage")
		})

		Convey("When margins land just past the thresholds", func() {
			So(blend.IntensityLabel(2.1), ShouldEqual, "competitive")
			So(blend.IntensityLabel(5.1), ShouldEqual, "moderate advantage")
			So(blend.IntensityLabel(10.1), ShouldEqual, "decisive")
		})

		Convey("When sweeping the whole range", func() {
			Convey("Then every margin gets a label", func() {
				for m := 0.0; m <= 40.0; m += 0.5 {
					So(blend.IntensityLabel(m), ShouldBeIn,
						"close", "competitive", "moderate advantage", "decisive")
				}
			})
		})
	})
}

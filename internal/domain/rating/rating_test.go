package rating_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/rating"
)

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func completed(date time.Time, home, away string, hs, as int) model.Match {
	return model.Match{
		LeagueID:   1,
		Date:       date,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  hs,
		AwayScore:  as,
		Completed:  true,
	}
}

func TestExpected(t *testing.T) {
	Convey("Given the Elo expectation curve", t, func() {
		Convey("When both ratings are equal with no home advantage", func() {
			So(rating.Expected(1500, 1500, 0), ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("When the home side is 50 points stronger with no bonus", func() {
			exp := rating.Expected(1550, 1500, 0)

			Convey("Then the expectation matches the closed form", func() {
				So(exp, ShouldAlmostEqual, 0.5715, 0.0005)
			})
		})

		Convey("When home advantage is applied", func() {
			Convey("Then it shifts the expectation in the home side's favour", func() {
				So(rating.Expected(1500, 1500, 50), ShouldBeGreaterThan, 0.5)
				So(rating.Expected(1500, 1500, 50), ShouldAlmostEqual, rating.Expected(1550, 1500, 0), 1e-12)
			})
		})

		Convey("When the rating gap grows", func() {
			Convey("Then the expectation is strictly monotonic in the gap", func() {
				prev := 0.0
				for gap := -800.0; gap <= 800.0; gap += 100 {
					e := rating.Expected(1500+gap, 1500, 0)
					So(e, ShouldBeGreaterThan, prev)
					So(e, ShouldBeBetween, 0.0, 1.0)
					prev = e
				}
			})
		})

		Convey("When the matchup is mirrored", func() {
			Convey("Then the two expectations sum to one", func() {
				a := rating.Expected(1620, 1480, 0)
				b := rating.Expected(1480, 1620, 0)
				So(a+b, ShouldAlmostEqual, 1.0, 1e-12)
			})
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given the Elo update rule", t, func() {
		Convey("When a 1550 side beats a 1500 side with K=24 and no bonus", func() {
			exp := rating.Expected(1550, 1500, 0)
			updated := rating.Update(1550, exp, 1.0, 24)

			Convey("Then the winner gains roughly ten points", func() {
				So(updated, ShouldAlmostEqual, 1560.28, 0.05)
			})
		})

		Convey("When the result matches the expectation exactly", func() {
			Convey("Then the rating does not move", func() {
				So(rating.Update(1500, 0.5, 0.5, 24), ShouldAlmostEqual, 1500, 1e-12)
			})
		})

		Convey("When the favourite loses", func() {
			exp := rating.Expected(1700, 1400, 0)

			Convey("Then the drop is larger than the gain for winning", func() {
				loss := 1700 - rating.Update(1700, exp, 0.0, 24)
				gain := rating.Update(1700, exp, 1.0, 24) - 1700
				So(loss, ShouldBeGreaterThan, gain)
			})
		})
	})
}

func TestBook(t *testing.T) {
	Convey("Given a rating book replayed from match history", t, func() {
		params := rating.DefaultParams()

		Convey("When a single match is applied", func() {
			book := rating.NewBook(params, []model.Match{
				completed(day(0), "crusaders", "blues", 30, 20),
			})

			Convey("Then the winner gains what the loser sheds", func() {
				gain := book.Current("crusaders") - params.Baseline
				loss := params.Baseline - book.Current("blues")
				So(gain, ShouldBeGreaterThan, 0)
				So(gain, ShouldAlmostEqual, loss, 1e-9)
			})
		})

		Convey("When matches arrive out of order", func() {
			history := []model.Match{
				completed(day(14), "crusaders", "chiefs", 24, 24),
				completed(day(0), "crusaders", "blues", 30, 20),
				completed(day(7), "blues", "chiefs", 18, 25),
			}
			shuffled := []model.Match{history[2], history[0], history[1]}

			Convey("Then replay is order independent", func() {
				a := rating.NewBook(params, history)
				b := rating.NewBook(params, shuffled)
				for _, team := range []string{"crusaders", "blues", "chiefs"} {
					So(a.Current(team), ShouldAlmostEqual, b.Current(team), 1e-12)
				}
			})
		})

		Convey("When incomplete matches are present", func() {
			fixture := completed(day(3), "crusaders", "blues", 0, 0)
			fixture.Completed = false
			book := rating.NewBook(params, []model.Match{fixture})

			Convey("Then they never move a rating", func() {
				So(book.Current("crusaders"), ShouldEqual, params.Baseline)
				So(book.Current("blues"), ShouldEqual, params.Baseline)
			})
		})

		Convey("When querying as of a date", func() {
			book := rating.NewBook(params, []model.Match{
				completed(day(0), "crusaders", "blues", 30, 20),
				completed(day(7), "crusaders", "blues", 28, 10),
			})

			Convey("Then a match dated on the query date is excluded", func() {
				afterFirst := book.At("crusaders", day(7))
				afterBoth := book.At("crusaders", day(8))
				So(afterFirst, ShouldBeGreaterThan, params.Baseline)
				So(afterBoth, ShouldBeGreaterThan, afterFirst)
			})

			Convey("Then a date before any match yields the baseline", func() {
				So(book.At("crusaders", day(0)), ShouldEqual, params.Baseline)
			})

			Convey("Then an unseen team yields the baseline", func() {
				So(book.At("hurricanes", day(30)), ShouldEqual, params.Baseline)
				So(book.Current("hurricanes"), ShouldEqual, params.Baseline)
			})
		})

		Convey("When a draw is played between unequal sides", func() {
			book := rating.NewBook(params, []model.Match{
				completed(day(0), "crusaders", "blues", 40, 0),
				completed(day(7), "crusaders", "blues", 21, 21),
			})

			Convey("Then the stronger side loses ground on the draw", func() {
				afterWin := book.At("crusaders", day(1))
				afterDraw := book.Current("crusaders")
				So(afterDraw, ShouldBeLessThan, afterWin)
			})
		})
	})
}

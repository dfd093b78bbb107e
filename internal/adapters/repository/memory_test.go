package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/repository"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

func day(n int) time.Time {
	return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
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

func TestMemoryStoreTeams(t *testing.T) {
	Convey("Given an in-memory record store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When a team is upserted", func() {
			err := store.UpsertTeam(ctx, model.Team{ID: "crusaders", LeagueID: 1, Name: "Crusaders"})
			So(err, ShouldBeNil)

			Convey("Then it resolves by name regardless of case", func() {
				for _, name := range []string{"Crusaders", "crusaders", "  CRUSADERS "} {
					team, err := store.ResolveTeam(ctx, 1, name)
					So(err, ShouldBeNil)
					So(team.ID, ShouldEqual, "crusaders")
				}
			})

			Convey("Then it is found by identity", func() {
				team, err := store.TeamByID(ctx, 1, "crusaders")
				So(err, ShouldBeNil)
				So(team.Name, ShouldEqual, "Crusaders")
			})

			Convey("Then resolution never crosses league boundaries", func() {
				_, err := store.ResolveTeam(ctx, 2, "Crusaders")
				So(errors.Is(err, repository.ErrUnknownTeam), ShouldBeTrue)
			})
		})

		Convey("When resolving a name that was never registered", func() {
			_, err := store.ResolveTeam(ctx, 1, "Phantom XV")

			Convey("Then it refuses to guess", func() {
				So(errors.Is(err, repository.ErrUnknownTeam), ShouldBeTrue)
			})
		})

		Convey("When a team is renamed", func() {
			So(store.UpsertTeam(ctx, model.Team{ID: "crusaders", LeagueID: 1, Name: "Crusaders"}), ShouldBeNil)
			So(store.UpsertTeam(ctx, model.Team{ID: "crusaders", LeagueID: 1, Name: "Crusaders RFC"}), ShouldBeNil)

			Convey("Then identity is stable and the new name resolves", func() {
				team, err := store.ResolveTeam(ctx, 1, "Crusaders RFC")
				So(err, ShouldBeNil)
				So(team.ID, ShouldEqual, "crusaders")
				teams, _ := store.Counts(ctx)
				So(teams, ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryStoreMatches(t *testing.T) {
	Convey("Given an in-memory record store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When the same match is added twice", func() {
			m := completed(day(0), "crusaders", "blues", 30, 20)
			first, err := store.AddMatch(ctx, m)
			So(err, ShouldBeNil)
			second, err := store.AddMatch(ctx, m)
			So(err, ShouldBeNil)

			Convey("Then only the first write reports a change", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
			})
		})

		Convey("When a fixture later receives its result", func() {
			fixture := completed(day(0), "crusaders", "blues", 0, 0)
			fixture.Completed = false
			_, err := store.AddMatch(ctx, fixture)
			So(err, ShouldBeNil)

			result := completed(day(0), "crusaders", "blues", 30, 20)
			changed, err := store.AddMatch(ctx, result)
			So(err, ShouldBeNil)

			Convey("Then the upsert reports the change and one record remains", func() {
				So(changed, ShouldBeTrue)
				matches, err := store.CompletedMatches(ctx, 1)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].HomeScore, ShouldEqual, 30)
			})
		})

		Convey("When matches are added out of order", func() {
			So(insert(store, completed(day(14), "crusaders", "chiefs", 22, 17)), ShouldBeNil)
			So(insert(store, completed(day(0), "crusaders", "blues", 30, 20)), ShouldBeNil)
			So(insert(store, completed(day(7), "blues", "chiefs", 18, 25)), ShouldBeNil)

			Convey("Then reads come back chronologically", func() {
				matches, err := store.CompletedMatches(ctx, 1)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 3)
				So(matches[0].Date, ShouldEqual, day(0))
				So(matches[1].Date, ShouldEqual, day(7))
				So(matches[2].Date, ShouldEqual, day(14))
			})

			Convey("Then a bounded read excludes the bound date itself", func() {
				matches, err := store.CompletedBefore(ctx, 1, day(7))
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].Date, ShouldEqual, day(0))
			})

			Convey("Then incomplete fixtures never surface", func() {
				upcoming := completed(day(21), "blues", "crusaders", 0, 0)
				upcoming.Completed = false
				So(insert(store, upcoming), ShouldBeNil)

				matches, err := store.CompletedMatches(ctx, 1)
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 3)
			})
		})

		Convey("When counting records", func() {
			So(store.UpsertTeam(ctx, model.Team{ID: "crusaders", LeagueID: 1, Name: "Crusaders"}), ShouldBeNil)
			So(store.UpsertTeam(ctx, model.Team{ID: "blues", LeagueID: 1, Name: "Blues"}), ShouldBeNil)
			So(insert(store, completed(day(0), "crusaders", "blues", 30, 20)), ShouldBeNil)

			Convey("Then teams and completed matches are tallied", func() {
				teams, matches := store.Counts(ctx)
				So(teams, ShouldEqual, 2)
				So(matches, ShouldEqual, 1)
			})
		})
	})
}

func insert(store *repository.MemoryStore, m model.Match) error {
	_, err := store.AddMatch(context.Background(), m)
	return err
}

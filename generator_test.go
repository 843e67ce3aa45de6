package qsynth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/stat"
)

func newTestGenerator() *Generator {
	gen, err := NewGenerator(DefaultCatalog(), NewConfig())
	So(err, ShouldBeNil)
	return gen
}

func contains(labels []string, v string) bool {
	for _, l := range labels {
		if l == v {
			return true
		}
	}
	return false
}

func TestNewGenerator(t *testing.T) {
	Convey("Given a catalog and a config", t, func() {
		catalog := DefaultCatalog()
		config := NewConfig()

		Convey("It should build from the defaults", func() {
			gen, err := NewGenerator(catalog, config)
			So(err, ShouldBeNil)
			So(gen.Catalog(), ShouldPointTo, catalog)
		})

		Convey("It should reject weights that do not match the catalog", func() {
			config.StateWeights = []float64{0.5, 0.5}
			_, err := NewGenerator(catalog, config)
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})

		Convey("It should reject an empty label set", func() {
			catalog.Titles[GenreHorror] = nil
			_, err := NewGenerator(catalog, config)
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})
	})
}

func TestBatch(t *testing.T) {
	Convey("Given a generator and seed 42", t, func() {
		gen := newTestGenerator()
		catalog := gen.Catalog()
		results := gen.Batch(50, NewSource(42))

		Convey("It should produce 50 well-formed records", func() {
			So(len(results), ShouldEqual, 50)

			for i, r := range results {
				So(r.Err, ShouldBeNil)
				So(r.Index, ShouldEqual, i)

				s := r.Value
				So(catalog.Year.Contains(s.PublishedYear), ShouldBeTrue)
				So(ValidISBN13(s.ISBN), ShouldBeTrue)
				So(s.ISBN[:3], ShouldEqual, "978")
				So(len(s.ID), ShouldEqual, 36)

				g, ok := ParseGenre(s.Genre)
				So(ok, ShouldBeTrue)
				So(contains(catalog.Titles[g], s.Title), ShouldBeTrue)
				So(contains(catalog.Descriptions[g], s.Description), ShouldBeTrue)
				So(contains(catalog.States, s.State), ShouldBeTrue)
				So(contains(catalog.Users, s.CreatorID), ShouldBeTrue)
				So(contains(catalog.Users, s.UpdaterID), ShouldBeTrue)
			}
		})

		Convey("The same seed should reproduce the batch exactly", func() {
			So(gen.Batch(50, NewSource(42)), ShouldResemble, results)
		})

		Convey("A different seed should produce different records", func() {
			other := gen.Batch(50, NewSource(43))

			same := 0
			for i := range results {
				if results[i].Value.ID == other[i].Value.ID {
					same++
				}
			}
			So(same, ShouldEqual, 0)
		})
	})
}

func TestEditors(t *testing.T) {
	Convey("Given the editors circuit", t, func() {
		gen := newTestGenerator()
		src := NewSource(5)

		Convey("The updater should repeat the creator far more often than chance", func() {
			matches := make([]float64, 0, 1000)
			for i := 0; i < 1000; i++ {
				creator, updater, err := gen.Editors(src)
				So(err, ShouldBeNil)
				if creator == updater {
					matches = append(matches, 1)
				} else {
					matches = append(matches, 0)
				}
			}

			// Each of four updater bits flips with sin²(0.45) ≈ 0.19.
			So(stat.Mean(matches, nil), ShouldBeBetween, 0.3, 0.6)
		})

		Convey("Without noise the updater should always be the creator", func() {
			gen.config.UpdaterNoise = 0
			for i := 0; i < 200; i++ {
				creator, updater, err := gen.Editors(src)
				So(err, ShouldBeNil)
				So(updater, ShouldEqual, creator)
			}
		})
	})
}

func TestPeople(t *testing.T) {
	Convey("Given a generator", t, func() {
		gen := newTestGenerator()
		catalog := gen.Catalog()

		Convey("Every person should fall inside the catalog ranges", func() {
			for _, r := range gen.People(200, NewSource(7)) {
				So(r.Err, ShouldBeNil)
				So(catalog.Age.Contains(r.Value.Age), ShouldBeTrue)
				So(catalog.Income.Contains(r.Value.Income), ShouldBeTrue)
				So(contains(catalog.Regions, r.Value.Region), ShouldBeTrue)
			}
		})

		Convey("Mean income should not decrease with age", func() {
			const draws = 3000

			src := NewSource(42)
			previous := 0.0

			for _, age := range []int{18, 35, 50, 65, 80} {
				incomes := make([]float64, 0, draws)
				for i := 0; i < draws; i++ {
					income, err := gen.Income(src, age)
					So(err, ShouldBeNil)
					incomes = append(incomes, float64(income))
				}

				mean := stat.Mean(incomes, nil)
				So(mean, ShouldBeGreaterThanOrEqualTo, previous)
				previous = mean
			}

			So(previous, ShouldEqual, float64(catalog.Income.Hi))
		})
	})
}

func TestDrive(t *testing.T) {
	Convey("Given a batch driver", t, func() {
		Convey("It should stop once the breaker opens", func() {
			calls := 0
			failing := func(RandomSource) (int, error) {
				calls++
				return 0, ErrNumericalInvariant
			}

			breaker := NewBreaker(3)
			err := Drive(context.Background(), 10, NewSource(1), failing, breaker, func(Result[int]) error { return nil })

			So(err, ShouldNotBeNil)
			So(calls, ShouldEqual, 3)
			So(breaker.State(), ShouldEqual, BreakerOpen)
		})

		Convey("It should skip isolated failures and keep going", func() {
			calls := 0
			flaky := func(RandomSource) (int, error) {
				calls++
				if calls%2 == 0 {
					return 0, ErrNumericalInvariant
				}
				return calls, nil
			}

			var got []int
			err := Drive(context.Background(), 10, NewSource(1), flaky, NewBreaker(2), func(r Result[int]) error {
				got = append(got, r.Index)
				return nil
			})

			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{0, 2, 4, 6, 8})
		})

		Convey("It should stop as soon as the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			calls := 0
			counting := func(RandomSource) (int, error) {
				calls++
				if calls == 4 {
					cancel()
				}
				return calls, nil
			}

			written := 0
			err := Drive(ctx, 1000, NewSource(1), counting, NewBreaker(1), func(Result[int]) error {
				written++
				return nil
			})

			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(calls, ShouldEqual, 4)
			So(written, ShouldEqual, 4)
		})

		Convey("It should return the first sink error", func() {
			sinkErr := fmt.Errorf("disk full")
			ok := func(RandomSource) (int, error) { return 1, nil }

			written := 0
			err := Drive(context.Background(), 10, NewSource(1), ok, NewBreaker(1), func(Result[int]) error {
				written++
				if written == 3 {
					return sinkErr
				}
				return nil
			})

			So(err, ShouldEqual, sinkErr)
			So(written, ShouldEqual, 3)
		})
	})
}

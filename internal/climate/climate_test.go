package climate_test

import (
	"errors"
	"testing"
	"time"

	climate "github.com/hobbyloop/skein/internal/climate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLookup_TempFor(t *testing.T) {
	Convey("Given the built-in temperature table", t, func() {
		l := climate.New()

		Convey("When looking up a known location", func() {
			Convey("Then each season returns its table value", func() {
				So(l.TempFor("Sweden (Stockholm)", climate.Winter), ShouldEqual, -3)
				So(l.TempFor("Sweden (Stockholm)", climate.Summer), ShouldEqual, 18)
				So(l.TempFor("Australia (Sydney)", climate.Winter), ShouldEqual, 13)
				So(l.TempFor("Italy (Rome)", climate.Fall), ShouldEqual, 17)
			})
		})

		Convey("When looking up an unknown location", func() {
			Convey("Then the Custom row answers", func() {
				So(l.TempFor("Atlantis", climate.Winter), ShouldEqual, 10)
				So(l.TempFor("Atlantis", climate.Spring), ShouldEqual, 15)
				So(l.Known("Atlantis"), ShouldBeFalse)
			})
		})

		Convey("When listing locations", func() {
			locations := l.Locations()

			Convey("Then the table order is preserved with Custom last", func() {
				So(locations, ShouldHaveLength, 11)
				So(locations[0], ShouldEqual, "Sweden (Stockholm)")
				So(locations[len(locations)-1], ShouldEqual, climate.CustomLocation)
			})
		})
	})
}

func TestLookup_WithLocation(t *testing.T) {
	Convey("Given a lookup with an overridden table", t, func() {
		l := climate.New(
			climate.WithLocation("Norway (Oslo)", climate.SeasonTemps{Winter: -7, Spring: 4, Summer: 16, Fall: 6}),
			climate.WithLocation("UK (London)", climate.SeasonTemps{Winter: 6, Spring: 12, Summer: 19, Fall: 13}),
		)

		Convey("When looking up the new location", func() {
			Convey("Then its row answers", func() {
				So(l.Known("Norway (Oslo)"), ShouldBeTrue)
				So(l.TempFor("Norway (Oslo)", climate.Winter), ShouldEqual, -7)
			})

			Convey("And it lands at the end of the listing", func() {
				locations := l.Locations()
				So(locations[len(locations)-1], ShouldEqual, "Norway (Oslo)")
			})
		})

		Convey("When looking up the overridden location", func() {
			Convey("Then the override wins without duplicating the row", func() {
				So(l.TempFor("UK (London)", climate.Winter), ShouldEqual, 6)
				So(l.Locations(), ShouldHaveLength, 12)
			})
		})
	})
}

func TestSeasonOf(t *testing.T) {
	Convey("Given dates through the year", t, func() {
		cases := []struct {
			month time.Month
			want  climate.Season
		}{
			{time.December, climate.Winter},
			{time.January, climate.Winter},
			{time.February, climate.Winter},
			{time.March, climate.Spring},
			{time.May, climate.Spring},
			{time.June, climate.Summer},
			{time.August, climate.Summer},
			{time.September, climate.Fall},
			{time.November, climate.Fall},
		}

		Convey("When mapping each month to a season", func() {
			for _, c := range cases {
				date := time.Date(2026, c.month, 15, 0, 0, 0, 0, time.UTC)
				So(climate.SeasonOf(date), ShouldEqual, c.want)
			}
		})
	})
}

func TestParseSeason(t *testing.T) {
	Convey("Given season names from user input", t, func() {
		Convey("When the name is recognized", func() {
			for raw, want := range map[string]climate.Season{
				"winter": climate.Winter,
				"SPRING": climate.Spring,
				" summer ": climate.Summer,
				"fall":   climate.Fall,
				"autumn": climate.Fall,
			} {
				s, err := climate.ParseSeason(raw)
				So(err, ShouldBeNil)
				So(s, ShouldEqual, want)
			}
		})

		Convey("When the name is not a season", func() {
			_, err := climate.ParseSeason("monsoon")

			Convey("Then the sentinel error is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, climate.ErrUnknownSeason), ShouldBeTrue)
			})
		})
	})
}

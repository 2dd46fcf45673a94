package synth_test

import (
	"testing"
	"time"

	"github.com/bishnt/portfolio/internal/domain/calendar"
	"github.com/bishnt/portfolio/internal/domain/synth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a fixed reference day", t, func() {
		today := time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC)

		Convey("When generating twice", func() {
			first, firstTotal := synth.Generate(today)
			second, secondTotal := synth.Generate(today)

			Convey("Then the output is identical", func() {
				So(first, ShouldResemble, second)
				So(firstTotal, ShouldEqual, secondTotal)
			})
		})

		Convey("When generating once", func() {
			weeks, total := synth.Generate(today)

			Convey("Then the calendar is a full trailing year", func() {
				So(len(weeks), ShouldBeGreaterThanOrEqualTo, 52)
				for _, w := range weeks {
					So(len(w.Days), ShouldEqual, calendar.DaysPerWeek)
				}
			})

			Convey("And the total matches the summed counts", func() {
				So(total, ShouldEqual, calendar.Total(weeks))
				So(total, ShouldBeGreaterThan, 0)
			})

			Convey("And counts respect the per-day distribution bounds", func() {
				for _, w := range weeks {
					for di, d := range w.Days {
						So(d.Count, ShouldBeGreaterThanOrEqualTo, 0)
						if di == 0 || di == calendar.DaysPerWeek-1 {
							So(d.Count, ShouldBeLessThanOrEqualTo, 2)
						} else {
							So(d.Count, ShouldBeLessThanOrEqualTo, 7)
						}
					}
				}
			})

			Convey("And levels are consistent with counts", func() {
				for _, w := range weeks {
					for _, d := range w.Days {
						So(d.Level, ShouldEqual, calendar.LevelFor(d.Count))
					}
				}
			})

			Convey("And padded future dates stay empty", func() {
				last := "2026-08-26"
				for _, w := range weeks {
					for _, d := range w.Days {
						if d.Date > last {
							So(d.Count, ShouldEqual, 0)
						}
					}
				}
			})
		})

		Convey("When generating for a different day", func() {
			weeks, _ := synth.Generate(today)
			shifted, _ := synth.Generate(today.AddDate(0, 0, -30))

			Convey("Then the windows differ", func() {
				So(weeks[0].Days[0].Date, ShouldNotEqual, shifted[0].Days[0].Date)
			})
		})
	})
}

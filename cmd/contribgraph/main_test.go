package main

import (
	"testing"

	"github.com/bishnt/portfolio/internal/domain/calendar"

	"github.com/smartystreets/goconvey/convey"
)

func TestHelpers(t *testing.T) {
	convey.Convey("Given the grid renderer helpers", t, func() {
		convey.Convey("When mapping levels to cells", func() {
			convey.Convey("Then every level yields a non-empty glyph", func() {
				for level := 0; level <= calendar.MaxLevel; level++ {
					convey.So(cell(level), convey.ShouldNotBeEmpty)
				}
			})
		})

		convey.Convey("When finding the busiest day", func() {
			weeks := []calendar.Week{
				{Days: []calendar.Day{
					{Date: "2026-08-23", Count: 2},
					{Date: "2026-08-24", Count: 9},
					{Date: "2026-08-25", Count: 4},
				}},
			}

			convey.Convey("Then the max-count date is returned", func() {
				date, count := busiestDay(weeks)
				convey.So(date, convey.ShouldEqual, "2026-08-24")
				convey.So(count, convey.ShouldEqual, 9)
			})

			convey.Convey("And empty input yields zero", func() {
				_, count := busiestDay(nil)
				convey.So(count, convey.ShouldEqual, 0)
			})
		})
	})
}

// Package synth generates a deterministic synthetic contribution calendar.
// It is the terminal fallback of the aggregation chain: no I/O, no failure
// modes, and identical output for every call made on the same calendar day,
// so the rendered activity is stable across builds and deployments.
package synth

import (
	"time"

	"github.com/bishnt/portfolio/internal/domain/calendar"
)

// Fixed LCG parameters. The generator is reseeded on every call, which is
// what makes the output stateless and reproducible.
const (
	seed       = 12345
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Activity distribution: weekdays are busier than weekends.
const (
	weekdayActiveChance = 0.7
	weekendActiveChance = 0.3
	weekdayMaxCount     = 7
	weekendMaxCount     = 2
)

// lcg is a tiny linear-congruential generator. math/rand would work, but its
// stream is not guaranteed stable across Go releases; the calendar must be.
type lcg struct {
	state int64
}

func (g *lcg) next() float64 {
	g.state = (g.state*multiplier + increment) % modulus
	return float64(g.state) / modulus
}

// Generate builds the trailing-year calendar ending on today and fills it
// with pseudo-random activity. Dates after today stay at zero.
func Generate(today time.Time) ([]calendar.Week, int) {
	weeks := calendar.Skeleton(today)
	last := today.UTC().Format(calendar.DateLayout)
	g := &lcg{state: seed}

	for wi := range weeks {
		for di := range weeks[wi].Days {
			d := &weeks[wi].Days[di]
			if d.Date > last {
				continue
			}
			d.Count = draw(g, di == 0 || di == calendar.DaysPerWeek-1)
		}
	}

	total := calendar.Finalize(weeks)
	return weeks, total
}

// draw decides a single day's count. Two LCG draws per active day: one for
// the activity gate, one for the magnitude.
func draw(g *lcg, weekend bool) int {
	chance, max := weekdayActiveChance, weekdayMaxCount
	if weekend {
		chance, max = weekendActiveChance, weekendMaxCount
	}
	if g.next() >= chance {
		return 0
	}
	return int(g.next() * float64(max+1))
}

// Package calendar contains the contribution calendar model and the pure
// date math shared by every data source.
package calendar

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DaysPerWeek is the fixed width of a calendar week (Sunday..Saturday).
const DaysPerWeek = 7

// Level bucket thresholds. Level is derived from Count and used only for
// rendering intensity; it is always recomputed locally, never trusted from
// an upstream source.
const (
	levelOneMin   = 1
	levelTwoMin   = 3
	levelThreeMin = 5
	levelFourMin  = 7
	// MaxLevel is the highest rendering intensity.
	MaxLevel = 4
)

// Day is a single calendar date with its attributed contribution count.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Week is an ordered Sunday..Saturday run of exactly 7 days.
type Week struct {
	Days []Day `json:"days"`
}

// Result is the normalized output of the aggregation pipeline.
type Result struct {
	Source string `json:"source"`
	Total  int    `json:"totalContributions"`
	Weeks  []Week `json:"contributions"`
}

// LevelFor buckets a raw count into a 0..4 rendering intensity.
func LevelFor(count int) int {
	switch {
	case count >= levelFourMin:
		return 4
	case count >= levelThreeMin:
		return 3
	case count >= levelTwoMin:
		return 2
	case count >= levelOneMin:
		return 1
	default:
		return 0
	}
}

// midnight truncates t to its UTC date.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Skeleton builds the week-aligned trailing-year scaffold ending on today:
// every date from the Sunday on or before (today - 1 year + 1 day) through
// the Saturday on or after today, all counts zero. Dates after today only
// exist to keep the final week at 7 entries. All date math is in UTC.
func Skeleton(today time.Time) []Week {
	today = midnight(today)

	start := today.AddDate(-1, 0, 0).AddDate(0, 0, 1)
	start = start.AddDate(0, 0, -int(start.Weekday()))
	end := today.AddDate(0, 0, 6-int(today.Weekday()))

	var weeks []Week
	for cur := start; !cur.After(end); {
		days := make([]Day, 0, DaysPerWeek)
		for i := 0; i < DaysPerWeek; i++ {
			days = append(days, Day{Date: cur.Format(DateLayout)})
			cur = cur.AddDate(0, 0, 1)
		}
		weeks = append(weeks, Week{Days: days})
	}
	return weeks
}

// Total sums the day counts across all weeks.
func Total(weeks []Week) int {
	var total int
	for _, w := range weeks {
		for _, d := range w.Days {
			total += d.Count
		}
	}
	return total
}

// Finalize recomputes every day level from its count and returns the summed
// total. Call it whenever counts were produced or modified locally.
func Finalize(weeks []Week) int {
	var total int
	for wi := range weeks {
		for di := range weeks[wi].Days {
			d := &weeks[wi].Days[di]
			d.Level = LevelFor(d.Count)
			total += d.Count
		}
	}
	return total
}

// Builder accumulates per-date counts into a trailing-year skeleton. It is
// used by sources that see raw events rather than pre-aggregated days.
type Builder struct {
	weeks []Week
	index map[string]*Day
}

// NewBuilder creates a builder over the trailing year ending on today.
// Only dates inside [start, today] are indexed, so events on padded future
// dates or outside the window are ignored by Add.
func NewBuilder(today time.Time) *Builder {
	today = midnight(today)
	weeks := Skeleton(today)

	index := make(map[string]*Day, len(weeks)*DaysPerWeek)
	last := today.Format(DateLayout)
	for wi := range weeks {
		for di := range weeks[wi].Days {
			d := &weeks[wi].Days[di]
			if d.Date > last {
				continue
			}
			index[d.Date] = d
		}
	}
	return &Builder{weeks: weeks, index: index}
}

// Add increments the bucket for the event's UTC date. It reports whether the
// date fell inside the calendar window.
func (b *Builder) Add(t time.Time) bool {
	d, ok := b.index[t.UTC().Format(DateLayout)]
	if !ok {
		return false
	}
	d.Count++
	return true
}

// AddCount attributes n contributions to a calendar date that is already
// day-aggregated upstream. Dates outside the window are ignored.
func (b *Builder) AddCount(date string, n int) bool {
	d, ok := b.index[date]
	if !ok || n < 0 {
		return false
	}
	d.Count += n
	return true
}

// Build recomputes levels and returns the finished weeks with their total.
func (b *Builder) Build() ([]Week, int) {
	total := Finalize(b.weeks)
	return b.weeks, total
}

// Streak returns the current streak: the length of the trailing run of days
// with a positive count ending on today. A zero-count today does not break a
// run that ended yesterday, since today may simply have no activity yet.
func Streak(weeks []Week, today time.Time) int {
	counts := make(map[string]int, len(weeks)*DaysPerWeek)
	first := ""
	for _, w := range weeks {
		for _, d := range w.Days {
			if first == "" {
				first = d.Date
			}
			counts[d.Date] = d.Count
		}
	}

	cur := midnight(today)
	if counts[cur.Format(DateLayout)] == 0 {
		cur = cur.AddDate(0, 0, -1)
	}

	var streak int
	for {
		key := cur.Format(DateLayout)
		if key < first || counts[key] == 0 {
			break
		}
		streak++
		cur = cur.AddDate(0, 0, -1)
	}
	return streak
}

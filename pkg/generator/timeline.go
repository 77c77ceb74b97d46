package generator

import (
	"time"

	"github.com/frescopa/demogen/pkg/random"
)

const day = 24 * time.Hour

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// daysBetween is the number of whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

// randomDay returns start plus a uniform whole number of days, never past
// end. It returns start when end is not after it.
func randomDay(rng *random.Source, start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	return addDays(start, rng.IntRange(0, daysBetween(start, end)))
}

// hourBands is the distribution of order hours across the day.
var hourBands = []random.Weighted[[]int]{
	{Value: []int{6, 7, 8, 9, 10, 11}, Weight: 0.25},
	{Value: []int{12, 13, 14, 15, 16, 17}, Weight: 0.35},
	{Value: []int{18, 19, 20, 21}, Weight: 0.30},
	{Value: []int{22, 23, 0, 1, 2, 3, 4, 5}, Weight: 0.10},
}

// stamp puts a realistic time of day on d and clamps the result to now.
func stamp(rng *random.Source, d, now time.Time) time.Time {
	hour := random.Choice(rng, random.Pick(rng, hourBands))
	minute := rng.IntRange(0, 59)
	t := midnight(d).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	if t.After(now) {
		return now
	}
	return t
}

// seasonal shifts an order date: earlier in the Sep-Feb high season with an
// extra holiday pull in Dec-Jan, later in the Jun-Aug low season.
func seasonal(rng *random.Source, d time.Time) time.Time {
	switch month := d.Month(); month {
	case time.September, time.October, time.November, time.December, time.January, time.February:
		if rng.Bernoulli(0.25) {
			d = addDays(d, -rng.IntRange(5, 10))
		}
		if (month == time.December || month == time.January) && rng.Bernoulli(0.15) {
			d = addDays(d, -rng.IntRange(3, 7))
		}
	case time.June, time.July, time.August:
		if rng.Bernoulli(0.20) {
			d = addDays(d, rng.IntRange(5, 15))
		}
	}
	return d
}

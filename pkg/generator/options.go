package generator

import (
	"time"

	"github.com/frescopa/demogen/pkg/model"
)

// WishlistMode selects how wishlist creation dates are anchored.
type WishlistMode string

const (
	// WishlistRecent places every item in the last 180 days.
	WishlistRecent WishlistMode = "recent"
	// WishlistConversion anchors some items shortly before a real purchase
	// of the same product so conversions can be demoed.
	WishlistConversion WishlistMode = "conversion"
)

// Snapshots are the fixed dates stamped on every segment score.
type Snapshots struct {
	Churn time.Time
	NPS   time.Time
	React time.Time
	VIP   time.Time
}

// Options controls a generation run.
type Options struct {
	Seed uint64
	// Now is the reference date. No generated timestamp is later.
	Now              time.Time
	WishlistFraction float64
	WishlistMode     WishlistMode
	ConversionRate   float64
	AbandonedTarget  int
	Snapshots        Snapshots
}

// DefaultOptions returns the options of the reference dataset.
func DefaultOptions() Options {
	return Options{
		Seed:             42,
		Now:              time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		WishlistFraction: 0.15,
		WishlistMode:     WishlistRecent,
		ConversionRate:   0.5,
		AbandonedTarget:  10000,
		Snapshots:        DefaultSnapshots(),
	}
}

// DefaultSnapshots returns the snapshot dates of the reference dataset.
func DefaultSnapshots() Snapshots {
	parse := func(s string) time.Time {
		t, err := time.Parse(model.SnapshotLayout, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	return Snapshots{
		Churn: parse("10/01/2026 09:00:00"),
		NPS:   parse("15/12/2025 10:00:00"),
		React: parse("10/01/2026 10:00:00"),
		VIP:   parse("30/11/2025 12:00:00"),
	}
}

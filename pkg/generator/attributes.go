package generator

import (
	"time"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/random"
)

var segmentDistribution = []random.Weighted[model.Segment]{
	{Value: model.SegmentActiveHigh, Weight: 0.15},
	{Value: model.SegmentActiveMedium, Weight: 0.20},
	{Value: model.SegmentOccasional, Weight: 0.25},
	{Value: model.SegmentOneTime, Weight: 0.15},
	{Value: model.SegmentLapsed, Weight: 0.15},
	{Value: model.SegmentProspect, Weight: 0.10},
}

type dateRange struct{ from, to time.Time }

var acquisitionRanges = map[model.Segment]dateRange{
	model.SegmentLapsed:       {date(2023, 1, 1), date(2024, 6, 30)},
	model.SegmentActiveHigh:   {date(2023, 1, 1), date(2025, 10, 31)},
	model.SegmentActiveMedium: {date(2023, 1, 1), date(2025, 10, 31)},
	model.SegmentProspect:     {date(2025, 10, 15), date(2026, 1, 15)},
	model.SegmentOccasional:   {date(2023, 3, 1), date(2025, 11, 30)},
	model.SegmentOneTime:      {date(2023, 1, 1), date(2025, 12, 31)},
}

var countryDistribution = []random.Weighted[string]{
	{Value: "US", Weight: 0.40},
	{Value: "UK", Weight: 0.25},
	{Value: "FR", Weight: 0.20},
	{Value: "DE", Weight: 0.15},
}

var genderDistribution = []random.Weighted[string]{
	{Value: "M", Weight: 0.48},
	{Value: "F", Weight: 0.48},
	{Value: "Other", Weight: 0.04},
}

var countryLanguage = map[string]string{
	"US": "en",
	"UK": "en",
	"FR": "fr",
	"DE": "de",
}

var machineOwnership = map[model.Segment]float64{
	model.SegmentActiveHigh:   0.95,
	model.SegmentActiveMedium: 0.90,
	model.SegmentOccasional:   0.70,
	model.SegmentOneTime:      0.40,
	model.SegmentLapsed:       0.80,
	model.SegmentProspect:     0,
}

// assignAttributes returns a copy of recipients with the derived columns
// filled. Each attribute is drawn in its own pass over all recipients, so
// the draw order is fixed by the seed file order.
func assignAttributes(rng *random.Source, recipients []model.Recipient, now time.Time) []model.Recipient {
	out := append([]model.Recipient(nil), recipients...)
	for i := range out {
		out[i].Segment = random.Pick(rng, segmentDistribution)
	}
	for i := range out {
		r := acquisitionRanges[out[i].Segment]
		acquired := randomDay(rng, r.from, r.to)
		if acquired.After(now) {
			acquired = midnight(now)
		}
		out[i].AcquisitionDate = acquired
	}
	for i := range out {
		out[i].Country = random.Pick(rng, countryDistribution)
		out[i].Language = countryLanguage[out[i].Country]
	}
	for i := range out {
		out[i].Gender = random.Pick(rng, genderDistribution)
	}
	for i := range out {
		out[i].OwnsMachine = rng.Bernoulli(machineOwnership[out[i].Segment])
	}
	return out
}

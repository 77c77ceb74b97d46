package generator

import (
	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/random"
)

var (
	npsLoyal    = []int{8, 9, 9, 9}
	npsRegular  = []int{7, 8, 8, 9}
	npsDefault  = []int{6, 7, 8}
	maxReaction = 10
)

// churnTier maps days since the last purchase to a churn risk of 0 to 3.
func churnTier(days int) int {
	switch {
	case days < 60:
		return 0
	case days < 120:
		return 1
	case days < 180:
		return 2
	default:
		return 3
	}
}

// vipTier maps total spend to a VIP tier of 0 to 4.
func vipTier(spent float64) int {
	switch {
	case spent < 100:
		return 0
	case spent < 500:
		return 1
	case spent < 1500:
		return 2
	case spent < 3000:
		return 3
	default:
		return 4
	}
}

// generateSegments scores every recipient from its purchase history.
func (r *run) generateSegments() {
	snap := r.opts.Snapshots
	r.segments = make([]model.SegmentRecord, 0, len(r.recipients))
	for i, rec := range r.recipients {
		h := r.histories[i]
		seg := model.SegmentRecord{
			Customer:  rec.CRMID,
			ChurnDate: snap.Churn,
			NPSDate:   snap.NPS,
			ReactDate: snap.React,
			VIPDate:   snap.VIP,
		}
		if h.orders > 0 {
			seg.ChurnProp = churnTier(daysBetween(h.last, r.opts.Now))
			seg.VIP = vipTier(h.spent)
			switch {
			case h.orders >= 10:
				seg.NPS = random.Choice(r.rng, npsLoyal)
			case h.orders >= 5:
				seg.NPS = random.Choice(r.rng, npsRegular)
			default:
				seg.NPS = random.Choice(r.rng, npsDefault)
			}
			seg.ReactScore = min(maxReaction, h.orders)
		} else {
			seg.ChurnProp = 0
			seg.VIP = -1
			seg.NPS = random.Choice(r.rng, npsDefault)
			seg.ReactScore = 0
		}
		r.segments = append(r.segments, seg)
	}
}

package generator

import (
	"fmt"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/random"
)

const (
	cartIDMin       = 100000
	cartIDMax       = 999999
	cartRecencyMean = 30.0
	cartMaxAgeDays  = 90
	maxCartsPerUser = 3
)

// MaxAbandonedTarget bounds the abandoned row target so cart ids drawn
// without collision cannot run out.
const MaxAbandonedTarget = (cartIDMax - cartIDMin + 1) / 2

var (
	cartSizes      = []int{1, 1, 2, 3}
	cartQuantities = []int{1, 5, 10, 15, 20}
)

var cartSegments = map[model.Segment]bool{
	model.SegmentActiveHigh:   true,
	model.SegmentActiveMedium: true,
	model.SegmentOccasional:   true,
}

// generateAbandoned fills carts for active recipients, in recipient order,
// until the target row count is reached. Truncation only drops the tail of
// the last cart, so cart lines stay dense.
func (r *run) generateAbandoned() {
	var active []model.Recipient
	for _, rec := range r.recipients {
		if cartSegments[rec.Segment] {
			active = append(active, rec)
		}
	}
	target := r.opts.AbandonedTarget
	if len(active) == 0 || target <= 0 {
		return
	}
	perCustomer := max(1, target/len(active))
	pool := append(append([]string(nil), r.catalog.capsules...), r.catalog.machines...)
	used := make(map[string]bool)

	for _, rec := range active {
		carts := r.rng.IntRange(1, min(perCustomer, maxCartsPerUser))
		for c := 0; c < carts; c++ {
			id := r.cartID(used)
			ago := min(int(r.rng.Exponential(cartRecencyMean)), cartMaxAgeDays)
			at := stamp(r.rng, addDays(midnight(r.opts.Now), -ago), r.opts.Now)
			for line, product := range random.Sample(r.rng, pool, random.Choice(r.rng, cartSizes)) {
				if len(r.abandoned) >= target {
					break
				}
				r.abandoned = append(r.abandoned, model.AbandonedItem{
					Date:     at,
					CartID:   id,
					CartLine: line + 1,
					Product:  product,
					Quantity: random.Choice(r.rng, cartQuantities),
					Customer: rec.CRMID,
				})
			}
			if len(r.abandoned) >= target {
				return
			}
		}
	}
}

func (r *run) cartID(used map[string]bool) string {
	for {
		id := fmt.Sprintf("CART%d", r.rng.IntRange(cartIDMin, cartIDMax))
		if !used[id] {
			used[id] = true
			return id
		}
	}
}

package generator

import (
	"fmt"
	"math"
	"time"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/random"
)

type intRange struct{ lo, hi int }

var orderCounts = map[model.Segment]intRange{
	model.SegmentActiveHigh:   {8, 12},
	model.SegmentActiveMedium: {6, 9},
	model.SegmentOccasional:   {2, 4},
	model.SegmentOneTime:      {1, 2},
	model.SegmentLapsed:       {3, 6},
}

// reorderIntervals are the days between two consecutive orders.
var reorderIntervals = map[model.Segment]intRange{
	model.SegmentActiveHigh:   {25, 35},
	model.SegmentActiveMedium: {40, 60},
	model.SegmentOccasional:   {80, 120},
	model.SegmentOneTime:      {180, 365},
	model.SegmentLapsed:       {30, 60},
}

var (
	capsuleVarieties  = []int{1, 1, 2, 2, 3}
	capsuleQuantities = []int{5, 10, 10, 15, 20}
)

const (
	machineProbability = 0.40
	accessoryChance    = 0.05
	discountChance     = 0.20
)

// purchase is a durable product bought at a given time.
type purchase struct {
	product string
	at      time.Time
}

// history accumulates what a recipient bought.
type history struct {
	orders  int
	last    time.Time
	spent   float64
	bought  map[string]bool
	durable []purchase
}

func (h *history) record(lines []model.Purchase, cat *catalog) {
	if h.bought == nil {
		h.bought = make(map[string]bool)
	}
	h.orders++
	for _, l := range lines {
		h.spent += l.Total()
		if l.Date.After(h.last) {
			h.last = l.Date
		}
		if !h.bought[l.Product] && cat.durable(l.Product) {
			h.durable = append(h.durable, purchase{product: l.Product, at: l.Date})
		}
		h.bought[l.Product] = true
	}
}

func orderRef(n int) string {
	return fmt.Sprintf("ORD%06d", n)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// generatePurchases builds every order line and one history per recipient.
func (r *run) generatePurchases() {
	r.histories = make([]history, len(r.recipients))
	next := 1
	for i, rec := range r.recipients {
		if rec.Segment == model.SegmentProspect {
			continue
		}
		count := orderCounts[rec.Segment]
		interval := reorderIntervals[rec.Segment]
		owns := rec.OwnsMachine

		var cursor time.Time
		orders := r.rng.IntRange(count.lo, count.hi)
		for k := 0; k < orders; k++ {
			if k == 0 {
				cursor = addDays(rec.AcquisitionDate, r.rng.IntRange(0, 14))
			} else {
				cursor = addDays(cursor, r.rng.IntRange(interval.lo, interval.hi))
				cursor = seasonal(r.rng, cursor)
			}
			if rec.Segment == model.SegmentLapsed {
				cutoff := addDays(r.opts.Now, -r.rng.IntRange(180, 540))
				if cursor.After(cutoff) {
					break
				}
			}
			if cursor.After(r.opts.Now) {
				break
			}

			at := stamp(r.rng, cursor, r.opts.Now)
			lines := r.orderLines(k == 0, &owns)
			ref := orderRef(next)
			next++
			for j := range lines {
				lines[j].Date = at
				lines[j].OrderRef = ref
				lines[j].OrderLine = j + 1
				lines[j].Customer = rec.CRMID
			}
			r.histories[i].record(lines, r.catalog)
			r.purchases = append(r.purchases, lines...)
		}
		r.log.Debug("purchases generated", "customer", rec.CRMID, "segment", rec.Segment, "orders", r.histories[i].orders)
	}
}

// orderLines draws the products of one order. The result is never empty.
func (r *run) orderLines(first bool, owns *bool) []model.Purchase {
	var lines []model.Purchase
	add := func(code string, price float64, qty int) {
		lines = append(lines, model.Purchase{Product: code, Price: price, Quantity: qty})
	}

	if first && !*owns && r.rng.Bernoulli(machineProbability) {
		machine := random.Choice(r.rng, r.catalog.machines)
		add(machine, r.catalog.prices[machine], 1)
		*owns = true
	}
	if *owns {
		varieties := random.Choice(r.rng, capsuleVarieties)
		for _, capsule := range random.Sample(r.rng, r.catalog.capsules, varieties) {
			add(capsule, r.catalog.prices[capsule], random.Choice(r.rng, capsuleQuantities))
		}
	}
	if r.rng.Bernoulli(accessoryChance) || len(lines) == 0 {
		accessory := random.Choice(r.rng, r.catalog.accessories)
		add(accessory, r.catalog.prices[accessory], 1)
	}
	if r.rng.Bernoulli(discountChance) {
		var total float64
		for _, l := range lines {
			total += l.Total()
		}
		if d := round2(total * r.rng.Uniform(0.05, 0.15)); d > 0 {
			add(DiscountCode, -d, 1)
		}
	}
	return lines
}

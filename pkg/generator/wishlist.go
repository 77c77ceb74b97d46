package generator

import (
	"fmt"
	"time"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/random"
)

const (
	wishlistWindowDays = 180
	wishlistMaxUpdate  = 30
	wishlistMaxName    = 5
)

var wishlistSizes = []int{1, 1, 2}

func wishlistID(n int) string {
	return fmt.Sprintf("WISH%06d", n)
}

// generateWishlist samples a fraction of recipients and wishes them durable
// products they have not bought yet.
func (r *run) generateWishlist() {
	indexes := make([]int, len(r.recipients))
	for i := range indexes {
		indexes[i] = i
	}
	k := int(r.opts.WishlistFraction*float64(len(r.recipients)) + 0.5)
	next := 1
	for _, i := range random.Sample(r.rng, indexes, k) {
		rec := r.recipients[i]
		h := &r.histories[i]

		if r.opts.WishlistMode == WishlistConversion && len(h.durable) > 0 && r.rng.Bernoulli(r.opts.ConversionRate) {
			bought := random.Choice(r.rng, h.durable)
			created, updated := r.convertedDates(rec.AcquisitionDate, bought.at)
			r.wishlist = append(r.wishlist, r.wishlistItem(next, rec.CRMID, bought.product, created, updated))
			next++
			continue
		}

		var available []string
		for _, code := range append(append([]string(nil), r.catalog.machines...), r.catalog.accessories...) {
			if !h.bought[code] {
				available = append(available, code)
			}
		}
		if len(available) == 0 {
			continue
		}
		for _, product := range random.Sample(r.rng, available, random.Choice(r.rng, wishlistSizes)) {
			from := addDays(r.opts.Now, -wishlistWindowDays)
			if rec.AcquisitionDate.After(from) {
				from = rec.AcquisitionDate
			}
			createdDay := randomDay(r.rng, from, r.opts.Now)
			updatedDay := addDays(createdDay, r.rng.IntRange(0, wishlistMaxUpdate))
			created := stamp(r.rng, createdDay, r.opts.Now)
			updated := stamp(r.rng, updatedDay, r.opts.Now)
			if updated.Before(created) {
				updated = created
			}
			r.wishlist = append(r.wishlist, r.wishlistItem(next, rec.CRMID, product, created, updated))
			next++
		}
	}
}

// convertedDates places a wish 7 to 60 days before the purchase it led to,
// never before acquisition, with the last update in between.
func (r *run) convertedDates(acquired, purchasedAt time.Time) (time.Time, time.Time) {
	createdDay := addDays(midnight(purchasedAt), -r.rng.IntRange(7, 60))
	if createdDay.Before(acquired) {
		createdDay = acquired
	}
	created := stamp(r.rng, createdDay, purchasedAt)
	updatedDay := randomDay(r.rng, createdDay, midnight(purchasedAt))
	updated := stamp(r.rng, updatedDay, purchasedAt)
	if updated.Before(created) {
		updated = created
	}
	return created, updated
}

func (r *run) wishlistItem(n int, customer, product string, created, updated time.Time) model.WishlistItem {
	return model.WishlistItem{
		ID:           wishlistID(n),
		Name:         r.rng.IntRange(0, wishlistMaxName),
		LastUpdate:   updated,
		CreationDate: created,
		Product:      product,
		Customer:     customer,
	}
}

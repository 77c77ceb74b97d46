// Package report computes the verification summary of a generated dataset.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/frescopa/demogen/pkg/model"
)

// Count is one row of a distribution.
type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Purchases summarizes the order lines.
type Purchases struct {
	Orders        int     `json:"orders"`
	Lines         int     `json:"lines"`
	Customers     int     `json:"customers"`
	LinesPerOrder float64 `json:"lines_per_order"`
	TopProducts   []Count `json:"top_products"`
}

// Query is a sample campaign audience.
type Query struct {
	Name    string  `json:"name"`
	UseCase string  `json:"use_case"`
	Result  int     `json:"result"`
	Items   int     `json:"items,omitempty"`
	Groups  []Count `json:"groups,omitempty"`
}

// Report is the full verification summary.
type Report struct {
	Recipients  int       `json:"recipients"`
	Segments    []Count   `json:"segments"`
	Countries   []Count   `json:"countries"`
	Purchases   Purchases `json:"purchases"`
	VIP         []Count   `json:"vip"`
	Churn       []Count   `json:"churn"`
	Queries     []Query   `json:"queries"`
	Monthly     []Count   `json:"monthly_orders"`
	CartRecency []Count   `json:"cart_recency"`
}

// TopProducts is how many products the purchase summary lists.
const TopProducts = 5

const (
	replenishmentDays = 60
	monthlyWindow     = 6
	vipGold           = 3
)

var vipLabels = map[int]string{
	-1: "Invalid/Prospect",
	0:  "Standard",
	1:  "Bronze",
	2:  "Silver",
	3:  "Gold",
	4:  "Platinum",
}

var churnLabels = map[int]string{
	0: "Low",
	1: "Medium",
	2: "High",
	3: "Very High",
}

// recencyBins are the upper bounds, in days, of the cart recency buckets.
var recencyBins = []struct {
	below int
	label string
}{
	{7, "<7 days"},
	{14, "7-14 days"},
	{30, "14-30 days"},
	{60, "30-60 days"},
	{91, "60-90 days"},
}

// Build computes the report for ds as of now.
func Build(ds *model.Dataset, now time.Time) *Report {
	r := &Report{Recipients: len(ds.Recipients)}

	segments := newCounter()
	countries := newCounter()
	for _, rec := range ds.Recipients {
		segments.add(string(rec.Segment))
		countries.add(rec.Country)
	}
	r.Segments = segments.byLabel(len(ds.Recipients))
	r.Countries = countries.byCount(len(ds.Recipients))

	r.Purchases = summarizePurchases(ds.Purchases)

	vip := newCounter()
	churn := newCounter()
	for _, s := range ds.Segments {
		vip.add(strconv.Itoa(s.VIP))
		churn.add(strconv.Itoa(s.ChurnProp))
	}
	r.VIP = relabel(vip.byNumber(len(ds.Segments)), vipLabels, "Tier %d")
	r.Churn = relabel(churn.byNumber(len(ds.Segments)), churnLabels, "Risk %d")

	r.Queries = demoQueries(ds, now)
	r.Monthly = monthlyOrders(ds.Purchases, now)
	r.CartRecency = cartRecency(ds.Abandoned, now)
	return r
}

func summarizePurchases(lines []model.Purchase) Purchases {
	orders := make(map[string]bool)
	customers := make(map[string]bool)
	products := newCounter()
	for _, p := range lines {
		orders[p.OrderRef] = true
		customers[p.Customer] = true
		products.add(p.Product)
	}
	s := Purchases{
		Orders:    len(orders),
		Lines:     len(lines),
		Customers: len(customers),
	}
	if s.Orders > 0 {
		s.LinesPerOrder = float64(s.Lines) / float64(s.Orders)
	}
	top := products.byCount(len(lines))
	s.TopProducts = top[:min(TopProducts, len(top))]
	return s
}

func demoQueries(ds *model.Dataset, now time.Time) []Query {
	categories := make(map[string]model.Category, len(ds.Products))
	for _, p := range ds.Products {
		categories[p.Code] = p.Category
	}

	var activeOwners, lapsed int
	for _, rec := range ds.Recipients {
		if rec.Segment == model.SegmentActiveHigh && rec.OwnsMachine {
			activeOwners++
		}
		if rec.Segment == model.SegmentLapsed {
			lapsed++
		}
	}

	cartCustomers := make(map[string]bool)
	var cartItems int
	for _, a := range ds.Abandoned {
		if a.ToSend == 0 {
			cartCustomers[a.Customer] = true
			cartItems++
		}
	}

	wishedMachine := make(map[string]bool)
	for _, w := range ds.Wishlist {
		if categories[w.Product] == model.CategoryMachine {
			wishedMachine[w.Customer] = true
		}
	}

	recent := now.AddDate(0, 0, -replenishmentDays)
	machineOwners := make(map[string]bool)
	recentCapsules := make(map[string]bool)
	for _, p := range ds.Purchases {
		switch categories[p.Product] {
		case model.CategoryMachine:
			machineOwners[p.Customer] = true
		case model.CategoryCapsule:
			if !p.Date.Before(recent) {
				recentCapsules[p.Customer] = true
			}
		}
	}
	var replenish int
	for c := range machineOwners {
		if !recentCapsules[c] {
			replenish++
		}
	}

	vipCustomers := make(map[string]bool)
	for _, s := range ds.Segments {
		if s.VIP >= vipGold {
			vipCustomers[s.Customer] = true
		}
	}
	vipCountries := newCounter()
	for _, rec := range ds.Recipients {
		if vipCustomers[rec.CRMID] {
			vipCountries.add(rec.Country)
		}
	}

	return []Query{
		{Name: "Active high-frequency customers with machines", UseCase: "Premium capsule bundle offers", Result: activeOwners},
		{Name: "Lapsed customers (no purchase >6 months)", UseCase: "Win-back campaign with 20% discount", Result: lapsed},
		{Name: "Customers with abandoned carts (reminder not sent)", UseCase: "24h automated reminder emails", Result: len(cartCustomers), Items: cartItems},
		{Name: "Customers with machines in wishlist", UseCase: "Machine promotion alerts", Result: len(wishedMachine)},
		{Name: fmt.Sprintf("Machine owners without capsule purchase in last %d days", replenishmentDays), UseCase: "Capsule replenishment reminder", Result: replenish},
		{Name: "Gold/Platinum VIP customers by country", UseCase: "Exclusive VIP offers, language-personalized", Result: len(vipCustomers), Groups: vipCountries.byCount(len(vipCustomers))},
	}
}

// monthlyOrders counts distinct orders per month, from the first day of the
// month six months before now.
func monthlyOrders(lines []model.Purchase, now time.Time) []Count {
	from := time.Date(now.Year(), now.Month()-monthlyWindow, 1, 0, 0, 0, 0, now.Location())
	seen := make(map[string]bool)
	months := newCounter()
	var total int
	for _, p := range lines {
		if p.Date.Before(from) || seen[p.OrderRef] {
			continue
		}
		seen[p.OrderRef] = true
		months.add(p.Date.Format("2006-01"))
		total++
	}
	return months.byLabel(total)
}

// cartRecency buckets cart lines by whole days before now.
func cartRecency(items []model.AbandonedItem, now time.Time) []Count {
	counts := make([]int, len(recencyBins))
	for _, a := range items {
		days := int(now.Sub(a.Date).Hours() / 24)
		for i, bin := range recencyBins {
			if days < bin.below {
				counts[i]++
				break
			}
		}
	}
	out := make([]Count, len(recencyBins))
	for i, bin := range recencyBins {
		out[i] = Count{Label: bin.label, Count: counts[i], Percent: percent(counts[i], len(items))}
	}
	return out
}

type counter struct {
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	c.counts[label]++
}

func (c *counter) list(total int) []Count {
	out := make([]Count, 0, len(c.counts))
	for label, n := range c.counts {
		out = append(out, Count{Label: label, Count: n, Percent: percent(n, total)})
	}
	return out
}

func (c *counter) byLabel(total int) []Count {
	out := c.list(total)
	slices.SortFunc(out, func(a, b Count) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

// byCount sorts by descending count, then label.
func (c *counter) byCount(total int) []Count {
	out := c.list(total)
	slices.SortFunc(out, func(a, b Count) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// byNumber sorts integer labels numerically.
func (c *counter) byNumber(total int) []Count {
	out := c.list(total)
	slices.SortFunc(out, func(a, b Count) int {
		x, _ := strconv.Atoi(a.Label)
		y, _ := strconv.Atoi(b.Label)
		return cmp.Compare(x, y)
	})
	return out
}

func relabel(counts []Count, labels map[int]string, fallback string) []Count {
	for i := range counts {
		n, _ := strconv.Atoi(counts[i].Label)
		if l, ok := labels[n]; ok {
			counts[i].Label = l
		} else {
			counts[i].Label = fmt.Sprintf(fallback, n)
		}
	}
	return counts
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

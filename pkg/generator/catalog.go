package generator

import (
	"fmt"

	"github.com/frescopa/demogen/pkg/model"
)

// DiscountCode is the product used for discount lines.
const DiscountCode = "discount"

// newProducts are appended to the seed catalog.
var newProducts = []model.Product{
	{Code: "RomaRoast", PriceRef: 11.50, Category: model.CategoryCapsule, Description: "Roma Roast (9/10)", Brand: "coffeeworks"},
	{Code: "MilanoMagic", PriceRef: 12.00, Category: model.CategoryCapsule, Description: "Milano Magic (8/10)", Brand: "coffeeworks"},
	{Code: "CapriCappuccino", PriceRef: 11.00, Category: model.CategoryCapsule, Description: "Capri Cappuccino (6/10)", Brand: "coffeeworks"},
	{Code: "AmericanoBliss", PriceRef: 10.50, Category: model.CategoryCapsule, Description: "Americano Bliss (7/10)", Brand: "coffeeworks"},
	{Code: "DecafDelight", PriceRef: 11.00, Category: model.CategoryCapsule, Description: "Decaf Delight (5/10)", Brand: "coffeeworks"},
	{Code: "HazelnutHeaven", PriceRef: 12.50, Category: model.CategoryCapsule, Description: "Hazelnut Heaven (7/10)", Brand: "javajunction"},
	{Code: "ChocolateCharm", PriceRef: 13.00, Category: model.CategoryCapsule, Description: "Chocolate Charm (8/10)", Brand: "javajunction"},
	{Code: "IntenseIndulgence", PriceRef: 14.00, Category: model.CategoryCapsule, Description: "Intense Indulgence (13/13)", Brand: "javajunction"},
	{Code: "DescaleKit", PriceRef: 19.00, Category: model.CategoryAccessory, Description: "Descaling Kit", Brand: "coffeeworks"},
	{Code: "CapsuleHolder", PriceRef: 29.00, Category: model.CategoryAccessory, Description: "Rotating Capsule Holder (40 pods)", Brand: "coffeeworks"},
	{Code: "MilkFrother", PriceRef: 89.00, Category: model.CategoryAccessory, Description: "Milk Frother", Brand: "javajunction"},
	{Code: "TravelMug", PriceRef: 24.00, Category: model.CategoryAccessory, Description: "Insulated Travel Mug", Brand: "javajunction"},
}

// NewProducts returns a copy of the products added to every catalog.
func NewProducts() []model.Product {
	return append([]model.Product(nil), newProducts...)
}

// ExtendCatalog appends the new products to seed, skipping codes the seed
// already carries so an augmented catalog can be fed back in.
func ExtendCatalog(seed []model.Product) []model.Product {
	have := make(map[string]bool, len(seed))
	for _, p := range seed {
		have[p.Code] = true
	}
	out := append([]model.Product(nil), seed...)
	for _, p := range newProducts {
		if !have[p.Code] {
			out = append(out, p)
		}
	}
	return out
}

// catalog indexes products by category, in catalog order.
type catalog struct {
	capsules    []string
	machines    []string
	accessories []string
	prices      map[string]float64
	categories  map[string]model.Category
}

func newCatalog(products []model.Product) (*catalog, error) {
	c := &catalog{
		prices:     make(map[string]float64, len(products)),
		categories: make(map[string]model.Category, len(products)),
	}
	for _, p := range products {
		c.prices[p.Code] = p.PriceRef
		c.categories[p.Code] = p.Category
		switch p.Category {
		case model.CategoryCapsule:
			c.capsules = append(c.capsules, p.Code)
		case model.CategoryMachine:
			c.machines = append(c.machines, p.Code)
		case model.CategoryAccessory:
			c.accessories = append(c.accessories, p.Code)
		}
	}
	if len(c.capsules) == 0 {
		return nil, fmt.Errorf("catalog has no capsules")
	}
	if len(c.machines) == 0 {
		return nil, fmt.Errorf("catalog has no machines")
	}
	if len(c.accessories) == 0 {
		return nil, fmt.Errorf("catalog has no accessories")
	}
	if _, ok := c.categories[DiscountCode]; !ok {
		return nil, fmt.Errorf("catalog has no %q product", DiscountCode)
	}
	return c, nil
}

// durable reports whether code is a machine or an accessory.
func (c *catalog) durable(code string) bool {
	cat := c.categories[code]
	return cat == model.CategoryMachine || cat == model.CategoryAccessory
}

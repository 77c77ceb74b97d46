package model

import (
	"fmt"
	"reflect"

	"github.com/frescopa/demogen/pkg/registry"
	"github.com/frescopa/demogen/pkg/schema"
)

// Seeds are the tables read from the seed directory.
type Seeds struct {
	Brands     []Brand
	Products   []Product
	Recipients []Recipient
}

// Dataset is everything the generator produces, in output order.
type Dataset struct {
	Brands     []Brand
	Products   []Product
	Recipients []Recipient
	Purchases  []Purchase
	Wishlist   []WishlistItem
	Abandoned  []AbandonedItem
	Segments   []SegmentRecord
}

// Models lists one value per table, parents before children.
func Models() []any {
	return []any{
		Brand{},
		Product{},
		Recipient{},
		Purchase{},
		WishlistItem{},
		AbandonedItem{},
		SegmentRecord{},
	}
}

// RegisterAll registers every dataset table.
func RegisterAll(reg *registry.Registry) error {
	for _, m := range Models() {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every dataset table.
func NewRegistry() (*registry.Registry, error) {
	reg := registry.NewRegistry()
	if err := RegisterAll(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// FileName is the CSV file a table is persisted to.
func FileName(table string) string {
	return table + ".csv"
}

// Tables returns every table of the dataset as rows bound to its metadata,
// in output order.
func (d *Dataset) Tables(reg *registry.Registry) ([]schema.Rows, error) {
	slices := []any{
		d.Brands,
		d.Products,
		d.Recipients,
		d.Purchases,
		d.Wishlist,
		d.Abandoned,
		d.Segments,
	}
	models := Models()
	out := make([]schema.Rows, 0, len(slices))
	for i, slice := range slices {
		table, err := reg.Get(reflect.TypeOf(models[i]))
		if err != nil {
			return nil, err
		}
		rows, err := schema.NewRows(table, slice)
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		out = append(out, rows)
	}
	return out, nil
}

// Counts returns the row count per table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		Brand{}.TableName():         len(d.Brands),
		Product{}.TableName():       len(d.Products),
		Recipient{}.TableName():     len(d.Recipients),
		Purchase{}.TableName():      len(d.Purchases),
		WishlistItem{}.TableName():  len(d.Wishlist),
		AbandonedItem{}.TableName(): len(d.Abandoned),
		SegmentRecord{}.TableName(): len(d.Segments),
	}
}

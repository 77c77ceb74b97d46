package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/frescopa/demogen/pkg/csvio"
	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/registry"
)

// UnknownColumns maps a table to the header columns that were skipped.
type UnknownColumns map[string][]string

func readTable[T any](reg *registry.Registry, dir string, unknown UnknownColumns) ([]T, error) {
	table, err := registry.For[T](reg)
	if err != nil {
		return nil, err
	}
	rows, header, err := csvio.ReadFile[T](filepath.Join(dir, model.FileName(table.Name)), table)
	if err != nil {
		return nil, err
	}
	if len(header.Unknown) > 0 && unknown != nil {
		unknown[table.Name] = header.Unknown
	}
	return rows, nil
}

// LoadSeeds reads brands, products and recipients from dir.
func LoadSeeds(reg *registry.Registry, dir string) (model.Seeds, UnknownColumns, error) {
	unknown := make(UnknownColumns)
	var seeds model.Seeds
	var err error
	if seeds.Brands, err = readTable[model.Brand](reg, dir, unknown); err != nil {
		return model.Seeds{}, nil, err
	}
	if seeds.Products, err = readTable[model.Product](reg, dir, unknown); err != nil {
		return model.Seeds{}, nil, err
	}
	if seeds.Recipients, err = readTable[model.Recipient](reg, dir, unknown); err != nil {
		return model.Seeds{}, nil, err
	}
	return seeds, unknown, nil
}

// ReadDataset reads every generated table from dir.
func ReadDataset(reg *registry.Registry, dir string) (*model.Dataset, error) {
	ds := &model.Dataset{}
	var err error
	if ds.Brands, err = readTable[model.Brand](reg, dir, nil); err != nil {
		return nil, err
	}
	if ds.Products, err = readTable[model.Product](reg, dir, nil); err != nil {
		return nil, err
	}
	if ds.Recipients, err = readTable[model.Recipient](reg, dir, nil); err != nil {
		return nil, err
	}
	if ds.Purchases, err = readTable[model.Purchase](reg, dir, nil); err != nil {
		return nil, err
	}
	if ds.Wishlist, err = readTable[model.WishlistItem](reg, dir, nil); err != nil {
		return nil, err
	}
	if ds.Abandoned, err = readTable[model.AbandonedItem](reg, dir, nil); err != nil {
		return nil, err
	}
	if ds.Segments, err = readTable[model.SegmentRecord](reg, dir, nil); err != nil {
		return nil, err
	}
	return ds, nil
}

// WriteDataset writes every table of ds to dir and returns the file paths.
func WriteDataset(reg *registry.Registry, dir string, ds *model.Dataset) ([]string, error) {
	tables, err := ds.Tables(reg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, 0, len(tables))
	for _, rows := range tables {
		path := filepath.Join(dir, model.FileName(rows.Table.Name))
		if err := csvio.WriteFile(path, rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/validate"
)

// Pipeline loads seeds, generates, validates and persists a dataset.
type Pipeline struct {
	Options  Options
	SeedDir  string
	OutDir   string
	Observer Observer
	Logger   *slog.Logger
	// DryRun skips the write stage.
	DryRun bool
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Dataset *model.Dataset
	Files   []string
	Unknown UnknownColumns
}

// Run executes every stage. Nothing is written when validation fails; the
// returned error then wraps validate.ErrIntegrity.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	obs := p.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	reg, err := model.NewRegistry()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var seeds model.Seeds
	_, err = observe(obs, StageLoad, func() (int, error) {
		var err error
		seeds, res.Unknown, err = LoadSeeds(reg, p.SeedDir)
		return len(seeds.Brands) + len(seeds.Products) + len(seeds.Recipients), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load seeds: %w", err)
	}
	for _, name := range reg.AllNames() {
		if cols := res.Unknown[name]; len(cols) > 0 {
			log.Warn("ignoring unknown seed columns", "table", name, "columns", cols)
		}
	}
	log.Info("seeds loaded",
		"brands", len(seeds.Brands),
		"products", len(seeds.Products),
		"recipients", len(seeds.Recipients))

	gen := New(p.Options, WithObserver(obs), WithLogger(log))
	if res.Dataset, err = gen.Run(ctx, seeds); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, err = observe(obs, StageValidate, func() (int, error) {
		tables, err := res.Dataset.Tables(reg)
		if err != nil {
			return 0, err
		}
		return len(tables), validate.New().Validate(tables)
	})
	if err != nil {
		return nil, err
	}
	log.Info("foreign key constraints valid")

	if p.DryRun {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, err = observe(obs, StageWrite, func() (int, error) {
		var err error
		res.Files, err = WriteDataset(reg, p.OutDir, res.Dataset)
		return len(res.Files), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write dataset: %w", err)
	}
	log.Info("dataset written", "dir", p.OutDir, "files", len(res.Files))
	return res, nil
}

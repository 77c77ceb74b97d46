// Package generator builds the synthetic demo dataset from seed tables.
//
// A run is single-goroutine and draws from one seeded stream, so the same
// seeds and options always produce the same dataset.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/random"
)

// Generator turns seed tables into a full dataset.
type Generator struct {
	opts     Options
	observer Observer
	log      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithObserver reports stage progress to o.
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// New creates a Generator.
func New(opts Options, options ...Option) *Generator {
	g := &Generator{
		opts:     opts,
		observer: NopObserver{},
		log:      slog.Default(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Options returns the options the generator was built with.
func (g *Generator) Options() Options {
	return g.opts
}

// run holds the state of one generation pass.
type run struct {
	opts    Options
	rng     *random.Source
	log     *slog.Logger
	catalog *catalog

	recipients []model.Recipient
	histories  []history
	purchases  []model.Purchase
	wishlist   []model.WishlistItem
	abandoned  []model.AbandonedItem
	segments   []model.SegmentRecord
}

// Run generates the dataset. Seeds are not modified. The context is checked
// between stages.
func (g *Generator) Run(ctx context.Context, seeds model.Seeds) (*model.Dataset, error) {
	if g.opts.Now.IsZero() {
		return nil, fmt.Errorf("generator: reference date is not set")
	}
	if g.opts.AbandonedTarget > MaxAbandonedTarget {
		return nil, fmt.Errorf("generator: abandoned target %d exceeds %d", g.opts.AbandonedTarget, MaxAbandonedTarget)
	}

	r := &run{
		opts: g.opts,
		rng:  random.New(g.opts.Seed),
		log:  g.log,
	}
	ds := &model.Dataset{
		Brands: append([]model.Brand(nil), seeds.Brands...),
	}

	stages := []struct {
		stage Stage
		fn    func() (int, error)
	}{
		{StageCatalog, func() (int, error) {
			ds.Products = ExtendCatalog(seeds.Products)
			c, err := newCatalog(ds.Products)
			r.catalog = c
			return len(ds.Products), err
		}},
		{StageAttributes, func() (int, error) {
			r.recipients = assignAttributes(r.rng, seeds.Recipients, midnight(g.opts.Now))
			ds.Recipients = r.recipients
			return len(r.recipients), nil
		}},
		{StagePurchases, func() (int, error) {
			r.generatePurchases()
			ds.Purchases = r.purchases
			return len(r.purchases), nil
		}},
		{StageWishlist, func() (int, error) {
			r.generateWishlist()
			ds.Wishlist = r.wishlist
			return len(r.wishlist), nil
		}},
		{StageAbandoned, func() (int, error) {
			r.generateAbandoned()
			ds.Abandoned = r.abandoned
			return len(r.abandoned), nil
		}},
		{StageSegments, func() (int, error) {
			r.generateSegments()
			ds.Segments = r.segments
			return len(r.segments), nil
		}},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := observe(g.observer, s.stage, s.fn)
		if err != nil {
			return nil, fmt.Errorf("generator: %s: %w", s.stage, err)
		}
		g.log.Info("stage finished", "stage", s.stage, "rows", rows)
	}
	return ds, nil
}

// observe runs fn as stage and reports it to o.
func observe(o Observer, stage Stage, fn func() (int, error)) (int, error) {
	o.StageStarted(stage)
	start := time.Now()
	rows, err := fn()
	o.StageFinished(Event{Stage: stage, Rows: rows, Elapsed: time.Since(start), Err: err})
	return rows, err
}

package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/frescopa/demogen/pkg/runtime"
	"github.com/frescopa/demogen/pkg/schema"
)

// Executor applies a plan and copies rows into the created tables.
type Executor struct {
	db     *runtime.DB
	lockID int64 // PostgreSQL advisory lock ID
	log    *slog.Logger
}

// DefaultLockID is the advisory lock held while a load runs.
const DefaultLockID int64 = 7365697

// NewExecutor creates an executor on db.
func NewExecutor(db *runtime.DB) *Executor {
	return &Executor{
		db:     db,
		lockID: DefaultLockID,
		log:    slog.Default(),
	}
}

// WithLockID sets a custom advisory lock ID.
func (e *Executor) WithLockID(lockID int64) *Executor {
	e.lockID = lockID
	return e
}

// WithLogger sets the logger.
func (e *Executor) WithLogger(l *slog.Logger) *Executor {
	e.log = l
	return e
}

// LoadOptions controls a load.
type LoadOptions struct {
	// Drop runs the down statements first.
	Drop bool
}

// LoadResult counts copied rows per table, in load order.
type LoadResult struct {
	Tables []string
	Rows   map[string]int64
}

// Load applies plan and copies every table of data in one transaction,
// holding an advisory lock so concurrent loads serialize. data must contain
// rows for every table of the plan.
func (e *Executor) Load(ctx context.Context, plan *Plan, data []schema.Rows, opts LoadOptions) (*LoadResult, error) {
	byName := make(map[string]schema.Rows, len(data))
	for _, rows := range data {
		byName[rows.Table.Name] = rows
	}
	for _, name := range plan.TableNames() {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("no rows for table %s", name)
		}
	}

	res := &LoadResult{Rows: make(map[string]int64, len(plan.Tables))}
	err := e.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", e.lockID); err != nil {
			return fmt.Errorf("failed to acquire advisory lock: %w", err)
		}

		var stmts []string
		if opts.Drop {
			stmts = append(stmts, plan.Down...)
		}
		stmts = append(stmts, plan.Up...)
		for i, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, runtime.NewQueryError(stmt, err))
			}
		}

		for _, name := range plan.TableNames() {
			n, err := runtime.CopyRows(ctx, tx, byName[name])
			if err != nil {
				return err
			}
			res.Tables = append(res.Tables, name)
			res.Rows[name] = n
			e.log.Info("table loaded", "table", name, "rows", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

//go:build integration
// +build integration

package demogen_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/migration"
	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/runtime"
)

// setupTestDB creates a PostgreSQL container and returns a connected DB
func setupTestDB(t *testing.T) (*runtime.DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := runtime.ConnectWithURL(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func generateDataset(t *testing.T) *generator.Result {
	opts := generator.DefaultOptions()
	opts.AbandonedTarget = 100
	p := &generator.Pipeline{
		Options: opts,
		SeedDir: "testdata/seed",
		DryRun:  true,
	}
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Failed to generate dataset: %v", err)
	}
	return res
}

func TestIntegration_LoadDataset(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	res := generateDataset(t)

	reg, err := model.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	tables, err := res.Dataset.Tables(reg)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := migration.NewPlanner().Plan(reg.All())
	if err != nil {
		t.Fatal(err)
	}

	executor := migration.NewExecutor(db).WithLockID(4242)
	loaded, err := executor.Load(ctx, plan, tables, migration.LoadOptions{})
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}

	counts := res.Dataset.Counts()
	for _, name := range plan.TableNames() {
		if loaded.Rows[name] != int64(counts[name]) {
			t.Errorf("table %s: copied %d rows, want %d", name, loaded.Rows[name], counts[name])
		}
		n, err := db.QueryInt64(ctx, `SELECT count(*) FROM "`+name+`"`)
		if err != nil {
			t.Fatalf("Failed to count %s: %v", name, err)
		}
		if n != int64(counts[name]) {
			t.Errorf("table %s has %d rows, want %d", name, n, counts[name])
		}
	}

	// Every purchase line joins to a recipient and a product.
	orphans, err := db.QueryInt64(ctx, `
		SELECT count(*) FROM purchases p
		LEFT JOIN recipients r ON r.crmid = p.customer
		LEFT JOIN products pr ON pr.code = p.product
		WHERE r.crmid IS NULL OR pr.code IS NULL`)
	if err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Errorf("found %d orphan purchase lines", orphans)
	}

	// A second load without drop collides with the existing keys.
	_, err = executor.Load(ctx, plan, tables, migration.LoadOptions{})
	if !errors.Is(err, runtime.ErrDuplicateKey) {
		t.Errorf("second load: got %v, want ErrDuplicateKey", err)
	}

	// With drop the load starts over.
	if _, err := executor.Load(ctx, plan, tables, migration.LoadOptions{Drop: true}); err != nil {
		t.Fatalf("Failed to reload with drop: %v", err)
	}
}

func TestIntegration_ForeignKeysEnforced(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	res := generateDataset(t)
	reg, err := model.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	ds := *res.Dataset
	ds.Purchases = append([]model.Purchase(nil), ds.Purchases...)
	ds.Purchases[0].Customer = "nobody"
	tables, err := ds.Tables(reg)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := migration.NewPlanner().Plan(reg.All())
	if err != nil {
		t.Fatal(err)
	}

	_, err = migration.NewExecutor(db).Load(ctx, plan, tables, migration.LoadOptions{})
	if !errors.Is(err, runtime.ErrForeignKeyViolation) {
		t.Fatalf("got %v, want ErrForeignKeyViolation", err)
	}

	// The transaction rolled back, so no table was created.
	n, err := db.QueryInt64(ctx, `SELECT count(*) FROM information_schema.tables WHERE table_name = 'brands'`)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("brands exists after a failed load")
	}
}

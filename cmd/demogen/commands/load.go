package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frescopa/demogen/cmd/demogen/output"
	"github.com/frescopa/demogen/cmd/demogen/tui"
	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/migration"
	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/runtime"
	"github.com/frescopa/demogen/pkg/validate"
)

var (
	// Load flags
	loadDrop   bool
	loadDryRun bool
	loadYes    bool
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the generated dataset into PostgreSQL",
	Long: `Create the dataset tables with their primary and foreign keys, then bulk-copy
every generated CSV file, all in one transaction.

Examples:
  demogen load --db postgres://localhost/demo          # Create tables and copy rows
  demogen load --db postgres://localhost/demo --drop   # Drop existing tables first
  demogen load --dry-run --drop                        # Print the SQL without connecting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	flags := loadCmd.Flags()
	flags.String("db", "", "Database connection URL")
	flags.Int64("lock-id", migration.DefaultLockID, "Advisory lock ID held during the load")
	flags.BoolVar(&loadDrop, "drop", false, "Drop the dataset tables before creating them")
	flags.BoolVar(&loadDryRun, "dry-run", false, "Print the SQL instead of executing it")
	flags.BoolVarP(&loadYes, "yes", "y", false, "Do not ask before dropping tables")
}

func runLoad(ctx context.Context) error {
	reg, err := model.NewRegistry()
	if err != nil {
		return err
	}
	ds, err := generator.ReadDataset(reg, cfg.OutDir)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	tables, err := ds.Tables(reg)
	if err != nil {
		return err
	}
	if err := validate.New().Validate(tables); err != nil {
		return err
	}
	plan, err := migration.NewPlanner().Plan(reg.All())
	if err != nil {
		return fmt.Errorf("failed to plan tables: %w", err)
	}

	if loadDryRun {
		output.Section("DRY RUN - Preview")
		if loadDrop {
			fmt.Fprintln(output.Out, plan.DownSQL())
			fmt.Fprintln(output.Out)
		}
		fmt.Fprintln(output.Out, plan.UpSQL())
		fmt.Fprintln(output.Out)
		output.Info("Would copy %d table(s) from %s", len(plan.Tables), cfg.OutDir)
		return nil
	}

	if cfg.Database.URL == "" {
		return fmt.Errorf("--db flag is required")
	}
	if loadDrop && !loadYes {
		ok, err := tui.Confirm("Confirm Drop", fmt.Sprintf("Drop and recreate %d table(s)?", len(plan.Tables)))
		if err != nil {
			return err
		}
		if !ok {
			output.Warning("Load cancelled")
			return nil
		}
	}

	db, err := runtime.ConnectWithURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	res, err := migration.NewExecutor(db).
		WithLockID(cfg.Database.LockID).
		WithLogger(slog.Default()).
		Load(ctx, plan, tables, migration.LoadOptions{Drop: loadDrop})
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if jsonOutput {
		return output.JSON(res.Rows)
	}
	output.Section("Loaded Tables")
	rows := make([][]string, len(res.Tables))
	for i, name := range res.Tables {
		rows[i] = []string{output.StatusIcon("done"), name, strconv.FormatInt(res.Rows[name], 10)}
	}
	output.Table([]string{"", "TABLE", "ROWS"}, rows)
	fmt.Fprintln(output.Out)
	output.Success("Loaded %d table(s)", len(res.Tables))
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frescopa/demogen/cmd/demogen/output"
	"github.com/frescopa/demogen/pkg/migration"
	"github.com/frescopa/demogen/pkg/model"
)

var (
	// Schema flags
	schemaDrop        bool
	schemaNoIndexes   bool
	schemaIfNotExists bool
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the PostgreSQL DDL of the dataset tables",
	Long: `Print CREATE TABLE statements derived from the table models, parents first.

Examples:
  demogen schema                 # CREATE statements
  demogen schema --drop          # DROP statements first
  demogen schema --json          # Tables and statements as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema()
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	flags := schemaCmd.Flags()
	flags.BoolVar(&schemaDrop, "drop", false, "Include DROP TABLE statements")
	flags.BoolVar(&schemaNoIndexes, "no-indexes", false, "Skip foreign key indexes")
	flags.BoolVar(&schemaIfNotExists, "if-not-exists", true, "Use CREATE TABLE IF NOT EXISTS")
}

func runSchema() error {
	reg, err := model.NewRegistry()
	if err != nil {
		return err
	}
	planner := migration.NewPlannerWithOptions(migration.PlannerOptions{
		IfNotExists:      schemaIfNotExists,
		IndexForeignKeys: !schemaNoIndexes,
	})
	plan, err := planner.Plan(reg.All())
	if err != nil {
		return fmt.Errorf("failed to plan tables: %w", err)
	}

	if jsonOutput {
		out := map[string]any{
			"tables": plan.TableNames(),
			"up":     plan.Up,
		}
		if schemaDrop {
			out["down"] = plan.Down
		}
		return output.JSON(out)
	}

	if schemaDrop {
		fmt.Fprintln(output.Out, plan.DownSQL())
		fmt.Fprintln(output.Out)
	}
	fmt.Fprintln(output.Out, plan.UpSQL())
	return nil
}

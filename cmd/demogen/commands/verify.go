package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frescopa/demogen/cmd/demogen/output"
	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/report"
	"github.com/frescopa/demogen/pkg/validate"
)

var verifyStrict bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Summarize a generated dataset",
	Long: `Read the generated tables from the output directory and print the segment,
country, purchase, VIP and churn distributions, sample campaign audiences, monthly
order volume and abandoned cart recency.

Examples:
  demogen verify                        # Summarize data-augmented
  demogen verify --out-dir ./demo       # Summarize another directory
  demogen verify --strict               # Also re-check foreign keys
  demogen verify --json                 # Machine-readable summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "Validate foreign keys before summarizing")
}

func runVerify() error {
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return err
	}
	reg, err := model.NewRegistry()
	if err != nil {
		return err
	}
	ds, err := generator.ReadDataset(reg, cfg.OutDir)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	if verifyStrict {
		tables, err := ds.Tables(reg)
		if err != nil {
			return err
		}
		if err := validate.New().Validate(tables); err != nil {
			return err
		}
	}

	r := report.Build(ds, opts.Now)
	if jsonOutput {
		return output.JSON(r)
	}
	printReport(r)
	if verifyStrict {
		output.Success("All foreign key constraints valid")
	}
	return nil
}

func printReport(r *report.Report) {
	output.Section("Segment Distribution")
	printDistribution(r.Segments)

	output.Section("Geographic Distribution")
	printDistribution(r.Countries)

	output.Section("Purchase Analysis")
	p := r.Purchases
	output.Table([]string{"METRIC", "VALUE"}, [][]string{
		{"Total orders", strconv.Itoa(p.Orders)},
		{"Total line items", strconv.Itoa(p.Lines)},
		{"Unique customers", strconv.Itoa(p.Customers)},
		{"Avg lines per order", fmt.Sprintf("%.2f", p.LinesPerOrder)},
	})
	output.Primary("\nTop %d products", report.TopProducts)
	printDistribution(p.TopProducts)

	output.Section("VIP Distribution")
	printDistribution(r.VIP)

	output.Section("Churn Risk Distribution")
	printDistribution(r.Churn)

	output.Section("Demo Queries")
	for i, q := range r.Queries {
		output.Primary("%d. %s", i+1, q.Name)
		switch {
		case q.Items > 0:
			output.Info("%d customers, %d items", q.Result, q.Items)
		default:
			output.Info("%d customers", q.Result)
		}
		for _, g := range q.Groups {
			output.Muted("   %s: %d", g.Label, g.Count)
		}
		output.Muted("   Use case: %s", q.UseCase)
	}

	output.Section("Monthly Orders (last 6 months)")
	printDistribution(r.Monthly)

	output.Section("Abandoned Cart Recency")
	printDistribution(r.CartRecency)
	fmt.Fprintln(output.Out)
}

func printDistribution(counts []report.Count) {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{
			c.Label,
			strconv.Itoa(c.Count),
			fmt.Sprintf("%5.1f%%", c.Percent),
			output.Bar(c.Percent, 30),
		}
	}
	output.Table([]string{"VALUE", "COUNT", "SHARE", ""}, rows)
}

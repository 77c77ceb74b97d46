package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frescopa/demogen/cmd/demogen/output"
	"github.com/frescopa/demogen/cmd/demogen/tui"
	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/metrics"
	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/validate"
)

var (
	// Generate flags
	interactive bool
	genDryRun   bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate, validate and write the dataset",
	Long: `Generate the synthetic dataset from the seed tables, validate every foreign key
and write the tables to the output directory. Nothing is written when validation fails.

Examples:
  demogen generate                                   # Defaults: seed 42, data-sample -> data-augmented
  demogen generate --seed 7 --abandoned 2000         # Another dataset with fewer cart lines
  demogen generate --wishlist-mode conversion        # Wishlists of bought machines and accessories
  demogen generate --interactive                     # Progress UI
  demogen generate --dry-run --metrics-file gen.prom # Validate only, export metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.BoolVarP(&interactive, "interactive", "i", false, "Run with the interactive progress UI")
	flags.BoolVar(&genDryRun, "dry-run", false, "Generate and validate without writing files")
	flags.String("wishlist-mode", "", "Wishlist mode (recent, conversion)")
	flags.Float64("conversion-rate", 0, "Share of buyers whose wishlist holds a bought product (conversion mode)")
	flags.Int("abandoned", 0, "Target number of abandoned cart lines")
	flags.String("metrics-file", "", "Write prometheus metrics to this textfile")
}

// generateSummary is the --json output of generate.
type generateSummary struct {
	RunID   string              `json:"run_id"`
	Seed    uint64              `json:"seed"`
	OutDir  string              `json:"out_dir,omitempty"`
	Tables  map[string]int      `json:"tables"`
	Files   []string            `json:"files,omitempty"`
	Unknown map[string][]string `json:"unknown_columns,omitempty"`
}

func runGenerate(cmd *cobra.Command) error {
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	pipeline := &generator.Pipeline{
		Options:  opts,
		SeedDir:  cfg.SeedDir,
		OutDir:   cfg.OutDir,
		Observer: recorder,
		Logger:   slog.Default(),
		DryRun:   genDryRun,
	}

	var res *generator.Result
	if interactive {
		// The progress UI owns the terminal.
		pipeline.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		res, err = tui.RunGenerateUI(cmd.Context(), pipeline)
	} else {
		res, err = pipeline.Run(cmd.Context())
	}

	if cfg.Metrics.File != "" {
		if merr := recorder.WriteTextfile(cfg.Metrics.File); merr != nil {
			err = errors.Join(err, merr)
		} else {
			slog.Info("metrics written", "file", cfg.Metrics.File)
		}
	}
	if err != nil {
		var ie *validate.IntegrityError
		if errors.As(err, &ie) && !jsonOutput {
			output.Section("Foreign Key Violations")
			for _, v := range ie.Violations {
				output.Error("%s", v.String())
			}
			fmt.Fprintln(output.Out)
			return fmt.Errorf("%d integrity violation(s), nothing written", len(ie.Violations))
		}
		return err
	}

	if jsonOutput {
		return output.JSON(generateSummary{
			RunID:   runID,
			Seed:    opts.Seed,
			OutDir:  pipeline.OutDir,
			Tables:  res.Dataset.Counts(),
			Files:   res.Files,
			Unknown: res.Unknown,
		})
	}
	return printGenerated(res, pipeline)
}

func printGenerated(res *generator.Result, p *generator.Pipeline) error {
	reg, err := model.NewRegistry()
	if err != nil {
		return err
	}
	for _, name := range reg.AllNames() {
		if cols := res.Unknown[name]; len(cols) > 0 {
			output.Warning("%s: ignored unknown column(s) %v", model.FileName(name), cols)
		}
	}

	output.Section("Generated Dataset")
	counts := res.Dataset.Counts()
	rows := make([][]string, 0, len(counts))
	for _, name := range reg.AllNames() {
		file := "-"
		target := filepath.Join(p.OutDir, model.FileName(name))
		if slices.Contains(res.Files, target) {
			file = target
		}
		rows = append(rows, []string{name, strconv.Itoa(counts[name]), file})
	}
	output.Table([]string{"TABLE", "ROWS", "FILE"}, rows)
	fmt.Fprintln(output.Out)

	output.Success("All foreign key constraints valid")
	if p.DryRun {
		output.Info("Dry run: no files written")
		return nil
	}
	output.Success("Wrote %d file(s) to %s", len(res.Files), p.OutDir)
	output.Muted("Seed %d, run %s", p.Options.Seed, runID)
	return nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frescopa/demogen/cmd/demogen/output"
	"github.com/frescopa/demogen/pkg/config"
	"github.com/frescopa/demogen/pkg/logger"
)

var (
	// Global flags
	configFile string
	envFile    string
	jsonOutput bool

	// cfg is loaded before every command runs.
	cfg   *config.Config
	runID string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "demogen",
	Short: "Synthetic retail dataset generator",
	Long: `demogen builds a synthetic retail-customer dataset from a small set of seed
tables, checks its referential integrity and writes every table as CSV.

Tables:
  - brands, products (seed catalog plus new capsules and accessories)
  - recipients (seed profiles plus segment, country, language, machine ownership)
  - purchases, wishlist, abandoned carts
  - segments (churn, NPS, reactivity and VIP scores)`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(config.Options{
			File:    configFile,
			EnvFile: envFile,
			Flags:   cmd.Flags(),
		})
		if err != nil {
			return err
		}
		l, err := logger.Init(c.Log.Level, c.Log.Format)
		if err != nil {
			return err
		}
		runID = uuid.NewString()
		slog.SetDefault(l.With("run_id", runID))
		cfg = c
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default demogen.yaml in . or $HOME/.config/demogen)")
	flags.StringVar(&envFile, "env-file", "", "Environment file to load (default .env)")
	flags.String("seed-dir", "", "Directory holding brands.csv, products.csv and recipients.csv")
	flags.String("out-dir", "", "Directory the generated tables are written to")
	flags.Uint64("seed", 0, "Random seed")
	flags.String("now", "", fmt.Sprintf("Reference date (%s)", config.DateLayout))
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

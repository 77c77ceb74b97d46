// Package config loads demogen settings from defaults, an optional YAML
// file, a .env file, DEMOGEN_* environment variables and command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/migration"
	"github.com/frescopa/demogen/pkg/model"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "DEMOGEN"

// DateLayout is the layout of the reference date.
const DateLayout = "2006-01-02"

// Config holds every setting.
type Config struct {
	SeedDir string `mapstructure:"seed_dir" validate:"required"`
	OutDir  string `mapstructure:"out_dir" validate:"required"`
	Seed    uint64 `mapstructure:"seed"`
	Now     string `mapstructure:"now" validate:"required,datetime=2006-01-02"`

	Wishlist struct {
		Fraction       float64 `mapstructure:"fraction" validate:"gte=0,lte=1"`
		Mode           string  `mapstructure:"mode" validate:"oneof=recent conversion"`
		ConversionRate float64 `mapstructure:"conversion_rate" validate:"gte=0,lte=1"`
	} `mapstructure:"wishlist"`

	Abandoned struct {
		Target int `mapstructure:"target" validate:"gte=0,lte=450000"`
	} `mapstructure:"abandoned"`

	Snapshots struct {
		Churn string `mapstructure:"churn" validate:"required,datetime=02/01/2006 15:04:05"`
		NPS   string `mapstructure:"nps" validate:"required,datetime=02/01/2006 15:04:05"`
		React string `mapstructure:"react" validate:"required,datetime=02/01/2006 15:04:05"`
		VIP   string `mapstructure:"vip" validate:"required,datetime=02/01/2006 15:04:05"`
	} `mapstructure:"snapshots"`

	Log struct {
		Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
		Format string `mapstructure:"format" validate:"oneof=text json"`
	} `mapstructure:"log"`

	Database struct {
		URL    string `mapstructure:"url"`
		LockID int64  `mapstructure:"lock_id" validate:"ne=0"`
	} `mapstructure:"database"`

	Metrics struct {
		File string `mapstructure:"file"`
	} `mapstructure:"metrics"`
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config file. When empty, demogen.yaml is searched
	// in the working directory and $HOME/.config/demogen.
	File string
	// EnvFile is loaded into the environment when present. Defaults to .env.
	EnvFile string
	// Flags are bound on top of every other source.
	Flags *pflag.FlagSet
}

// flagKeys maps command flag names to config keys.
var flagKeys = map[string]string{
	"seed-dir":        "seed_dir",
	"out-dir":         "out_dir",
	"seed":            "seed",
	"now":             "now",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"wishlist-mode":   "wishlist.mode",
	"abandoned":       "abandoned.target",
	"db":              "database.url",
	"lock-id":         "database.lock_id",
	"metrics-file":    "metrics.file",
	"conversion-rate": "wishlist.conversion_rate",
}

func setDefaults(v *viper.Viper) {
	opts := generator.DefaultOptions()
	v.SetDefault("seed_dir", "data-sample")
	v.SetDefault("out_dir", "data-augmented")
	v.SetDefault("seed", opts.Seed)
	v.SetDefault("now", opts.Now.Format(DateLayout))
	v.SetDefault("wishlist.fraction", opts.WishlistFraction)
	v.SetDefault("wishlist.mode", string(opts.WishlistMode))
	v.SetDefault("wishlist.conversion_rate", opts.ConversionRate)
	v.SetDefault("abandoned.target", opts.AbandonedTarget)
	v.SetDefault("snapshots.churn", opts.Snapshots.Churn.Format(model.SnapshotLayout))
	v.SetDefault("snapshots.nps", opts.Snapshots.NPS.Format(model.SnapshotLayout))
	v.SetDefault("snapshots.react", opts.Snapshots.React.Format(model.SnapshotLayout))
	v.SetDefault("snapshots.vip", opts.Snapshots.VIP.Format(model.SnapshotLayout))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.url", "")
	v.SetDefault("database.lock_id", migration.DefaultLockID)
	v.SetDefault("metrics.file", "")
}

// Load reads and validates the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("demogen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/demogen")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GeneratorOptions converts the configuration into generator options.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	now, err := time.Parse(DateLayout, c.Now)
	if err != nil {
		return generator.Options{}, fmt.Errorf("invalid reference date: %w", err)
	}
	snap := func(s string) (time.Time, error) {
		return time.Parse(model.SnapshotLayout, s)
	}
	var snaps generator.Snapshots
	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&snaps.Churn, c.Snapshots.Churn},
		{&snaps.NPS, c.Snapshots.NPS},
		{&snaps.React, c.Snapshots.React},
		{&snaps.VIP, c.Snapshots.VIP},
	} {
		t, err := snap(f.src)
		if err != nil {
			return generator.Options{}, fmt.Errorf("invalid snapshot date: %w", err)
		}
		*f.dst = t
	}
	return generator.Options{
		Seed:             c.Seed,
		Now:              now,
		WishlistFraction: c.Wishlist.Fraction,
		WishlistMode:     generator.WishlistMode(c.Wishlist.Mode),
		ConversionRate:   c.Wishlist.ConversionRate,
		AbandonedTarget:  c.Abandoned.Target,
		Snapshots:        snaps,
	}, nil
}

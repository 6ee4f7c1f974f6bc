package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds one run's configuration, loaded from the environment. The
// core treats it as immutable once loaded; the CLI may override individual
// fields from flags before Run.
type Config struct {
	// OutputPath is the persisted dataset; the extension selects the store
	// adapter (.csv, .txt, .xlsx, .db, .parquet, .json).
	OutputPath string `envconfig:"LINK" default:"scrapes.csv" validate:"required"`
	// CSVSep is the field separator for .csv/.txt outputs.
	CSVSep string `envconfig:"CSV_SEP" default:";" validate:"len=1"`
	// TickerFile is an optional text file with one symbol or CIK per line.
	TickerFile string `envconfig:"TICKER_LINK"`
	// RequestInterval is the minimum time between any two SEC requests,
	// shared across all workers.
	RequestInterval time.Duration `envconfig:"SEC_REQUEST_INTERVAL" default:"200ms" validate:"min=0"`
	// MaxRetries bounds retries of transient fetch failures.
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3" validate:"min=0,max=10"`
	// FilingLimit caps filings per issuer; -1 means unbounded.
	FilingLimit int `envconfig:"FILING_LIMIT" default:"-1" validate:"min=-1"`
	// CombineDates merges legs across different trade dates within one
	// (trade type, direction) group.
	CombineDates bool `envconfig:"COMBINE_DATES" default:"true"`
	// UserAgent identifies this client to the SEC; they want a contact.
	UserAgent string `envconfig:"USER_AGENT" default:"insider-data/1.0" validate:"required"`
	// Workers is the size of the per-issuer collection pool.
	Workers int `envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`
	// SavePolicy is one of rewrite, append, merge.
	SavePolicy string `envconfig:"SAVE_POLICY" default:"merge" validate:"oneof=rewrite append merge"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads configuration from the environment and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints. Called again after CLI overrides.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

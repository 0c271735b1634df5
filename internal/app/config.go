package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/recipegrid/internal/objectstore"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RecipePath string
	Inputs     []string // exposed to the recipe as file_inputs
	Outputs    []string // destinations of file_outputs, by index

	LogFormat   string
	LogLevel    string
	Workers     int
	JournalPath string // empty disables the journal
	Plan        bool   // print the tasks that would run and exit

	S3 objectstore.Config
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("Workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.S3.Enabled() {
		if err := cfg.S3.Validate(); err != nil {
			return nil, fmt.Errorf("invalid object store configuration: %w", err)
		}
	}
	return &cfg, nil
}

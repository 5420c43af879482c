package app

import (
	"context"

	"conversion-factory/internal/config"
)

// Options captures user-supplied CLI parameters before config/env enrichment.
type Options struct {
	Inputs     []string
	OutputPath string
	Converters []string
	Commands   []string
	Extension  string
	Type       string
	Collect    bool
	Workers    int
}

// Run is the entry point for the conversion workflow.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	return newRunner(cfg, opts).Execute(ctx)
}

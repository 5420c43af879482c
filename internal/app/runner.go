package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"conversion-factory/internal/config"
	"conversion-factory/internal/converter"
	"conversion-factory/internal/factory"
)

type runner struct {
	cfg   *config.Config
	opts  Options
	log   *log.Logger
	stats runStats
}

type runStats struct {
	inputs       int
	performers   int
	converted    int
	failed       int
	writtenBytes int64
}

func newRunner(cfg *config.Config, opts Options) *runner {
	return &runner{
		cfg:  cfg,
		opts: opts,
		log:  log.New(os.Stdout, "convfactory: ", log.LstdFlags),
	}
}

func (r *runner) Execute(ctx context.Context) error {
	if err := r.validateInputs(); err != nil {
		return err
	}
	if r.opts.Collect {
		r.cfg.SetRaiseOnError(false)
	}

	inputs, err := r.expandInputs()
	if err != nil {
		return err
	}
	performers, err := r.performers()
	if err != nil {
		return err
	}
	r.stats.inputs = len(inputs)
	r.stats.performers = len(performers)
	r.log.Printf("Converting %d input(s) with %d converter(s)", len(inputs), len(performers))

	opts := []factory.Option{
		factory.WithConfig(r.cfg),
		factory.WithLogger(r.log),
		factory.WithWorkers(r.opts.Workers),
	}
	if r.opts.OutputPath != "" {
		opts = append(opts, factory.WithOutputPath(r.opts.OutputPath))
	}

	b, err := factory.New(inputs, performers, opts...)
	if err != nil {
		return err
	}

	results, err := b.Run(ctx)
	for _, res := range results {
		target := res.Request.Target()
		if info, statErr := os.Stat(target); statErr == nil {
			r.stats.writtenBytes += info.Size()
		}
		r.log.Printf("%s: %s -> %s", res.Converter, res.Request.Input, target)
	}
	r.stats.converted = len(results)
	r.stats.failed = len(b.Errors())
	if err != nil {
		return err
	}

	r.log.Printf("Conversion complete (%d converted, %d failed, wrote %s)", r.stats.converted, r.stats.failed, humanBytes(r.stats.writtenBytes))
	if r.stats.failed > 0 {
		for _, line := range b.Errors().Strings() {
			r.log.Printf("failure: %s", line)
		}
		return fmt.Errorf("%d conversion(s) failed", r.stats.failed)
	}
	return nil
}

func (r *runner) validateInputs() error {
	if len(r.opts.Inputs) == 0 {
		return fmt.Errorf("at least one input is required")
	}
	if len(r.opts.Converters) == 0 && len(r.opts.Commands) == 0 {
		return fmt.Errorf("at least one converter or command is required")
	}
	if r.opts.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", r.opts.Workers)
	}
	if r.opts.OutputPath != "" {
		info, err := os.Stat(r.opts.OutputPath)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("output path %q is not a directory", r.opts.OutputPath)
		}
	}
	return nil
}

// expandInputs resolves glob patterns in declaration order. A pattern with
// no match is kept verbatim so the build reports it as a missing file.
func (r *runner) expandInputs() ([]factory.InputSource, error) {
	var paths []string
	for _, pattern := range r.opts.Inputs {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			paths = append(paths, pattern)
			continue
		}
		paths = append(paths, matches...)
	}

	paths = lo.Uniq(lo.Map(paths, func(p string, _ int) string {
		return filepath.Clean(p)
	}))
	return lo.Map(paths, func(p string, _ int) factory.InputSource {
		return factory.Path(p)
	}), nil
}

func (r *runner) performers() ([]factory.PerformerSource, error) {
	var convs []factory.Converter
	for _, name := range r.opts.Converters {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "copy":
			convs = append(convs, converter.Copy{})
		case "zip":
			convs = append(convs, converter.Zip{})
		default:
			return nil, fmt.Errorf("unknown converter %q (use copy or zip)", name)
		}
	}
	for _, line := range r.opts.Commands {
		c, err := converter.NewCommand(line)
		if err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", line, err)
		}
		convs = append(convs, c)
	}

	return lo.Map(convs, func(c factory.Converter, _ int) factory.PerformerSource {
		return factory.PerformerSpec{
			Converter:       c,
			OutputExtension: r.opts.Extension,
			OutputType:      r.opts.Type,
		}
	}), nil
}

func humanBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(1024), 0
	for m := n / 1024; m >= 1024 && exp < 4; m /= 1024 {
		div *= 1024
		exp++
	}
	value := float64(n) / float64(div)
	unit := []string{"KB", "MB", "GB", "TB", "PB"}[exp]
	return fmt.Sprintf("%.1f %s", value, unit)
}

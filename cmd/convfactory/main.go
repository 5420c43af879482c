package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"conversion-factory/internal/app"
	"conversion-factory/internal/config"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) (app.Options, error) {
	fs := flag.NewFlagSet("convfactory", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var inputs, converters, commands stringList
	fs.Var(&inputs, "input", "Input file or glob pattern, e.g. 'docs/**/*.html' (repeatable, required)")
	fs.Var(&converters, "converter", "Built-in converter: copy or zip (repeatable)")
	fs.Var(&commands, "exec", "External command template, e.g. 'wkhtmltoimage {{.Input}} {{.Output}}' (repeatable)")
	outputPath := fs.String("output-path", "", "Output directory (defaults to "+config.EnvOutputPath+" or the temp dir)")
	extension := fs.String("extension", "", "Output extension applied to every converter")
	outputType := fs.String("type", "", "Output type applied to every converter")
	collect := fs.Bool("collect", false, "Record failures and keep converting instead of stopping at the first one")
	workers := fs.Int("workers", 1, "Number of conversions to run at once")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s --input <path|glob> (--converter <name> | --exec <template>) [options]\n\n", os.Args[0])
		fmt.Fprintf(fs.Output(), "Environment: %s and %s are optional and may be set in .env.\n", config.EnvOutputPath, config.EnvRaiseOnError)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return app.Options{}, err
	}

	var missing []string
	if len(inputs) == 0 {
		missing = append(missing, "--input")
	}
	if len(converters) == 0 && len(commands) == 0 {
		missing = append(missing, "--converter or --exec")
	}
	if len(missing) > 0 {
		fs.Usage()
		return app.Options{}, fmt.Errorf("missing required flag(s): %s", strings.Join(missing, ", "))
	}

	return app.Options{
		Inputs:     inputs,
		OutputPath: strings.TrimSpace(*outputPath),
		Converters: converters,
		Commands:   commands,
		Extension:  strings.TrimSpace(*extension),
		Type:       strings.TrimSpace(*outputType),
		Collect:    *collect,
		Workers:    *workers,
	}, nil
}

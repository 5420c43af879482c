package factory

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"conversion-factory/internal/config"
)

// State is the lifecycle position of a Build.
type State string

const (
	StateConstructed State = "constructed"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateAborted     State = "aborted"
)

// Build runs every input file through every performer.
//
// Failures are first recorded in Errors, then either returned immediately
// (the configuration raises on error) or skipped so the run continues.
// The raise flag is read at each failure. Errors accumulate across runs.
type Build struct {
	id         uuid.UUID
	inputFiles []*InputFile
	performers []*Performer
	outputPath string

	cfg     *config.Config
	fs      FileSystem
	sniffer Sniffer
	log     *log.Logger
	workers int

	mu     sync.Mutex
	state  State
	errors ErrorList
}

// Option configures a Build.
type Option func(*Build)

// WithOutputPath sets the batch-level output directory. Without it the
// configuration's default at construction time is used.
func WithOutputPath(path string) Option {
	return func(b *Build) { b.outputPath = path }
}

// WithConfig sets the policy handle. Without it config.Shared() is used.
func WithConfig(cfg *config.Config) Option {
	return func(b *Build) { b.cfg = cfg }
}

// WithFileSystem replaces the OS file system used for input checks and output directories.
func WithFileSystem(fsys FileSystem) Option {
	return func(b *Build) { b.fs = fsys }
}

// WithSniffer sets how missing content types are detected.
func WithSniffer(s Sniffer) Option {
	return func(b *Build) { b.sniffer = s }
}

// WithLogger sets where failures and run transitions are logged.
func WithLogger(l *log.Logger) Option {
	return func(b *Build) { b.log = l }
}

// WithWorkers runs up to n pairs at once. Values below 2 keep the run sequential.
func WithWorkers(n int) Option {
	return func(b *Build) { b.workers = n }
}

// New normalizes inputs and performers into a Build.
//
// A failing input is recorded like any run failure: with raise-on-error it
// is returned and no Build is produced, otherwise the input is left out.
func New(inputs []InputSource, performers []PerformerSource, opts ...Option) (*Build, error) {
	b := &Build{
		id:    uuid.New(),
		state: StateConstructed,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cfg == nil {
		b.cfg = config.Shared()
	}
	if b.fs == nil {
		b.fs = OSFileSystem{}
	}
	if b.sniffer == nil {
		b.sniffer = MIMESniffer{}
	}
	if b.log == nil {
		b.log = log.New(io.Discard, "", 0)
	}
	if b.outputPath == "" {
		b.outputPath = b.cfg.OutputPath()
	}

	for _, src := range inputs {
		if src == nil {
			continue
		}
		f, err := src.inputFile(b.fs, b.sniffer)
		if err != nil {
			if b.fail(err) {
				return nil, err
			}
			continue
		}
		b.inputFiles = append(b.inputFiles, f)
	}

	for _, src := range performers {
		if src == nil {
			continue
		}
		p, err := src.performer(b.outputPath, b.fs)
		if err != nil {
			if b.fail(err) {
				return nil, err
			}
			continue
		}
		b.performers = append(b.performers, p)
	}

	b.log.Printf("build %s: %d input(s), %d performer(s), output path %q", b.id, len(b.inputFiles), len(b.performers), b.outputPath)
	return b, nil
}

// ID identifies the build in logs and results.
func (b *Build) ID() string {
	return b.id.String()
}

// OutputPath is the batch-level output directory resolved at construction.
func (b *Build) OutputPath() string {
	return b.outputPath
}

// InputFiles returns the normalized inputs in declaration order. The
// returned files may be adjusted before Run.
func (b *Build) InputFiles() []*InputFile {
	return append([]*InputFile(nil), b.inputFiles...)
}

// Performers returns the normalized performers in declaration order.
func (b *Build) Performers() []*Performer {
	return append([]*Performer(nil), b.performers...)
}

// State reports the current lifecycle stage of the build.
func (b *Build) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Errors returns a copy of the recorded failures; nil until the first one.
func (b *Build) Errors() ErrorList {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errors == nil {
		return nil
	}
	return append(ErrorList(nil), b.errors...)
}

// PushError records v as a failure without applying the raise policy.
func (b *Build) PushError(v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errors.Push(v)
}

// fail records err and reports whether it must be returned to the caller.
func (b *Build) fail(err error) bool {
	b.PushError(err)
	b.log.Printf("build %s: %s: %v", b.id, KindOf(err), err)
	return b.cfg.RaiseOnError()
}

func (b *Build) setState(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
}

// Run converts each input with each performer: inputs in the outer loop,
// performers in the inner one. It returns the successful pairs in that order.
func (b *Build) Run(ctx context.Context) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b.setState(StateRunning)

	var (
		results []Result
		err     error
	)
	if b.workers > 1 {
		results, err = b.runParallel(ctx)
	} else {
		results, err = b.runSerial(ctx)
	}

	if err != nil {
		b.setState(StateAborted)
		return results, err
	}
	b.setState(StateCompleted)
	b.log.Printf("build %s: %d conversion(s) succeeded, %d failure(s) recorded", b.id, len(results), len(b.Errors()))
	return results, nil
}

func (b *Build) runSerial(ctx context.Context) ([]Result, error) {
	var results []Result
	for _, in := range b.inputFiles {
		for _, p := range b.performers {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res, err := b.runPair(ctx, in, p)
			if err != nil {
				if b.fail(err) {
					return results, err
				}
				continue
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (b *Build) runPair(ctx context.Context, in *InputFile, p *Performer) (Result, error) {
	b.log.Printf("build %s: %s -> %s", b.id, in.Source(), p.Name())
	req, err := p.Run(ctx, in)
	if err != nil {
		return Result{}, err
	}
	return Result{BuildID: b.ID(), Converter: p.Name(), Request: req}, nil
}

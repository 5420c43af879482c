package factory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"conversion-factory/internal/config"
)

var errConvert = errors.New("conversion failed")

// recorder is a converter that remembers every request it receives.
type recorder struct {
	name    string
	ext     string
	typ     string
	failFor map[string]bool

	mu    sync.Mutex
	calls []Request
}

func (r *recorder) Convert(_ context.Context, req Request) error {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	if r.failFor[filepath.Base(req.Input)] {
		return errConvert
	}
	return nil
}

func (r *recorder) Name() string                   { return r.name }
func (r *recorder) DefaultOutputExtension() string { return r.ext }
func (r *recorder) DefaultOutputType() string      { return r.typ }

func (r *recorder) requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.calls...)
}

// bare implements only Convert.
type bare struct{}

func (bare) Convert(context.Context, Request) error { return nil }

// orderLog records the sequence of pairs across several converters.
type orderLog struct {
	mu    sync.Mutex
	pairs []string
}

func (o *orderLog) converter(name string) Converter {
	return ConverterFunc(func(_ context.Context, req Request) error {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.pairs = append(o.pairs, filepath.Base(req.Input)+"x"+name)
		return nil
	})
}

var fixedType = SnifferFunc(func(string) (string, error) { return "text/html", nil })

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collectAll() *config.Config {
	cfg := config.Default()
	cfg.SetRaiseOnError(false)
	return cfg
}

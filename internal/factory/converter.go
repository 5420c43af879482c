package factory

import (
	"context"
	"fmt"
	"path/filepath"
)

// Request carries the effective parameters of one input x performer pair.
type Request struct {
	Input           string
	ContentType     string
	OutputFilename  string
	OutputPath      string
	OutputExtension string
	OutputType      string
}

// Target is the file a converter is expected to write.
func (r Request) Target() string {
	return filepath.Join(r.OutputPath, r.OutputFilename+"."+r.OutputExtension)
}

// Converter performs the actual content transformation. Whatever error it
// returns is recorded by the build unchanged.
type Converter interface {
	Convert(ctx context.Context, req Request) error
}

// ExtensionDefaulter is implemented by converters that know their usual
// output extension. An empty string means no default.
type ExtensionDefaulter interface {
	DefaultOutputExtension() string
}

// TypeDefaulter is implemented by converters that know their usual output type.
type TypeDefaulter interface {
	DefaultOutputType() string
}

// Namer gives a converter a display name for diagnostics.
type Namer interface {
	Name() string
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, req Request) error

func (f ConverterFunc) Convert(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// ConverterName returns the converter's display name, falling back to its type.
func ConverterName(c Converter) string {
	if n, ok := c.(Namer); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", c)
}

func defaultExtension(c Converter) string {
	if d, ok := c.(ExtensionDefaulter); ok {
		return d.DefaultOutputExtension()
	}
	return ""
}

func defaultType(c Converter) string {
	if d, ok := c.(TypeDefaulter); ok {
		return d.DefaultOutputType()
	}
	return ""
}

// Result describes one successful conversion.
type Result struct {
	BuildID   string
	Converter string
	Request   Request
}

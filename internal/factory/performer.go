package factory

import (
	"context"
	"fmt"
)

// Performer binds a converter to batch-level output defaults.
type Performer struct {
	Converter       Converter
	OutputPath      string
	OutputExtension string
	OutputType      string

	fs FileSystem
}

// PerformerSpec describes a performer before the build fills in its
// fallback output path.
type PerformerSpec struct {
	Converter       Converter
	OutputPath      string
	OutputExtension string
	OutputType      string
}

// PerformerSource is anything a build can turn into a Performer.
type PerformerSource interface {
	performer(fallbackPath string, fsys FileSystem) (*Performer, error)
}

// NewPerformer binds spec.Converter. The performer never consults the
// configuration itself; callers pass any fallback path in spec.OutputPath.
// A nil fsys selects OSFileSystem.
func NewPerformer(spec PerformerSpec, fsys FileSystem) *Performer {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Performer{
		Converter:       spec.Converter,
		OutputPath:      spec.OutputPath,
		OutputExtension: spec.OutputExtension,
		OutputType:      spec.OutputType,
		fs:              fsys,
	}
}

// Name is the display name of the bound converter.
func (p *Performer) Name() string {
	if p.Converter == nil {
		return "<nil converter>"
	}
	return ConverterName(p.Converter)
}

// Resolve applies the override cascade for in without converting anything.
// The file wins over the performer, which wins over the converter's defaults.
func (p *Performer) Resolve(in *InputFile) (Request, error) {
	req := Request{
		Input:          in.Source(),
		ContentType:    in.ContentType,
		OutputFilename: in.OutputFilename,
	}

	req.OutputPath = firstNonEmpty(in.OutputPath, p.OutputPath)
	if req.OutputPath == "" {
		return req, newError(ErrEmptyOutputPath, "Empty output path to %s and %s", in.Source(), p.Name())
	}

	req.OutputExtension = firstNonEmpty(in.OutputExtension, p.OutputExtension)
	if req.OutputExtension == "" && p.Converter != nil {
		req.OutputExtension = defaultExtension(p.Converter)
	}
	if req.OutputExtension == "" {
		return req, newError(ErrEmptyOutputExtension, "Empty output extension to %s and %s", in.Source(), p.Name())
	}

	req.OutputType = firstNonEmpty(in.OutputType, p.OutputType)
	if req.OutputType == "" && p.Converter != nil {
		req.OutputType = defaultType(p.Converter)
	}
	if req.OutputType == "" {
		return req, newError(ErrEmptyOutputType, "Empty output type to %s and %s", in.Source(), p.Name())
	}

	return req, nil
}

// Run resolves the effective parameters for in, creates the output
// directory when missing, and delegates to the converter.
func (p *Performer) Run(ctx context.Context, in *InputFile) (Request, error) {
	if p.Converter == nil {
		return Request{}, newError(ErrUnknown, "No converter bound to process %s", in.Source())
	}

	req, err := p.Resolve(in)
	if err != nil {
		return req, err
	}

	fsys := p.fs
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if !fsys.Exists(req.OutputPath) {
		if err := fsys.MkdirAll(req.OutputPath); err != nil {
			return req, fmt.Errorf("create output path %q: %w", req.OutputPath, err)
		}
	}

	return req, p.Converter.Convert(ctx, req)
}

// performer hands back p itself when it already names an output path.
// Otherwise the build gets a copy carrying its fallback path.
func (p *Performer) performer(fallbackPath string, fsys FileSystem) (*Performer, error) {
	if p.OutputPath != "" {
		return p, nil
	}
	cp := *p
	cp.OutputPath = fallbackPath
	if cp.fs == nil {
		cp.fs = fsys
	}
	return &cp, nil
}

func (s PerformerSpec) performer(fallbackPath string, fsys FileSystem) (*Performer, error) {
	if s.Converter == nil {
		return nil, newError(ErrUnknown, "performer has no converter")
	}
	if s.OutputPath == "" {
		s.OutputPath = fallbackPath
	}
	return NewPerformer(s, fsys), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

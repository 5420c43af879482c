package factory

import (
	"path/filepath"
)

// InputFile is one source document plus its per-file output overrides.
//
// The source is fixed at construction. ContentType and OutputFilename are
// derived once when not supplied and never re-derived; the remaining fields
// are plain overrides that may be replaced until the owning build runs.
type InputFile struct {
	source string

	ContentType     string
	OutputPath      string
	OutputFilename  string
	OutputExtension string
	OutputType      string
}

// InputSpec describes an input file before validation.
type InputSpec struct {
	Source          string
	ContentType     string
	OutputPath      string
	OutputFilename  string
	OutputExtension string
	OutputType      string
}

// Path is an input given only by its source path.
type Path string

// InputSource is anything a build can turn into an InputFile.
type InputSource interface {
	inputFile(fsys FileSystem, sniffer Sniffer) (*InputFile, error)
}

// NewInputFile validates spec.Source and resolves the derived fields.
// A nil fsys or sniffer selects OSFileSystem or MIMESniffer.
func NewInputFile(spec InputSpec, fsys FileSystem, sniffer Sniffer) (*InputFile, error) {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	if sniffer == nil {
		sniffer = MIMESniffer{}
	}

	if spec.Source == "" || !fsys.IsRegularFile(spec.Source) {
		return nil, newError(ErrNonExistentFile, "Non-existent file %q", spec.Source)
	}

	f := &InputFile{
		source:          spec.Source,
		ContentType:     spec.ContentType,
		OutputPath:      spec.OutputPath,
		OutputFilename:  spec.OutputFilename,
		OutputExtension: spec.OutputExtension,
		OutputType:      spec.OutputType,
	}

	if f.ContentType == "" {
		ct, err := sniffer.Detect(f.source)
		if err != nil {
			return nil, &Error{
				Kind: ErrUndetectableContentType,
				Msg:  "Undetectable content type of " + f.source,
				Err:  err,
			}
		}
		f.ContentType = ct
	}
	if f.OutputFilename == "" {
		f.OutputFilename = filepath.Base(f.source)
	}

	return f, nil
}

// Source returns the path of the source document.
func (f *InputFile) Source() string {
	return f.source
}

func (f *InputFile) inputFile(FileSystem, Sniffer) (*InputFile, error) {
	return f, nil
}

func (s InputSpec) inputFile(fsys FileSystem, sniffer Sniffer) (*InputFile, error) {
	return NewInputFile(s, fsys, sniffer)
}

func (p Path) inputFile(fsys FileSystem, sniffer Sniffer) (*InputFile, error) {
	return NewInputFile(InputSpec{Source: string(p)}, fsys, sniffer)
}

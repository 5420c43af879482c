package factory

import (
	"mime"
	"os"
	"strings"

	"github.com/wailsapp/mimetype"
)

// FileSystem is the set of path primitives the factory relies on.
type FileSystem interface {
	Exists(path string) bool
	IsRegularFile(path string) bool
	// MkdirAll must succeed when the directory already exists, including
	// when another goroutine created it concurrently.
	MkdirAll(path string) error
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Sniffer guesses the media type of a file from its content.
type Sniffer interface {
	Detect(path string) (string, error)
}

// SnifferFunc adapts a function to the Sniffer interface.
type SnifferFunc func(path string) (string, error)

func (f SnifferFunc) Detect(path string) (string, error) {
	return f(path)
}

// MIMESniffer detects media types from file signatures. Parameters such as
// charset are dropped, so an HTML page reports "text/html".
type MIMESniffer struct{}

func (MIMESniffer) Detect(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return baseMediaType(m.String()), nil
}

func baseMediaType(raw string) string {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType, _, _ = strings.Cut(raw, ";")
	}
	return strings.TrimSpace(mediaType)
}

package converter

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"conversion-factory/internal/factory"
)

// Zip packs the input into a single-entry deflated archive.
type Zip struct {
	// InputTypes limits the content types Zip accepts. Empty accepts any.
	InputTypes []string
}

func (Zip) Name() string                   { return "Zip" }
func (Zip) DefaultOutputExtension() string { return "zip" }
func (Zip) DefaultOutputType() string      { return "application/zip" }

func (z Zip) Convert(ctx context.Context, req factory.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := acceptInput("zip", z.InputTypes, req); err != nil {
		return err
	}
	if req.OutputType != "application/zip" {
		return fmt.Errorf("zip: %w %q", factory.ErrInvalidOutputType, req.OutputType)
	}

	src, err := os.Open(req.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	target := req.Target()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create archive %q: %w", target, err)
	}

	if err := writeEntry(out, src, info); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("write archive %q: %w", target, err)
	}
	return out.Close()
}

func writeEntry(w io.Writer, src io.Reader, info os.FileInfo) error {
	zw := zip.NewWriter(w)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(info.Name())
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, src); err != nil {
		return err
	}
	return zw.Close()
}

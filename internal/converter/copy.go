// Package converter provides converter capabilities for the conversion
// factory: plain copies, zip archives and external commands.
package converter

import (
	"context"
	"fmt"
	"io"
	"os"

	"conversion-factory/internal/factory"
)

// Copy writes the input unchanged to the request target. It has no default
// extension or type, so those must come from the file or the performer.
type Copy struct{}

func (Copy) Name() string { return "Copy" }

func (Copy) Convert(ctx context.Context, req factory.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(req.Input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if err := copyFile(req.Input, req.Target(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("copy %s: %w", req.Input, err)
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package converter

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"conversion-factory/internal/factory"
)

// acceptInput rejects req when accepted is non-empty and does not list its
// content type. Media types compare case-insensitively.
func acceptInput(name string, accepted []string, req factory.Request) error {
	if len(accepted) == 0 {
		return nil
	}
	if lo.ContainsBy(accepted, func(t string) bool { return strings.EqualFold(t, req.ContentType) }) {
		return nil
	}
	return fmt.Errorf("%s: %w %q", name, factory.ErrInvalidInputType, req.ContentType)
}

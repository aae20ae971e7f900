package gamification

import (
	"fmt"

	"github.com/cpapath/cpapath/internal/progress"
)

// ErrInvalidArgument marks numeric or identifier input outside the accepted
// domain. It is the same sentinel the ledger returns.
var ErrInvalidArgument = progress.ErrInvalidArgument

// CatalogError reports why a catalog failed validation.
type CatalogError struct {
	Field string
	Err   error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Field, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

func catalogErrorf(field, format string, args ...any) *CatalogError {
	return &CatalogError{Field: field, Err: fmt.Errorf(format, args...)}
}

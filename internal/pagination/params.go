package pagination

import (
	"errors"
	"fmt"
)

// Page size and headless limits.
const (
	DefaultPageSize = 50
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultMaxPages = 10
	MinMaxPages     = 1
	MaxMaxPages     = 1000

	// DefaultPrefetchThreshold is how many rows from the end of the list the
	// selection must reach before another page is requested.
	DefaultPrefetchThreshold = 5
)

// Common validation errors.
var (
	ErrInvalidPageSize  = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidMaxPages  = fmt.Errorf("max-pages must be between %d and %d", MinMaxPages, MaxMaxPages)
	ErrInvalidThreshold = errors.New("prefetch threshold cannot be negative")
)

// Params holds the paging knobs shared by the TUI and the plain renderer.
type Params struct {
	// PageSize is the number of members requested per page.
	PageSize int

	// MaxPages caps how many pages the plain renderer fetches.
	MaxPages int

	// PrefetchThreshold is the distance from the last row that triggers load-more.
	PrefetchThreshold int
}

// NewParams creates Params with default values.
func NewParams() Params {
	return Params{
		PageSize:          DefaultPageSize,
		MaxPages:          DefaultMaxPages,
		PrefetchThreshold: DefaultPrefetchThreshold,
	}
}

// Validate checks the parameters are within bounds.
func (p Params) Validate() error {
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.MaxPages < MinMaxPages || p.MaxPages > MaxMaxPages {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxPages, p.MaxPages)
	}
	if p.PrefetchThreshold < 0 {
		return ErrInvalidThreshold
	}
	return nil
}

// WithDefaults fills zero fields with defaults.
func (p Params) WithDefaults() Params {
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.MaxPages == 0 {
		p.MaxPages = DefaultMaxPages
	}
	return p
}

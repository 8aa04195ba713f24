package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/phonon-explorer/pkg/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

var (
	ErrNotFound      = errors.New("row not found")
	ErrUnknownColumn = errors.New("unknown column")
)

// TableQuery selects a page of the dataset table.
type TableQuery struct {
	Page     int
	PageSize int
	SortBy   string
	Desc     bool
	// Filters maps a column to a case-insensitive substring its cells must contain.
	Filters map[string]string
}

// Normalize fills in paging defaults.
func (q TableQuery) Normalize() TableQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset returns the index of the first row of the page.
func (q TableQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// TableRepository defines the interface for dataset table operations
type TableRepository interface {
	Columns(ctx context.Context) ([]string, error)
	List(ctx context.Context, q TableQuery) (*models.DatasetPage, error)
	Row(ctx context.Context, index int) (*models.DatasetRow, error)
}

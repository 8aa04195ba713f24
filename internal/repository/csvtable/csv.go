// Package csvtable serves the structure dataset from a CSV file held in memory.
package csvtable

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/RMahshie/phonon-explorer/internal/repository"
	"github.com/RMahshie/phonon-explorer/pkg/models"
)

// CSVTableRepository implements TableRepository over a parsed CSV file
type CSVTableRepository struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// Load reads the CSV file at path. The first record is the header.
func Load(path string) (*CSVTableRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a CSV table from r.
func Parse(r io.Reader) (*CSVTableRepository, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse dataset: missing header row")
	}
	return New(records[0], records[1:]), nil
}

// New wraps already-parsed columns and rows.
func New(columns []string, rows [][]string) *CSVTableRepository {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &CSVTableRepository{columns: columns, rows: rows, index: idx}
}

// Columns returns the header.
func (r *CSVTableRepository) Columns(ctx context.Context) ([]string, error) {
	return append([]string(nil), r.columns...), nil
}

// Records returns the header and every row, for seeding other backends.
func (r *CSVTableRepository) Records() ([]string, [][]string) {
	return r.columns, r.rows
}

// List filters, sorts and pages the rows.
func (r *CSVTableRepository) List(ctx context.Context, q repository.TableQuery) (*models.DatasetPage, error) {
	q = q.Normalize()

	type filter struct {
		col    int
		needle string
	}
	var filters []filter
	for col, v := range q.Filters {
		i, ok := r.index[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, col)
		}
		filters = append(filters, filter{col: i, needle: strings.ToLower(v)})
	}

	var matched []int
rows:
	for i, row := range r.rows {
		for _, f := range filters {
			if !strings.Contains(strings.ToLower(row[f.col]), f.needle) {
				continue rows
			}
		}
		matched = append(matched, i)
	}

	if q.SortBy != "" {
		col, ok := r.index[q.SortBy]
		if !ok {
			return nil, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, q.SortBy)
		}
		sort.SliceStable(matched, func(a, b int) bool {
			x, y := r.rows[matched[a]][col], r.rows[matched[b]][col]
			if q.Desc {
				return less(y, x)
			}
			return less(x, y)
		})
	}

	page := &models.DatasetPage{
		Columns:  append([]string(nil), r.columns...),
		Rows:     []models.DatasetRow{},
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    len(matched),
	}
	start := q.Offset()
	if start >= len(matched) {
		return page, nil
	}
	end := min(start+q.PageSize, len(matched))
	for _, i := range matched[start:end] {
		page.Rows = append(page.Rows, models.DatasetRow{Index: i, Cells: append([]string(nil), r.rows[i]...)})
	}
	return page, nil
}

// Row returns the row at index.
func (r *CSVTableRepository) Row(ctx context.Context, index int) (*models.DatasetRow, error) {
	if index < 0 || index >= len(r.rows) {
		return nil, fmt.Errorf("%w: %d", repository.ErrNotFound, index)
	}
	return &models.DatasetRow{Index: index, Cells: append([]string(nil), r.rows[index]...)}, nil
}

// less orders numbers before text. Numbers compare by value and text
// compares lexically.
func less(a, b string) bool {
	fa, numA := number(a)
	fb, numB := number(b)
	switch {
	case numA && numB:
		return fa < fb
	case numA != numB:
		return numA
	default:
		return a < b
	}
}

func number(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

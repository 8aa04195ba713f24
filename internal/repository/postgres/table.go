package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RMahshie/phonon-explorer/internal/repository"
	"github.com/RMahshie/phonon-explorer/pkg/models"
)

// Schema creates the dataset tables. Rows are stored as JSON objects keyed by column name.
const Schema = `
CREATE TABLE IF NOT EXISTS dataset_columns (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS dataset_rows (
	row_index INTEGER PRIMARY KEY,
	data      JSONB NOT NULL
);`

// PostgresTableRepository implements TableRepository for PostgreSQL
type PostgresTableRepository struct {
	db *sql.DB
}

// NewPostgresTableRepository creates a new PostgreSQL dataset table repository
func NewPostgresTableRepository(db *sql.DB) *PostgresTableRepository {
	return &PostgresTableRepository{db: db}
}

// Migrate creates the dataset tables if they are missing
func (r *PostgresTableRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// Import replaces the table contents with columns and rows
func (r *PostgresTableRepository) Import(ctx context.Context, columns []string, rows [][]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE dataset_columns, dataset_rows`); err != nil {
		return fmt.Errorf("failed to clear dataset: %w", err)
	}

	for i, name := range columns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_columns (position, name) VALUES ($1, $2)`, i, name); err != nil {
			return fmt.Errorf("failed to insert column %q: %w", name, err)
		}
	}

	for i, row := range rows {
		data := make(map[string]string, len(columns))
		for j, name := range columns {
			if j < len(row) {
				data[name] = row[j]
			}
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dataset_rows (row_index, data) VALUES ($1, $2)`, i, raw); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Columns returns the column names in position order
func (r *PostgresTableRepository) Columns(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM dataset_columns ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// List filters, sorts and pages the rows
func (r *PostgresTableRepository) List(ctx context.Context, q repository.TableQuery) (*models.DatasetPage, error) {
	q = q.Normalize()

	columns, err := r.Columns(ctx)
	if err != nil {
		return nil, err
	}

	var where []string
	var args []any
	keys := make([]string, 0, len(q.Filters))
	for col := range q.Filters {
		keys = append(keys, col)
	}
	slices.Sort(keys)
	for _, col := range keys {
		if !slices.Contains(columns, col) {
			return nil, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, col)
		}
		args = append(args, col, "%"+escapeLike(q.Filters[col])+"%")
		where = append(where, fmt.Sprintf("data->>$%d ILIKE $%d", len(args)-1, len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dataset_rows `+whereClause, args...).Scan(&total); err != nil {
		return nil, err
	}

	orderClause := "ORDER BY row_index"
	if q.SortBy != "" {
		if !slices.Contains(columns, q.SortBy) {
			return nil, fmt.Errorf("%w: %s", repository.ErrUnknownColumn, q.SortBy)
		}
		args = append(args, q.SortBy)
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		orderClause = fmt.Sprintf("ORDER BY data->>$%d %s, row_index", len(args), dir)
	}

	args = append(args, q.PageSize, q.Offset())
	query := fmt.Sprintf(`
		SELECT row_index, data
		FROM dataset_rows
		%s
		%s
		LIMIT $%d OFFSET $%d`, whereClause, orderClause, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &models.DatasetPage{
		Columns:  columns,
		Rows:     []models.DatasetRow{},
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    total,
	}
	for rows.Next() {
		var index int
		var raw []byte
		if err := rows.Scan(&index, &raw); err != nil {
			return nil, err
		}
		row, err := decodeRow(index, raw, columns)
		if err != nil {
			return nil, err
		}
		page.Rows = append(page.Rows, *row)
	}
	return page, rows.Err()
}

// Row retrieves a row by its index
func (r *PostgresTableRepository) Row(ctx context.Context, index int) (*models.DatasetRow, error) {
	columns, err := r.Columns(ctx)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = r.db.QueryRowContext(ctx,
		`SELECT data FROM dataset_rows WHERE row_index = $1`, index).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", repository.ErrNotFound, index)
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(index, raw, columns)
}

func decodeRow(index int, raw []byte, columns []string) (*models.DatasetRow, error) {
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode row %d: %w", index, err)
	}
	cells := make([]string, len(columns))
	for i, name := range columns {
		cells[i] = data[name]
	}
	return &models.DatasetRow{Index: index, Cells: cells}, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

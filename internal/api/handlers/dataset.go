package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/phonon-explorer/internal/repository"
	"github.com/RMahshie/phonon-explorer/pkg/models"
)

// DatasetHandler serves the structure dataset table
type DatasetHandler struct {
	repo repository.TableRepository
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(repo repository.TableRepository) *DatasetHandler {
	return &DatasetHandler{repo: repo}
}

// ListDataset returns one filtered, sorted page of the table
func (h *DatasetHandler) ListDataset(ctx context.Context, req *models.ListDatasetRequest) (*models.ListDatasetResponse, error) {
	filters := make(map[string]string, len(req.Filter))
	for _, f := range req.Filter {
		col, val, ok := strings.Cut(f, ":")
		if !ok || col == "" {
			return nil, huma.Error400BadRequest("Filters must look like column:value")
		}
		filters[col] = val
	}

	page, err := h.repo.List(ctx, repository.TableQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		SortBy:   req.Sort,
		Desc:     req.Desc,
		Filters:  filters,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUnknownColumn) {
			return nil, huma.Error400BadRequest(err.Error(), err)
		}
		return nil, huma.Error500InternalServerError("Failed to load dataset", err)
	}
	return &models.ListDatasetResponse{Body: *page}, nil
}

// GetDatasetRow returns a single selected row
func (h *DatasetHandler) GetDatasetRow(ctx context.Context, req *models.GetDatasetRowRequest) (*models.GetDatasetRowResponse, error) {
	row, err := h.repo.Row(ctx, req.Index)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Row not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to load row", err)
	}

	columns, err := h.repo.Columns(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load columns", err)
	}

	return &models.GetDatasetRowResponse{
		Body: models.GetDatasetRowResponseBody{Columns: columns, Row: *row},
	}, nil
}

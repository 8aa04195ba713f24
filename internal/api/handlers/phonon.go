package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/phonon-explorer/internal/catalog"
	"github.com/RMahshie/phonon-explorer/internal/phonon"
	"github.com/RMahshie/phonon-explorer/internal/plotting"
	"github.com/RMahshie/phonon-explorer/internal/render"
	"github.com/RMahshie/phonon-explorer/internal/storage"
	"github.com/RMahshie/phonon-explorer/pkg/models"
)

// NothingSelectedMessage is shown when the method selection leaves no dataset.
const NothingSelectedMessage = "No datasets selected. Choose at least one method to display."

// PhononHandler handles material listing and dispersion chart requests
type PhononHandler struct {
	svc plotting.PlottingService
}

// NewPhononHandler creates a new phonon handler
func NewPhononHandler(svc plotting.PlottingService) *PhononHandler {
	return &PhononHandler{svc: svc}
}

// ListMaterials returns the catalog and every method label
func (h *PhononHandler) ListMaterials(ctx context.Context, _ *struct{}) (*models.ListMaterialsResponse, error) {
	resp := &models.ListMaterialsResponse{}
	resp.Body.Materials = []models.MaterialSummary{}
	for _, m := range h.svc.Materials() {
		methods := make([]string, 0, len(m.Datasets))
		for _, ds := range m.Datasets {
			methods = append(methods, ds.Label)
		}
		resp.Body.Materials = append(resp.Body.Materials, models.MaterialSummary{
			Slug:    m.Slug,
			Name:    m.Name,
			Group:   m.Group,
			Figure:  m.Figure,
			Methods: methods,
		})
	}
	resp.Body.Methods = h.svc.Labels()
	return resp, nil
}

// RenderMaterial renders a catalog material's dispersion chart
func (h *PhononHandler) RenderMaterial(ctx context.Context, req *models.RenderMaterialRequest) (*models.FigureResponse, error) {
	log.Info().Str("material", req.Slug).Strs("labels", req.Labels).Str("format", req.Format).Msg("Rendering material")

	out, err := h.svc.RenderMaterial(ctx, req.Slug, plotting.MaterialRequest{
		Labels:   req.Labels,
		Branches: req.Branches,
		Format:   render.Format(req.Format),
	})
	if err != nil {
		return nil, renderError(err)
	}
	return &models.FigureResponse{ContentType: out.ContentType, Body: out.Data}, nil
}

// SaveFigure renders a material to PNG and stores it in the figure bucket
func (h *PhononHandler) SaveFigure(ctx context.Context, req *models.SaveFigureRequest) (*models.SaveFigureResponse, error) {
	saved, err := h.svc.SaveMaterialFigure(ctx, req.Slug, plotting.MaterialRequest{
		Labels:   req.Labels,
		Branches: req.Branches,
	})
	if err != nil {
		return nil, renderError(err)
	}
	return &models.SaveFigureResponse{
		Body: models.SaveFigureResponseBody{Key: saved.Key, DownloadURL: saved.DownloadURL},
	}, nil
}

// Figure streams the pre-rendered PNG of a catalog material
func (h *PhononHandler) Figure(ctx context.Context, req *models.MaterialFigureRequest) (*models.FigureResponse, error) {
	out, err := h.svc.MaterialFigure(ctx, req.Slug)
	switch {
	case err == nil:
		return &models.FigureResponse{ContentType: out.ContentType, Body: out.Data}, nil
	case errors.Is(err, plotting.ErrNoFigure), errors.Is(err, storage.ErrNotFound):
		return nil, huma.Error404NotFound("Figure not found", err)
	default:
		return nil, renderError(err)
	}
}

// Render draws arbitrary band files
func (h *PhononHandler) Render(ctx context.Context, req *models.RenderRequest) (*models.FigureResponse, error) {
	datasets := make([]phonon.Dataset, 0, len(req.Body.Datasets))
	for _, ds := range req.Body.Datasets {
		datasets = append(datasets, phonon.Dataset{Path: ds.Path, Color: ds.Color, Label: ds.Label})
	}

	out, err := h.svc.Render(ctx, plotting.Request{
		Title:          req.Body.Title,
		Datasets:       datasets,
		Branches:       req.Body.Branches,
		SymmetryLabels: req.Body.SymmetryLabels,
		Format:         render.Format(req.Body.Format),
	})
	if err != nil {
		return nil, renderError(err)
	}
	return &models.FigureResponse{ContentType: out.ContentType, Body: out.Data}, nil
}

// badInput reports whether a band file error was caused by the request
// rather than by the storage backend.
func badInput(err *phonon.FileError) bool {
	for _, target := range []error{
		phonon.ErrMalformed,
		phonon.ErrMissingField,
		phonon.ErrPathMismatch,
		phonon.ErrBranchOutOfRange,
		storage.ErrNotFound,
		storage.ErrOutsideRoot,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// renderError maps plotting failures to HTTP errors.
func renderError(err error) error {
	var fileErr *phonon.FileError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return huma.Error404NotFound("Material not found", err)
	case errors.Is(err, catalog.ErrNothingSelected), errors.Is(err, phonon.ErrNoDatasets):
		return huma.Error422UnprocessableEntity(NothingSelectedMessage)
	case errors.As(err, &fileErr) && badInput(fileErr):
		return huma.Error422UnprocessableEntity("Invalid band file: "+fileErr.Error(), err)
	case errors.Is(err, phonon.ErrPathMismatch),
		errors.Is(err, phonon.ErrBranchOutOfRange),
		errors.Is(err, render.ErrUnknownColor):
		return huma.Error422UnprocessableEntity(err.Error(), err)
	case errors.Is(err, plotting.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable("Figure storage is not configured", err)
	default:
		log.Error().Err(err).Msg("Render failed")
		return huma.Error500InternalServerError("Failed to render figure", err)
	}
}

// Package plotting ties the material catalog, a band-file source and the
// chart renderers together.
package plotting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/phonon-explorer/internal/catalog"
	"github.com/RMahshie/phonon-explorer/internal/phonon"
	"github.com/RMahshie/phonon-explorer/internal/render"
)

var (
	ErrStoreUnavailable = errors.New("figure store not configured")
	ErrNoFigure         = errors.New("material has no stored figure")
)

// FigureStore keeps rendered figures and hands out download links.
type FigureStore interface {
	UploadFile(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// Output is a rendered chart document.
type Output struct {
	Format      render.Format
	ContentType string
	Data        []byte
}

// MaterialRequest picks the methods and branches of a catalog render.
type MaterialRequest struct {
	Labels   []string
	Branches []int
	Format   render.Format
}

// Request renders arbitrary band files.
type Request struct {
	Title          string
	Datasets       []phonon.Dataset
	Branches       []int
	SymmetryLabels []string
	Format         render.Format
}

// SavedFigure locates a stored figure.
type SavedFigure struct {
	Key         string
	DownloadURL string
}

type PlottingService interface {
	Materials() []catalog.Material
	Labels() []string
	RenderMaterial(ctx context.Context, slug string, req MaterialRequest) (*Output, error)
	Render(ctx context.Context, req Request) (*Output, error)
	SaveMaterialFigure(ctx context.Context, slug string, req MaterialRequest) (*SavedFigure, error)
	RenderCatalog(ctx context.Context, outDir string) ([]string, error)
	MaterialFigure(ctx context.Context, slug string) (*Output, error)
}

type plottingService struct {
	catalog     *catalog.Catalog
	source      phonon.FileSource
	store       FigureStore
	branchLimit int
}

// NewPlottingService creates the service. store may be nil, in which case
// saving figures fails with ErrStoreUnavailable. branchLimit caps the
// branches of PNG renders that pick none; 0 draws them all.
func NewPlottingService(cat *catalog.Catalog, source phonon.FileSource, store FigureStore, branchLimit int) PlottingService {
	return &plottingService{
		catalog:     cat,
		source:      source,
		store:       store,
		branchLimit: branchLimit,
	}
}

func (s *plottingService) Materials() []catalog.Material {
	return s.catalog.List()
}

func (s *plottingService) Labels() []string {
	return s.catalog.Labels()
}

func (s *plottingService) materialFigure(ctx context.Context, slug string, req MaterialRequest) (*phonon.Figure, error) {
	m, err := s.catalog.Get(slug)
	if err != nil {
		return nil, err
	}
	datasets, err := m.Select(req.Labels)
	if err != nil {
		return nil, err
	}
	fig, err := phonon.Build(ctx, s.source, datasets, phonon.Options{
		Branches:    req.Branches,
		BranchLimit: s.limitFor(req.Format),
	})
	if err != nil {
		return nil, err
	}
	fig.Title = m.Name
	log.Info().Str("material", slug).Int("datasets", len(datasets)).Msg("Material figure built")
	return fig, nil
}

func (s *plottingService) RenderMaterial(ctx context.Context, slug string, req MaterialRequest) (*Output, error) {
	fig, err := s.materialFigure(ctx, slug, req)
	if err != nil {
		return nil, err
	}
	return draw(fig, req.Format)
}

func (s *plottingService) Render(ctx context.Context, req Request) (*Output, error) {
	fig, err := phonon.Build(ctx, s.source, req.Datasets, phonon.Options{
		Branches:       req.Branches,
		BranchLimit:    s.limitFor(req.Format),
		SymmetryLabels: req.SymmetryLabels,
	})
	if err != nil {
		return nil, err
	}
	fig.Title = req.Title
	log.Info().Int("datasets", len(req.Datasets)).Str("format", req.Format.Extension()).Msg("Figure built")
	return draw(fig, req.Format)
}

func (s *plottingService) SaveMaterialFigure(ctx context.Context, slug string, req MaterialRequest) (*SavedFigure, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	req.Format = render.FormatPNG
	out, err := s.RenderMaterial(ctx, slug, req)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("figures/%s/%s.png", slug, uuid.New().String())
	if err := s.store.UploadFile(ctx, key, out.ContentType, out.Data); err != nil {
		return nil, fmt.Errorf("failed to store figure: %w", err)
	}

	url, err := s.store.GenerateDownloadURL(ctx, key)
	if err != nil {
		if derr := s.store.DeleteFile(ctx, key); derr != nil {
			log.Warn().Err(derr).Str("key", key).Msg("Failed to remove unsigned figure")
		}
		return nil, fmt.Errorf("failed to sign figure URL: %w", err)
	}

	log.Info().Str("material", slug).Str("key", key).Msg("Figure saved")
	return &SavedFigure{Key: key, DownloadURL: url}, nil
}

// RenderCatalog writes every material with all of its methods to
// <outDir>/<group>/phonon_<slug>.png and returns the written paths.
func (s *plottingService) RenderCatalog(ctx context.Context, outDir string) ([]string, error) {
	static := render.NewStatic()
	var written []string
	for _, m := range s.catalog.List() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		fig, err := s.materialFigure(ctx, m.Slug, MaterialRequest{})
		if err != nil {
			return written, fmt.Errorf("%s: %w", m.Slug, err)
		}
		dir := filepath.Join(outDir, m.Group)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, err
		}
		path := filepath.Join(dir, "phonon_"+m.Slug+".png")
		if err := static.SavePNG(fig, path); err != nil {
			return written, fmt.Errorf("%s: %w", m.Slug, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// MaterialFigure returns the pre-rendered PNG the catalog lists for slug.
func (s *plottingService) MaterialFigure(ctx context.Context, slug string) (*Output, error) {
	m, err := s.catalog.Get(slug)
	if err != nil {
		return nil, err
	}
	if m.Figure == "" {
		return nil, ErrNoFigure
	}
	data, err := s.source.ReadFile(ctx, m.Figure)
	if err != nil {
		return nil, err
	}
	return &Output{Format: render.FormatPNG, ContentType: "image/png", Data: data}, nil
}

// limitFor applies the branch cap to static output only.
func (s *plottingService) limitFor(format render.Format) int {
	if format == render.FormatHTML {
		return 0
	}
	return s.branchLimit
}

func draw(fig *phonon.Figure, format render.Format) (*Output, error) {
	r, err := render.ForFormat(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.Render(fig, &buf); err != nil {
		return nil, err
	}
	if format == "" {
		format = render.FormatPNG
	}
	return &Output{Format: format, ContentType: r.ContentType(), Data: buf.Bytes()}, nil
}

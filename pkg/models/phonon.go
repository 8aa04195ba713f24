package models

// DatasetRecord is one band file and how to draw it.
type DatasetRecord struct {
	Path  string `json:"path" minLength:"1" required:"true" doc:"Band file path relative to the data directory" example:"phonon_data/1-WSe2/band-mono-vasp.yaml"`
	Color string `json:"color,omitempty" doc:"Line colour, a name or #rrggbb; defaults to the palette" example:"black"`
	Label string `json:"label,omitempty" doc:"Legend label; defaults to 'Dataset N'" example:"DFT"`
}

// MaterialSummary describes a catalog material.
type MaterialSummary struct {
	Slug    string   `json:"slug" doc:"Material identifier" example:"wse2-mono"`
	Name    string   `json:"name" doc:"Display name" example:"Mono-layer WSe2"`
	Group   string   `json:"group" enum:"mono,bi" doc:"Monolayer or bilayer"`
	Figure  string   `json:"figure,omitempty" doc:"Path of the pre-rendered figure, served by /api/materials/{slug}/figure"`
	Methods []string `json:"methods" doc:"Labels of the available datasets, reference first"`
}

// ListMaterialsResponse lists the catalog.
type ListMaterialsResponse struct {
	Body struct {
		Materials []MaterialSummary `json:"materials" doc:"Materials in catalog order"`
		Methods   []string          `json:"methods" doc:"Every method label, for selection checkboxes"`
	}
}

// RenderMaterialRequest renders a catalog material.
type RenderMaterialRequest struct {
	Slug     string   `path:"slug" doc:"Material identifier"`
	Labels   []string `query:"labels" doc:"Methods to show; empty shows all"`
	Branches []int    `query:"branches" doc:"Branch indices to draw; empty draws all"`
	Format   string   `query:"format" enum:"png,html" default:"png" doc:"Output format"`
}

// RenderRequest renders arbitrary band files.
type RenderRequest struct {
	Body struct {
		Title          string          `json:"title,omitempty" doc:"Chart title"`
		Datasets       []DatasetRecord `json:"datasets" minItems:"1" required:"true" doc:"Band files in comparison order; the first is the reference"`
		Branches       []int           `json:"branches,omitempty" doc:"Branch indices to draw; empty draws all"`
		SymmetryLabels []string        `json:"symmetry_labels,omitempty" doc:"Tick labels when files carry none; defaults to Γ, M, K, Γ"`
		Format         string          `json:"format,omitempty" enum:"png,html" default:"png" doc:"Output format"`
	}
}

// MaterialFigureRequest fetches a material's pre-rendered figure.
type MaterialFigureRequest struct {
	Slug string `path:"slug" doc:"Material identifier"`
}

// FigureResponse carries a rendered chart.
type FigureResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// SaveFigureRequest renders a material to PNG and stores it.
type SaveFigureRequest struct {
	Slug     string   `path:"slug" doc:"Material identifier"`
	Labels   []string `query:"labels" doc:"Methods to show; empty shows all"`
	Branches []int    `query:"branches" doc:"Branch indices to draw; empty draws all"`
}

// SaveFigureResponseBody is the body of the save figure response
type SaveFigureResponseBody struct {
	Key         string `json:"key" doc:"Object key of the stored figure"`
	DownloadURL string `json:"download_url" doc:"Pre-signed download URL"`
}

// SaveFigureResponse describes a stored figure.
type SaveFigureResponse struct {
	Body SaveFigureResponseBody
}

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/phonon-explorer/internal/api/handlers"
	"github.com/RMahshie/phonon-explorer/internal/plotting"
	"github.com/RMahshie/phonon-explorer/internal/repository"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, plottingSvc plotting.PlottingService, tableRepo repository.TableRepository) {
	phononHandler := handlers.NewPhononHandler(plottingSvc)
	datasetHandler := handlers.NewDatasetHandler(tableRepo)

	// Phonon routes
	huma.Register(api, huma.Operation{
		OperationID: "listMaterials",
		Method:      http.MethodGet,
		Path:        "/api/materials",
		Summary:     "List materials",
		Description: "Returns every material in the catalog and the method labels available for comparison",
		Tags:        []string{"Phonons"},
	}, phononHandler.ListMaterials)

	huma.Register(api, huma.Operation{
		OperationID: "renderMaterial",
		Method:      http.MethodGet,
		Path:        "/api/materials/{slug}/phonons",
		Summary:     "Render material dispersion",
		Description: "Renders the phonon dispersion of a material for the selected methods as PNG or interactive HTML",
		Tags:        []string{"Phonons"},
	}, phononHandler.RenderMaterial)

	huma.Register(api, huma.Operation{
		OperationID: "getMaterialFigure",
		Method:      http.MethodGet,
		Path:        "/api/materials/{slug}/figure",
		Summary:     "Get material figure",
		Description: "Streams the pre-rendered PNG listed for the material in the catalog",
		Tags:        []string{"Phonons"},
	}, phononHandler.Figure)

	huma.Register(api, huma.Operation{
		OperationID: "saveMaterialFigure",
		Method:      http.MethodPost,
		Path:        "/api/materials/{slug}/phonons/save",
		Summary:     "Save material figure",
		Description: "Renders a PNG, stores it in object storage and returns a download URL",
		Tags:        []string{"Phonons"},
	}, phononHandler.SaveFigure)

	huma.Register(api, huma.Operation{
		OperationID: "renderPhonons",
		Method:      http.MethodPost,
		Path:        "/api/phonons/render",
		Summary:     "Render band files",
		Description: "Renders a comparison chart of arbitrary band files; the first dataset is the reference",
		Tags:        []string{"Phonons"},
	}, phononHandler.Render)

	// Dataset routes
	huma.Register(api, huma.Operation{
		OperationID: "listDataset",
		Method:      http.MethodGet,
		Path:        "/api/dataset",
		Summary:     "List dataset rows",
		Description: "Returns one page of the structure dataset with optional sorting and column filters",
		Tags:        []string{"Dataset"},
	}, datasetHandler.ListDataset)

	huma.Register(api, huma.Operation{
		OperationID: "getDatasetRow",
		Method:      http.MethodGet,
		Path:        "/api/dataset/rows/{index}",
		Summary:     "Get dataset row",
		Description: "Returns a single row of the structure dataset",
		Tags:        []string{"Dataset"},
	}, datasetHandler.GetDatasetRow)
}

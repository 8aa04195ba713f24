package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/phonon-explorer/internal/catalog"
	"github.com/RMahshie/phonon-explorer/internal/phonon"
	"github.com/RMahshie/phonon-explorer/internal/plotting"
	"github.com/RMahshie/phonon-explorer/internal/repository/csvtable"
	"github.com/RMahshie/phonon-explorer/internal/storage"
	"github.com/RMahshie/phonon-explorer/pkg/models"
)

func setupAPI(t *testing.T) humatest.TestAPI {
	t.Helper()

	cat, err := catalog.New([]catalog.Material{{
		Slug:   "wse2-mono",
		Name:   "Mono-layer WSe2",
		Group:  "mono",
		Figure: "phonon_figs/mono/phonon_WSe2_mono.png",
		Datasets: []phonon.Dataset{
			{Path: "band-vasp.yaml", Color: "black", Label: "DFT"},
			{Path: "band-mlip.yaml", Color: "blue", Label: "MACE"},
		},
	}})
	require.NoError(t, err)

	table, err := csvtable.Parse(strings.NewReader("formula,stacking\nWSe2,mono\nWTe2,AB0\n"))
	require.NoError(t, err)

	svc := plotting.NewPlottingService(cat, storage.NewLocalSource("../phonon/testdata"), nil, 0)

	_, api := humatest.New(t)
	RegisterRoutes(api, svc, table)
	return api
}

func TestMaterialRoutes(t *testing.T) {
	api := setupAPI(t)

	resp := api.Get("/api/materials")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Materials []models.MaterialSummary `json:"materials"`
		Methods   []string                 `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Materials, 1)
	assert.Equal(t, "phonon_figs/mono/phonon_WSe2_mono.png", list.Materials[0].Figure)
	assert.Equal(t, []string{"DFT", "MACE"}, list.Methods)

	resp = api.Get("/api/materials/wse2-mono/phonons?labels=DFT,MACE&branches=0,1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("\x89PNG")))

	resp = api.Get("/api/materials/wse2-mono/phonons?format=html")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")

	resp = api.Get("/api/materials/nbse2-mono/phonons")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Get("/api/materials/wse2-mono/phonons?labels=CHGNet")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "No datasets selected")

	resp = api.Get("/api/materials/wse2-mono/figure")
	assert.Equal(t, http.StatusNotFound, resp.Code, "figure file is not in the data directory")

	resp = api.Post("/api/materials/wse2-mono/phonons/save")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRenderRoute(t *testing.T) {
	api := setupAPI(t)

	resp := api.Post("/api/phonons/render", map[string]any{
		"title": "WSe2",
		"datasets": []map[string]string{
			{"path": "band-vasp.yaml"},
			{"path": "band-labelled.yaml"},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, "different q-point paths cannot share axes")

	resp = api.Post("/api/phonons/render", map[string]any{
		"datasets": []map[string]string{{"path": "band-vasp.yaml"}},
		"format":   "html",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "echarts")
}

func TestDatasetRoutes(t *testing.T) {
	api := setupAPI(t)

	resp := api.Get("/api/dataset?filter=stacking:ab0")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var page models.DatasetPage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []string{"WTe2", "AB0"}, page.Rows[0].Cells)

	resp = api.Get("/api/dataset/rows/0")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "WSe2")

	resp = api.Get("/api/dataset/rows/7")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

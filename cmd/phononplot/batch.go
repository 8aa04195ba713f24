package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/phonon-explorer/internal/catalog"
	"github.com/RMahshie/phonon-explorer/internal/plotting"
	"github.com/RMahshie/phonon-explorer/internal/render"
	"github.com/RMahshie/phonon-explorer/internal/storage"
)

var batchFlags struct {
	catalogPath string
	dataDir     string
	outDir      string
	branchLimit int
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render every catalog material to PNG",
	Long:  `Writes <out-dir>/<group>/phonon_<slug>.png for each material with all of its methods.`,
	Args:  cobra.NoArgs,
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.catalogPath, "catalog", "configs/materials.yaml", "material catalog")
	f.StringVar(&batchFlags.dataDir, "data-dir", ".", "root directory of the band files")
	f.StringVar(&batchFlags.outDir, "out-dir", "figures", "output directory")
	f.IntVar(&batchFlags.branchLimit, "branch-limit", render.StaticBranchLimit, "draw at most N branches per file (0 for all)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(batchFlags.catalogPath)
	if err != nil {
		return err
	}

	svc := plotting.NewPlottingService(cat, storage.NewLocalSource(batchFlags.dataDir), nil, batchFlags.branchLimit)
	written, err := svc.RenderCatalog(cmd.Context(), batchFlags.outDir)
	for _, path := range written {
		log.Info().Str("out", path).Msg("Figure written")
	}
	return err
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/phonon-explorer/internal/phonon"
	"github.com/RMahshie/phonon-explorer/internal/render"
	"github.com/RMahshie/phonon-explorer/internal/storage"
)

var renderFlags struct {
	colors      []string
	labels      []string
	branches    []int
	branchLimit int
	symLabels   []string
	format      string
	title       string
	out         string
}

var renderCmd = &cobra.Command{
	Use:   "render FILE...",
	Short: "Render band files into one comparison chart",
	Long: `Draws every band file on shared axes. The first file is the reference:
dashed, opaque and thicker. --color and --label apply to the files in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringSliceVar(&renderFlags.colors, "color", nil, "line colour per file (name or #rrggbb)")
	f.StringSliceVar(&renderFlags.labels, "label", nil, "legend label per file")
	f.IntSliceVar(&renderFlags.branches, "branch", nil, "branch indices to draw (default all)")
	f.IntVar(&renderFlags.branchLimit, "branch-limit", -1, "draw at most N branches when --branch is not set (default 6 for png, all for html)")
	f.StringSliceVar(&renderFlags.symLabels, "sym-label", nil, "tick labels for files without labels (default Γ,M,K,Γ)")
	f.StringVar(&renderFlags.format, "format", "", "png or html (default from --out extension)")
	f.StringVar(&renderFlags.title, "title", "", "chart title")
	f.StringVarP(&renderFlags.out, "out", "o", "phonon.png", "output file")
}

func runRender(cmd *cobra.Command, args []string) error {
	datasets, err := datasetsFromArgs(args, renderFlags.colors, renderFlags.labels)
	if err != nil {
		return err
	}

	format := render.Format(renderFlags.format)
	if format == "" {
		format = formatFromPath(renderFlags.out)
	}
	renderer, err := render.ForFormat(format)
	if err != nil {
		return err
	}

	fig, err := phonon.Build(cmd.Context(), storage.NewOpenSource(), datasets, phonon.Options{
		Branches:       renderFlags.branches,
		BranchLimit:    branchLimitFor(format, renderFlags.branchLimit),
		SymmetryLabels: renderFlags.symLabels,
	})
	if err != nil {
		return err
	}
	fig.Title = renderFlags.title

	f, err := os.Create(renderFlags.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", renderFlags.out, err)
	}
	if err := renderer.Render(fig, f); err != nil {
		f.Close()
		os.Remove(renderFlags.out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("out", renderFlags.out).Int("datasets", len(datasets)).Int("series", len(fig.Series)).Msg("Figure written")
	return nil
}

// datasetsFromArgs pairs files with the colours and labels given in order.
// Files beyond the end of either list fall back to the defaults.
func datasetsFromArgs(files, colors, labels []string) ([]phonon.Dataset, error) {
	if len(colors) > len(files) {
		return nil, fmt.Errorf("%d colours given for %d files", len(colors), len(files))
	}
	if len(labels) > len(files) {
		return nil, fmt.Errorf("%d labels given for %d files", len(labels), len(files))
	}
	datasets := make([]phonon.Dataset, len(files))
	for i, path := range files {
		datasets[i].Path = path
		if i < len(colors) {
			datasets[i].Color = colors[i]
		}
		if i < len(labels) {
			datasets[i].Label = labels[i]
		}
	}
	return datasets, nil
}

// branchLimitFor resolves a negative --branch-limit to the format's default.
func branchLimitFor(format render.Format, flag int) int {
	if flag < 0 {
		return format.DefaultBranchLimit()
	}
	return flag
}

func formatFromPath(path string) render.Format {
	if strings.HasSuffix(strings.ToLower(path), ".html") {
		return render.FormatHTML
	}
	return render.FormatPNG
}

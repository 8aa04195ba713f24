package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/phonon-explorer/internal/config"
	"github.com/RMahshie/phonon-explorer/internal/repository/csvtable"
	"github.com/RMahshie/phonon-explorer/internal/repository/postgres"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the structure dataset table",
}

var importFlags struct {
	databaseURL string
}

var datasetImportCmd = &cobra.Command{
	Use:   "import CSV",
	Short: "Load a CSV file into the Postgres dataset table",
	Long:  `Replaces the contents of the dataset tables with the rows of the CSV file. The first record is the header.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetImport,
}

func init() {
	datasetImportCmd.Flags().StringVar(&importFlags.databaseURL, "database-url", "", "Postgres DSN (default DATABASE_URL)")
	datasetCmd.AddCommand(datasetImportCmd)
}

func runDatasetImport(cmd *cobra.Command, args []string) error {
	table, err := csvtable.Load(args[0])
	if err != nil {
		return err
	}
	columns, rows := table.Records()

	dsn := importFlags.databaseURL
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dsn = cfg.Database.URL
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	repo := postgres.NewPostgresTableRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to create dataset tables: %w", err)
	}
	if err := repo.Import(ctx, columns, rows); err != nil {
		return err
	}

	log.Info().Str("file", args[0]).Int("columns", len(columns)).Int("rows", len(rows)).Msg("Dataset imported")
	return nil
}

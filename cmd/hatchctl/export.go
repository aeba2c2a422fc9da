package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/app"
	"github.com/mamadbah2/hatchery/internal/service/datasheet"
	"github.com/mamadbah2/hatchery/internal/service/sheet"
)

var exportOpts struct {
	view    string
	query   string
	percent bool
	outDir  string
}

// exportCmd loads the records and writes one view as a CSV file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a data sheet view as CSV",
	Long: `Loads the batch records from the configured source and writes the
selected view to <out>/complete-data-<view>-<percent|counts>-<date>.csv.

Example:
  hatchctl export --view hatch --percent --query "#12" --out ./exports`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// viewsCmd lists the view keys accepted by --view.
var viewsCmd = &cobra.Command{
	Use:         "views",
	Short:       "List the data sheet views",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := app.NewEngine(cfg)
		if err != nil {
			return err
		}
		for _, v := range engine.Views() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", v.Key, v.Title)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.view, "view", string(sheet.ViewAll), "view to export: all, embrex, fertility, eggpack or hatch")
	exportCmd.Flags().StringVarP(&exportOpts.query, "query", "q", "", "free-text search on flock, batch and unit")
	exportCmd.Flags().BoolVar(&exportOpts.percent, "percent", false, "render ratio columns as percentages")
	exportCmd.Flags().StringVarP(&exportOpts.outDir, "out", "o", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	engine, _, err := app.NewEngine(cfg)
	if err != nil {
		return err
	}

	source, closeSource, err := app.OpenSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(ctx); err != nil {
			log.Warn("failed to close batch source", zap.Error(err))
		}
	}()

	svc := datasheet.NewService(source, engine, nil, log.Named("svc.datasheet"))
	if _, err := svc.Reload(ctx); err != nil {
		return err
	}

	export, err := svc.ExportCSV(sheet.ViewKey(exportOpts.view), exportOpts.query, sheet.ModeFor(exportOpts.percent))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exportOpts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(exportOpts.outDir, export.FileName)
	if err := os.WriteFile(path, export.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", export.Rows, path)
	return nil
}

// Package pipeline sequences one end-to-end run: load the source workbook,
// persist transactions, aggregate, then emit the dashboard and chart images.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vendaslab/vendas-pipeline/internal/config"
	"github.com/vendaslab/vendas-pipeline/internal/ingest"
	"github.com/vendaslab/vendas-pipeline/internal/metrics"
	"github.com/vendaslab/vendas-pipeline/internal/report"
	"github.com/vendaslab/vendas-pipeline/internal/storage"
	"github.com/vendaslab/vendas-pipeline/internal/store"
	"github.com/vendaslab/vendas-pipeline/internal/summary"
)

// Runner orchestrates pipeline runs. One run at a time: the database file is
// exclusively owned for the duration of a run.
type Runner struct {
	cfg config.Config
	log *slog.Logger
}

// NewRunner creates a Runner over the given configuration.
func NewRunner(cfg config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		log: slog.With("component", "pipeline"),
	}
}

// Run executes the full pipeline for sourcePath (empty means the configured
// default, where sample data may be synthesized). Every failure is handled
// here: logged, counted, store closed, false returned. No partial-state
// cleanup of already-written files is attempted.
func (r *Runner) Run(ctx context.Context, sourcePath string) bool {
	start := time.Now()
	err := r.execute(ctx, sourcePath)
	metrics.Get().ObserveRunDuration(time.Since(start).Seconds())

	if err != nil {
		r.log.Error("pipeline run failed", "error", err)
		metrics.Get().IncRuns("failed")
		return false
	}

	r.log.Info("pipeline run complete", "duration", time.Since(start).String())
	metrics.Get().IncRuns("ok")
	return true
}

func (r *Runner) execute(ctx context.Context, sourcePath string) error {
	if err := r.ensureDirs(); err != nil {
		return err
	}

	db, err := store.Open(r.cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := ingest.NewLoader(r.cfg.DefaultSourcePath())
	loaded, err := loader.Load(sourcePath)
	if err != nil {
		return err
	}
	if loaded.Generated {
		r.log.Info("sample dataset generated", "path", loaded.Path, "rows", len(loaded.Rows))
	}

	reported, err := db.InsertTransactions(ctx, loaded.Rows)
	if err != nil {
		return err
	}
	r.log.Info("transactions inserted", "rows", len(loaded.Rows), "reported", reported)
	metrics.Get().AddRowsInserted(float64(len(loaded.Rows)))

	products := summary.ByProduct(ctx, db)
	regions := summary.ByRegion(ctx, db)
	months := summary.ByMonth(ctx, db)

	dataSink, err := storage.NewLocalSink(r.cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	defer dataSink.Close()

	writer := report.NewWriter(dataSink)
	if err := writer.WriteDashboard(ctx, r.cfg.Paths.ReportFile, loaded.Rows, products, regions, months); err != nil {
		return err
	}

	imageSink, err := storage.NewLocalSink(r.cfg.Paths.ImagesDir)
	if err != nil {
		return err
	}
	defer imageSink.Close()

	// Chart rendering failures never abort a run; the dashboard is already
	// on disk at this point.
	exporter := report.NewExporter(imageSink)
	if err := exporter.Export(ctx, products, regions); err != nil {
		r.log.Warn("chart export incomplete", "error", err)
	}

	return nil
}

func (r *Runner) ensureDirs() error {
	dirs := []string{
		filepath.Dir(r.cfg.Database.Path),
		r.cfg.Paths.DataDir,
		r.cfg.Paths.ImagesDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

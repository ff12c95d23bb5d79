package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/vendaslab/vendas-pipeline/internal/config"
	"github.com/vendaslab/vendas-pipeline/internal/logging"
	"github.com/vendaslab/vendas-pipeline/internal/metrics"
	"github.com/vendaslab/vendas-pipeline/internal/pipeline"
)

func main() {
	var (
		sourcePath = flag.String("source", "", "path to the sales workbook (empty uses the default path, generating sample data if absent)")
		configPath = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})
	metrics.Init("vendas_pipeline")
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Address); err != nil {
				log.Printf("[main] metrics server stopped: %v", err)
			}
		}()
	}

	runner := pipeline.NewRunner(cfg)
	if !runner.Run(context.Background(), *sourcePath) {
		os.Exit(1)
	}

	log.Printf("[main] dashboard: %s, images: %s/", cfg.ReportPath(), cfg.Paths.ImagesDir)
}

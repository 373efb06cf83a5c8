package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fmadore/IWAC-spatial-overview/internal/config"
	"github.com/fmadore/IWAC-spatial-overview/internal/pipeline"
	"github.com/fmadore/IWAC-spatial-overview/internal/storage"
	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger/console"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger/file"
)

func main() {
	util.LoadEnv()

	var (
		stepsFlag    = flag.String("steps", "", "comma-separated steps to run (default: all)")
		weightMin    = flag.Int("weight-min", 0, "minimum edge weight kept in the networks")
		dataDir      = flag.String("data-dir", "", "root directory for corpus files and derived artifacts")
		configPath   = flag.String("config", "", "pipeline YAML config file")
		datasetID    = flag.String("dataset-id", "", "dataset to export in the fetch step")
		worldGeoJSON = flag.String("world-geojson", "", "world countries GeoJSON for the add-countries step")
		publish      = flag.Bool("publish", false, "upload the data directory to object storage after the run")
		parallel     = flag.Int("parallel", 0, "worker count for network accumulation")
		logFile      = flag.String("log-file", "", "also append logs to this file")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	debugEnabled := *debug || util.GetEnvBool("DEBUG", false)
	instances := []logger.LoggerInstance{
		console.NewConsoleLogger(console.ConsoleLoggerParams{Debug: debugEnabled}),
	}
	if *logFile != "" {
		fileLogger, err := file.NewFileLogger(file.FileLoggerParams{Path: *logFile, Debug: debugEnabled})
		if err != nil {
			logger.Init(instances...)
			logger.Fatal("Failed to open log file", "path", *logFile, "err", err)
		}
		defer fileLogger.Close()
		instances = append(instances, fileLogger)
	}
	logger.Init(instances...)

	cfg, err := config.LoadWithOverrides(*configPath, func(c *config.Config) {
		if *dataDir != "" {
			c.DataDir = *dataDir
		}
		if *datasetID != "" {
			c.DatasetID = *datasetID
		}
		if *worldGeoJSON != "" {
			c.WorldGeoJSON = *worldGeoJSON
		}
		if *weightMin > 0 {
			c.WeightMin = *weightMin
		}
		if *parallel > 0 {
			c.Parallelism = *parallel
		}
	})
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var steps []string
	for _, step := range strings.Split(*stepsFlag, ",") {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}

	runner := pipeline.NewRunner(pipeline.NewRunnerParams{Config: cfg})
	result, err := runner.Run(ctx, steps)
	if err != nil {
		logger.Fatal("[Preprocess] Run failed", "err", err)
	}

	if *publish {
		client := storage.NewS3Client(ctx)
		if client == nil {
			logger.Fatal("[Preprocess] Publishing requested but S3 is not configured")
		}
		prefix := util.GetEnvString("PUBLISH_PREFIX", "data")
		files, err := storage.PublishDir(ctx, client, cfg.DataDir, prefix)
		if err != nil {
			logger.Fatal("[Preprocess] Publish failed", "err", err)
		}
		logger.Info("[Preprocess] Artifacts published", "files", files, "prefix", prefix)
	}

	logger.Info("[Preprocess] Done", "runId", result.RunID)
}

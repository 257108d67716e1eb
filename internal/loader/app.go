package loader

import (
	"context"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	commonmetrics "github.com/oaeproject/model-loader/internal/common/metrics"
	"github.com/oaeproject/model-loader/internal/api"
	"github.com/oaeproject/model-loader/internal/loader/configuration"
	"github.com/oaeproject/model-loader/internal/loader/metrics"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/records"
	"github.com/oaeproject/model-loader/internal/suiterunner"
)

// SuiteResultsDir is where the output of each test suite run is kept, relative to the scripts
// directory.
const SuiteResultsDir = "suiteResults"

// Run loads the configured batch range into the server, recording into runMetrics. runMetrics
// holds everything done up to the point of failure when an error is returned.
func Run(ctx context.Context, config configuration.LoaderConfiguration, runMetrics *metrics.RunMetrics) error {
	if err := config.Validate(); err != nil {
		return err
	}
	shutdown := commonmetrics.ServeMetrics(config.MetricsPort, runMetrics.Registry())
	defer shutdown()

	client := api.NewClient(api.Config{
		ServerURL:         config.ServerURL,
		Timeout:           config.Timeout,
		RequestsPerSecond: config.RequestsPerSecond,
		Burst:             config.Burst,
	}, runMetrics)
	source := func(index int) (*model.Batch, error) {
		return records.LoadBatch(config.ScriptsDir, index)
	}
	driver := NewDriver(config, source, NewPipeline(client, runMetrics, config.ScriptsDir), suiteRunner(config))

	log.WithFields(log.Fields{
		"server":     client.ServerURL(),
		"start":      config.StartBatch,
		"end":        config.EndBatch,
		"concurrent": config.ConcurrentBatches,
	}).Info("Loading batches")
	return driver.Run(ctx)
}

func suiteRunner(config configuration.LoaderConfiguration) suiterunner.Runner {
	if config.TestBatchInterval == 0 {
		return suiterunner.NopRunner{}
	}
	return &suiterunner.ExecRunner{
		Command:       config.SuiteCommand,
		AdminPassword: config.AdminPassword,
		ScriptsDir:    config.ScriptsDir,
		ResultsDir:    filepath.Join(config.ScriptsDir, SuiteResultsDir),
	}
}

package cmd

import (
	"bytes"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oaeproject/model-loader/internal/common/app"
	"github.com/oaeproject/model-loader/internal/common/config"
	"github.com/oaeproject/model-loader/internal/common/logging"
	"github.com/oaeproject/model-loader/internal/loader"
	"github.com/oaeproject/model-loader/internal/loader/configuration"
	"github.com/oaeproject/model-loader/internal/loader/metrics"
)

// RootCmd is the loaddata command. Every flag can also be set in the config file or through a
// MODELLOADER_ environment variable.
func RootCmd() *cobra.Command {
	defaults := configuration.Default()
	cmd := &cobra.Command{
		Use:   "loaddata",
		Short: "Load generated batches into a running server.",
		Long: `Load generated batches into a running server.

Batches are read from scripts/<type>/<batch>.txt. The ids the server assigns are written to
scripts/generatedIds/<type>-<batch>.txt as each phase of a batch completes.

With --test-batch-interval N, the command given by --suite-command runs after every Nth batch,
while no batch is being loaded. The server url, admin password, scripts directory and loaded batch
indexes are passed to it as MODELLOADER_SERVER_URL, MODELLOADER_ADMIN_PASSWORD,
MODELLOADER_SCRIPTS_DIR and MODELLOADER_BATCHES.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if err := config.LoadConfigFile(cfgFile, "model-loader"); err != nil {
				return err
			}
			return logging.SetLevel(viper.GetString("logLevel"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := configuration.Default()
			if err := config.Unmarshal(&c); err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				config.LogValidationErrors(err)
				return err
			}
			return run(c)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "Config file (default is $HOME/.model-loader.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.IntP("end-batch", "b", 0, "Load batches up to, not including, this one")
	flags.IntP("start", "s", 0, "First batch to load")
	flags.StringP("server-url", "u", defaults.ServerURL, "Server url")
	flags.StringP("admin-pw", "p", defaults.AdminPassword, "Global admin password")
	flags.IntP("concurrent-batches", "c", defaults.ConcurrentBatches, "Number of batches loaded at the same time")
	flags.IntP("test-batch-interval", "i", 0, "Batch interval for test suites (0 for no test suites)")
	flags.StringSlice("suite-command", nil, "Test suite command and arguments, e.g. npm,test")
	flags.String("scripts-dir", defaults.ScriptsDir, "Directory holding the generated batches")
	flags.Duration("timeout", defaults.Timeout, "Timeout of each request")
	flags.Float64("rps", 0, "Maximum requests per second; 0 is unlimited")
	flags.Int("burst", 0, "Requests allowed at once above the rps limit")
	flags.Uint16("metrics-port", 0, "Serve Prometheus metrics on this port; 0 disables")

	bindings := map[string]string{
		"logLevel":          "log-level",
		"endBatch":          "end-batch",
		"startBatch":        "start",
		"serverURL":         "server-url",
		"adminPassword":     "admin-pw",
		"concurrentBatches": "concurrent-batches",
		"testBatchInterval": "test-batch-interval",
		"suiteCommand":      "suite-command",
		"scriptsDir":        "scripts-dir",
		"timeout":           "timeout",
		"requestsPerSecond": "rps",
		"burst":             "burst",
		"metricsPort":       "metrics-port",
	}
	logging.ExitOnError(config.BindFlags(flags, bindings), "binding flags")
	return cmd
}

func run(c configuration.LoaderConfiguration) error {
	ctx := app.CreateContextWithShutdown()
	runMetrics := metrics.New()
	if hook, err := logging.NewPrometheusHook(runMetrics.Registry()); err == nil {
		log.AddHook(hook)
	} else {
		log.WithError(err).Warn("log lines will not be counted")
	}

	runErr := loader.Run(ctx, c, runMetrics)

	summary, err := runMetrics.Summary()
	if err != nil {
		log.WithError(err).Error("could not gather run metrics")
	} else {
		var report bytes.Buffer
		summary.Write(&report)
		logging.SummaryLogger().Info(report.String())
	}
	if runErr != nil {
		logging.WithStacktrace(log.NewEntry(log.StandardLogger()), runErr).Error("loading failed")
	}
	return runErr
}

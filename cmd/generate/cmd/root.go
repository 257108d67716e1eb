package cmd

import (
	"time"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oaeproject/model-loader/internal/common/app"
	"github.com/oaeproject/model-loader/internal/common/config"
	"github.com/oaeproject/model-loader/internal/common/logging"
	"github.com/oaeproject/model-loader/internal/generator"
	"github.com/oaeproject/model-loader/internal/generator/configuration"
	"github.com/oaeproject/model-loader/internal/model"
)

// RootCmd is the generate command. Every flag can also be set in the config file or through a
// MODELLOADER_ environment variable.
func RootCmd() *cobra.Command {
	defaults := configuration.Default()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate batches of synthetic users, groups, content, discussions and publications.",
		Long: `Generate batches of synthetic users, groups, content, discussions and publications.

Each batch is written to scripts/<type>/<batch>.txt, one JSON record per line, ready for loaddata.

Persistent config can be saved in a config file so it doesn't have to be specified every command.

Example structure:
tenant: cam
users: 500
profilesFile: ./profiles.yaml

The location of this file can be passed in using the --config argument.
If not provided, $HOME/.model-loader.yaml is used.`,
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
	flags.IntP("batches", "b", 0, "Number of batches to generate")
	flags.StringP("tenant", "t", "", "Tenant alias")
	flags.IntP("users", "u", defaults.Users, "Number of users per batch")
	flags.IntP("groups", "g", defaults.Groups, "Number of groups per batch")
	flags.IntP("content", "c", defaults.Content, "Number of content items per batch")
	flags.IntP("discussions", "d", defaults.Discussions, "Number of discussions per batch")
	flags.IntP("publications", "p", defaults.Publications, "Number of publications per batch")
	flags.Int64("seed", 0, "Random seed; 0 picks one from the clock")
	flags.String("profiles", "", "YAML file of distribution profile overrides")
	flags.String("data-dir", "", "Directory of lexical pool files replacing the built-in ones")
	flags.String("content-dir", defaults.ContentDir, "Directory of files to upload as file content")
	flags.String("pictures-dir", defaults.PicturesDir, "Directory of profile pictures")
	flags.String("scripts-dir", defaults.ScriptsDir, "Directory the batches are written to")

	bindings := map[string]string{
		"logLevel":     "log-level",
		"batches":      "batches",
		"tenant":       "tenant",
		"users":        "users",
		"groups":       "groups",
		"content":      "content",
		"discussions":  "discussions",
		"publications": "publications",
		"seed":         "seed",
		"profilesFile": "profiles",
		"dataDir":      "data-dir",
		"contentDir":   "content-dir",
		"picturesDir":  "pictures-dir",
		"scriptsDir":   "scripts-dir",
	}
	logging.ExitOnError(config.BindFlags(flags, bindings), "binding flags")
	return cmd
}

func run(c configuration.GeneratorConfiguration) error {
	ctx := app.CreateContextWithShutdown()
	total := int64(c.Batches) * int64(c.Users+c.Groups+c.Content+c.Discussions+c.Publications)
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	start := time.Now()
	seed, err := generator.Run(ctx, c, generator.WithProgress(func(model.EntityType) {
		_ = bar.Add(1)
	}))
	_ = bar.Finish()
	if err != nil {
		logging.WithStacktrace(log.NewEntry(log.StandardLogger()), err).Error("generation failed")
		return err
	}
	log.WithFields(log.Fields{"seed": seed, "elapsed": time.Since(start).Round(time.Millisecond)}).
		Infof("Finished generating %d batches into %s", c.Batches, c.ScriptsDir)
	return nil
}

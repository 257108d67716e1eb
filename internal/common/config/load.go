package config

import (
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. MODELLOADER_SERVERURL.
const EnvPrefix = "MODELLOADER"

// LoadConfigFile reads cfgFile into viper if set. Otherwise it looks for .<defaultName>.yaml in the
// user's home directory, which need not exist.
func LoadConfigFile(cfgFile string, defaultName string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "error getting user home directory")
		}
		viper.AddConfigPath(home)
		viper.SetConfigName("." + defaultName)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			// Only returned when looking for the default file, which is optional.
		case *os.PathError:
			return errors.Wrapf(err, "config file %s does not exist", cfgFile)
		default:
			return errors.Wrapf(err, "error reading config file %s", viper.ConfigFileUsed())
		}
	}
	return nil
}

// Unmarshal decodes the merged viper state (flags, env, file) into config using CustomHooks.
func Unmarshal(config interface{}) error {
	if err := viper.Unmarshal(config, CustomHooks...); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// BindFlags binds each viper key in bindings to the flag of flags it names.
func BindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return errors.Errorf("no flag %s to bind %s to", name, key)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "binding flag %s", name)
		}
	}
	return nil
}

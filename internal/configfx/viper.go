package configfx

import (
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix              = "eslimiter"
	DefaultConfigDirectory = "eslimiter"
	DefaultConfigFile      = "eslimiter"
)

var (
	defaultConfigPaths = []string{
		".",
		"./config",
		path.Join("/etc", DefaultConfigDirectory),
	}

	// flags bound to nested config keys
	flagKeys = map[string]string{
		"journal_dsn": "journal.dsn",
	}
)

func ViperProvider(logger *logrus.Logger, flagSet *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(flagSet)
	if err != nil {
		return nil, err
	}

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configFile := v.GetString("config")
	if configFile == "" {
		configFile = v.GetString("settings")
	}

	// Read config from config file
	if configFile != "" {
		// If user do specify config file, then this file MUST exist and be valid
		// so missing file is a fatal error

		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "Unable to read settings file %s", configFile)
		}
	} else {
		// If user does not specify config file, then we'll still try to find appropriate config,
		// but missing file is not an error

		v.SetConfigName(DefaultConfigFile)

		for _, dir := range defaultConfigPaths {
			v.AddConfigPath(dir)
		}

		if err := v.ReadInConfig(); err != nil {
			logger.WithError(err).Debug("Couldn't read config file")
		}
	}

	return v, nil
}

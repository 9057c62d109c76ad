package loggerfx

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestConfigureLogger_Defaults(t *testing.T) {
	logger := logrus.New()
	lc := fxtest.NewLifecycle(t)

	err := ConfigureLogger(lc, logger, viper.New())

	require.Nil(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.Level)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestConfigureLogger_FileAndJson(t *testing.T) {
	dir, err := ioutil.TempDir("", "eslimiter-log")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	logPath := filepath.Join(dir, "nested", "eslimiter.log")

	v := viper.New()
	v.Set(ConfigLogLevel, "info")
	v.Set(ConfigLogFormat, "json")
	v.Set(ConfigLogPath, logPath)

	logger := logrus.New()
	lc := fxtest.NewLifecycle(t)

	require.Nil(t, ConfigureLogger(lc, logger, v))

	assert.Equal(t, logrus.InfoLevel, logger.Level)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger.WithField("index_pattern", "logs-*").Info("hello")
	lc.RequireStart().RequireStop()

	content, err := ioutil.ReadFile(logPath)
	require.Nil(t, err)
	assert.Contains(t, string(content), `"index_pattern":"logs-*"`)
}

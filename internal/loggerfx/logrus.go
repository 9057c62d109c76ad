package loggerfx

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const (
	ConfigLogLevel  = "log_level"
	ConfigLogFormat = "log_format"
	ConfigLogPath   = "log_path"

	defaultLogLevel = logrus.WarnLevel
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{})
}

func Logger() *logrus.Logger {
	return logger
}

func ConfigureLogger(lc fx.Lifecycle, logger *logrus.Logger, v *viper.Viper) error {
	logLevel := v.GetString(ConfigLogLevel)
	logFormat := v.GetString(ConfigLogFormat)
	logPath := v.GetString(ConfigLogPath)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = defaultLogLevel
	}

	logger.SetLevel(level)

	switch logFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		fallthrough
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if logPath == "" {
		return nil
	}

	f, err := openLogFile(logPath)
	if err != nil {
		return err
	}

	logger.SetOutput(f)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.SetOutput(os.Stderr)
			return f.Close()
		},
	})

	return nil
}

func openLogFile(logPath string) (*os.File, error) {
	dir := filepath.Dir(logPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "Creation of log directory failed")
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to open log file")
	}

	return f, nil
}

// DefaultLoggerAdapter exposes the logger to code expecting a *log.Logger,
// e.g. http.Server.ErrorLog.
func DefaultLoggerAdapter(logger *logrus.Logger) *log.Logger {
	return log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0)
}

// FxPrinter routes fx's own messages to debug level.
type FxPrinter struct {
	Logger logrus.FieldLogger
}

func (p FxPrinter) Printf(format string, args ...interface{}) {
	p.Logger.Debugf(format, args...)
}

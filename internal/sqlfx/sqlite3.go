package sqlfx

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/eslimiter/pkg/storage"
	"github.com/yurykabanov/eslimiter/pkg/util"
)

const (
	ConfigJournalDSN        = "journal.dsn"
	ConfigJournalMigrations = "journal.migrations"

	defaultMigrationsPath = "file://migrations/"
)

type SqliteConfig struct {
	DSN            string
	DatabaseName   string
	MigrationsPath string
}

func SqliteConfigProvider(v *viper.Viper) (*SqliteConfig, error) {
	config := &SqliteConfig{
		DSN:            v.GetString(ConfigJournalDSN),
		DatabaseName:   "eslimiter",
		MigrationsPath: v.GetString(ConfigJournalMigrations),
	}

	if config.MigrationsPath == "" {
		config.MigrationsPath = defaultMigrationsPath
	}

	return config, nil
}

// OpenSqliteDatabase returns a nil DB when the journal is disabled.
func OpenSqliteDatabase(config *SqliteConfig, logger *logrus.Logger) (*sqlx.DB, error) {
	if config.DSN == "" {
		logger.Debug("Journal DSN is not configured, runs will not be recorded")
		return nil, nil
	}

	logger.WithField("dsn", config.DSN).Debug("Connecting to DB with DSN")

	db, err := sqlx.Open("sqlite3", config.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to connect to DB")
	}

	db.MapperFunc(util.CamelToSnakeCase)

	err = storage.Migrate(db, config.MigrationsPath, config.DatabaseName)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func CloseSqliteDatabase(lc fx.Lifecycle, db *sqlx.DB) {
	if db == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
}

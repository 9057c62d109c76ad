package configfx

import (
	"os"

	"github.com/spf13/pflag"
)

func PFlags() (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

	// Config file flags, --settings is kept for existing cron jobs
	fs.StringP("config", "c", "", "Config file (yaml)")
	fs.String("settings", "", "Alias for --config")

	fs.String("es_host", "", "Elasticsearch host. Example: https://elk01.example.com:9200")
	fs.String("es_user", "", "Elasticsearch username. Example: elastic")
	fs.String("es_pass", "", "Elasticsearch password")
	fs.String("es_ca_path", "", "Path to CA cert. If empty, ssl verification is disabled")

	fs.String("limits", "", `Limit settings in json format. Example '{"index_pattern":"limiter-test-*","max_size":"10m"}'`)

	fs.String("log_level", "", "Log level. One of [debug|info|warning|error] (default: warning)")
	fs.String("log_path", "", "Path to log file. If empty, stderr is used")
	fs.String("log_format", "", "Log format. One of [text|json] (default: text)")

	fs.String("schedule", "", "Cron spec. If set, the limiter keeps running and is triggered by the schedule")
	fs.String("journal_dsn", "", "SQLite DSN of the run journal. If empty, runs are not recorded")

	return fs, fs.Parse(os.Args[1:])
}

package storefx

import (
	"context"
	"crypto/tls"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/eslimiter/pkg/domain"
	"github.com/yurykabanov/eslimiter/pkg/store"
)

const (
	ConfigElasticHost   = "es_host"
	ConfigElasticUser   = "es_user"
	ConfigElasticPass   = "es_pass"
	ConfigElasticCAPath = "es_ca_path"
	ConfigStoreTimeout  = "store.timeout"

	defaultStoreTimeout = 30 * time.Second
)

type ElasticConnectionConfig struct {
	Addresses []string
	Username  string
	Password  string
	CAPath    string
	Timeout   time.Duration
}

func ElasticConnectionConfigProvider(v *viper.Viper) (*ElasticConnectionConfig, error) {
	config := &ElasticConnectionConfig{
		Username: v.GetString(ConfigElasticUser),
		Password: v.GetString(ConfigElasticPass),
		CAPath:   v.GetString(ConfigElasticCAPath),
		Timeout:  v.GetDuration(ConfigStoreTimeout),
	}

	for _, addr := range strings.Split(v.GetString(ConfigElasticHost), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			config.Addresses = append(config.Addresses, addr)
		}
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultStoreTimeout
	}

	if len(config.Addresses) == 0 {
		return nil, errors.New("es_host not configured. Set as commandline option or in settings file")
	}
	if config.Username == "" {
		return nil, errors.New("es_user not configured. Set as commandline option or in settings file")
	}
	if config.Password == "" {
		return nil, errors.New("es_pass not configured. Set as commandline option or in settings file")
	}

	return config, nil
}

func ElasticClient(config *ElasticConnectionConfig, logger *logrus.Logger) (*elasticsearch.Client, error) {
	logger.WithField("addresses", config.Addresses).Debug("Connecting to elasticsearch")

	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	}

	if config.CAPath != "" {
		cert, err := ioutil.ReadFile(config.CAPath)
		if err != nil {
			return nil, errors.Wrap(err, "Unable to read CA cert")
		}
		cfg.CACert = cert
	} else {
		logger.Debug("No CA cert configured, ssl verification is disabled")
		cfg.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create elasticsearch client")
	}

	return client, nil
}

func ElasticStore(config *ElasticConnectionConfig, client *elasticsearch.Client) (*store.Elastic, domain.Store) {
	s := store.NewElastic(client, config.Timeout)

	return s, s
}

func PingElastic(lc fx.Lifecycle, s *store.Elastic) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return errors.Wrap(s.Ping(ctx), "Unable to ping elasticsearch")
		},
	})
}

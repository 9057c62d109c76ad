package domainfx

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/yurykabanov/eslimiter/pkg/domain"
)

const ConfigLimits = "limits"

// LoadLimits reads the limit entries either from the settings file (a list
// or a single entry) or from the --limits flag (json, single quotes allowed).
// The entries are validated later by the orchestrator, all at once.
func LoadLimits(v *viper.Viper) ([]domain.LimitConfig, error) {
	switch raw := v.Get(ConfigLimits).(type) {
	case nil:
		return nil, errors.New("limits not configured. Set as commandline option or in settings file")
	case string:
		return parseLimitsJson(raw)
	case map[string]interface{}:
		var limit domain.LimitConfig
		if err := v.UnmarshalKey(ConfigLimits, &limit); err != nil {
			return nil, errors.Wrap(err, "Unable to unmarshal limits")
		}
		return []domain.LimitConfig{limit}, nil
	}

	var limits []domain.LimitConfig

	err := v.UnmarshalKey(ConfigLimits, &limits)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to unmarshal limits")
	}

	return limits, nil
}

func parseLimitsJson(raw string) ([]domain.LimitConfig, error) {
	raw = strings.TrimSpace(strings.Replace(raw, "'", `"`, -1))
	if raw == "" {
		return nil, errors.New("limits not configured. Set as commandline option or in settings file")
	}

	if strings.HasPrefix(raw, "[") {
		var limits []domain.LimitConfig
		if err := json.Unmarshal([]byte(raw), &limits); err != nil {
			return nil, errors.Wrap(err, "Unable to parse limits")
		}
		return limits, nil
	}

	var limit domain.LimitConfig
	if err := json.Unmarshal([]byte(raw), &limit); err != nil {
		return nil, errors.Wrap(err, "Unable to parse limits")
	}

	return []domain.LimitConfig{limit}, nil
}

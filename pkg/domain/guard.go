package domain

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	systemIndexPrefix = "."
	dataStreamPrefix  = ".ds"
	wildcardPrefix    = "*"
	patternSeparator  = ","
)

// ValidatePattern rejects patterns that could match system indices. Indices
// starting with '.' are system indices, except '.ds' backing indices of data
// streams. A leading '*' would match system indices as well. The store reads
// a comma separated pattern as a list of targets, so every part is checked.
func ValidatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return configError("", "missing index_pattern")
	}

	for _, part := range strings.Split(pattern, patternSeparator) {
		if err := validatePatternPart(pattern, strings.TrimSpace(part)); err != nil {
			return err
		}
	}

	return nil
}

func validatePatternPart(pattern, part string) error {
	if part == "" {
		return configError(pattern, "empty target in index_pattern")
	}

	if strings.HasPrefix(part, dataStreamPrefix) {
		return nil
	}

	if strings.HasPrefix(part, systemIndexPrefix) || strings.HasPrefix(part, wildcardPrefix) {
		return configError(pattern, "limiting system indices is not allowed")
	}

	return nil
}

// NewRetentionRule validates a limit entry and converts it to a rule.
func NewRetentionRule(cfg LimitConfig) (RetentionRule, error) {
	if err := ValidatePattern(cfg.IndexPattern); err != nil {
		return RetentionRule{}, err
	}

	if strings.TrimSpace(cfg.MaxSize) == "" {
		return RetentionRule{}, configError(cfg.IndexPattern, "missing max_size")
	}

	maxBytes, err := humanize.ParseBytes(cfg.MaxSize)
	if err != nil {
		return RetentionRule{}, configError(cfg.IndexPattern, "invalid max_size "+cfg.MaxSize)
	}

	minCount := DefaultMinRetainedCount
	if cfg.MinNumIndices != nil {
		minCount = *cfg.MinNumIndices
	}
	if minCount < 0 || int64(minCount) > math.MaxUint32 {
		return RetentionRule{}, configError(cfg.IndexPattern, "min_num_indices out of range")
	}

	return RetentionRule{
		IndexPattern:     cfg.IndexPattern,
		MaxSize:          cfg.MaxSize,
		MaxBytes:         maxBytes,
		MinRetainedCount: uint32(minCount),
	}, nil
}

// NewRetentionRules validates every entry before any of them is used.
func NewRetentionRules(cfgs []LimitConfig) ([]RetentionRule, error) {
	rules := make([]RetentionRule, 0, len(cfgs))

	for _, cfg := range cfgs {
		rule, err := NewRetentionRule(cfg)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

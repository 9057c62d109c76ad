package domain

// LimitConfig is a limit entry as it appears in the settings file or in the
// --limits flag. It becomes a RetentionRule only after passing the guard.
type LimitConfig struct {
	IndexPattern  string `mapstructure:"index_pattern" json:"index_pattern"`
	MaxSize       string `mapstructure:"max_size" json:"max_size"`
	MinNumIndices *int   `mapstructure:"min_num_indices" json:"min_num_indices"`
}

const DefaultMinRetainedCount = 1

// RetentionRule caps the aggregate size of the indices matching IndexPattern
// while never going below MinRetainedCount indices.
type RetentionRule struct {
	IndexPattern     string
	MaxSize          string
	MaxBytes         uint64
	MinRetainedCount uint32
}

package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoMatch               = errors.New("no indices found matching pattern")
	ErrRetentionFloorReached = errors.New("min indices reached")
	ErrEvictionStalled       = errors.New("deleted index still reported by the store")

	// ErrEvictionBudgetExhausted ends a rule whose index count kept growing
	// while evicting. The run continues with the next rule.
	ErrEvictionBudgetExhausted = errors.New("eviction step budget exhausted")
)

// ConfigurationError is a defect in a limit entry. It aborts the whole run.
type ConfigurationError struct {
	Pattern string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Pattern == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (index_pattern %q)", e.Reason, e.Pattern)
}

func configError(pattern, reason string) error {
	return &ConfigurationError{Pattern: pattern, Reason: reason}
}

// StoreError is a failed round trip to the document store.
type StoreError struct {
	Op      string
	Pattern string
	Index   string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Index != "" {
		return fmt.Sprintf("%s index %s (index_pattern %q): %v", e.Op, e.Index, e.Pattern, e.Err)
	}
	return fmt.Sprintf("%s indices (index_pattern %q): %v", e.Op, e.Pattern, e.Err)
}

func (e *StoreError) Cause() error {
	return e.Err
}

// IsConfigurationError reports whether the cause of err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigurationError)
	return ok
}

// IsStoreError reports whether err or any error it wraps is a *StoreError.
func IsStoreError(err error) bool {
	for err != nil {
		if _, ok := err.(*StoreError); ok {
			return true
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

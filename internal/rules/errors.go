package rules

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRule      = errors.New("unknown rule")
	ErrDuplicateRule    = errors.New("duplicate rule")
	ErrInvalidLevel     = errors.New("invalid level")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrInvalidValue     = errors.New("invalid value")
	ErrUnknownPreset    = errors.New("unknown preset")
	ErrExtendsCycle     = errors.New("extends cycle")
)

// ConfigError reports a rule that could not be built from configuration.
type ConfigError struct {
	Rule string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("rule config: %v", e.Err)
	}
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

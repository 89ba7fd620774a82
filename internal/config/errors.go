package config

import (
	"errors"
	"fmt"
)

var ErrMissingConfiguration = errors.New("missing required configuration")

// MissingConfigurationError reports a required key that is absent or blank.
type MissingConfigurationError struct {
	Key string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration key %q", e.Key)
}

func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

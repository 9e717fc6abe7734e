package engine

import "errors"

// ErrStoreNotFound is returned when a seed store identifier matches no
// catalog entry. Callers that can degrade (deals, browse) translate it into
// an empty result; callers that cannot (ingredient matching) surface it.
var ErrStoreNotFound = errors.New("store not found")

// ErrInvalidConfig is returned when the engine configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}

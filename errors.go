package quickdb

import (
	"errors"

	"github.com/sw3do/quickdb/engine"
)

// Error taxonomy. ErrInvalidKey and ErrCorruptValue originate in the engine
// package and are re-exported here so callers only need errors.Is against
// this package.
var (
	// ErrConnection wraps failures to reach or open the backing store,
	// whether from an explicit Connect or an implicit one. The core never
	// retries; that is the caller's call.
	ErrConnection = errors.New("cannot connect to backing store")

	// ErrInvalidOperation is returned by Math for an unrecognized operator.
	ErrInvalidOperation = errors.New("invalid math operation")

	ErrInvalidKey   = engine.ErrInvalidKey
	ErrCorruptValue = engine.ErrCorruptValue
)

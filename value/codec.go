package value

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt is returned by Decode when the payload is not a well-formed
// encoding. The engine wraps it per key.
var ErrCorrupt = errors.New("corrupt value encoding")

// Encode serializes v into its canonical byte encoding. The encoding is
// JSON, so it is self-describing and round-trips every variant exactly
// (numbers use the shortest representation that parses back to the same
// float64).
func Encode(v Value) ([]byte, error) {
	b, err := json.Marshal(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return b, nil
}

// Decode parses a canonical encoding produced by Encode. Malformed input
// fails with ErrCorrupt.
func Decode(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Null(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	v, err := FromGo(raw)
	if err != nil {
		return Null(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return v, nil
}

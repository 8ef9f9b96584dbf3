// Package storage provides the durable key-value sink that hands an
// assessment from the submission flow to the result view.
package storage

import "errors"

// ErrUnavailable is returned when the backing store cannot be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// KV is a minimal string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, overwriting any prior value.
	Set(key, value string) error
}

// Batcher is implemented by stores that can write several keys in one step.
type Batcher interface {
	SetMany(values map[string]string) error
}

// SetAll writes every value, in one step when kv supports it.
func SetAll(kv KV, values map[string]string) error {
	if b, ok := kv.(Batcher); ok {
		return b.SetMany(values)
	}
	for k, v := range values {
		if err := kv.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

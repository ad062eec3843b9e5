package reservoir

import (
	"encoding/json"
	"time"
)

// Never is the sentinel TTL meaning "no expiry", passed to Put in place of
// a relative duration.
const Never time.Duration = -1

// PutValue encodes value as JSON and stores it under key, following the
// teacher module's own DTO convention of encoding/json as the default
// serialization for cached objects (see pkg/capacitor/dto.go). It is the
// generic façade over the raw-bytes Put path described in SPEC_FULL.md's
// "dynamic type-erased value path" design note; callers on the hot path
// should prefer Cache.Put directly.
func PutValue[T any](c *Cache, key string, value T, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return c.Put(key, data, ttl), nil
}

// GetValue looks up key and decodes it into T. A miss returns ok=false and
// a nil error; a present value that fails to decode returns ok=true and the
// decode error.
func GetValue[T any](c *Cache, key string) (T, bool, error) {
	var zero T
	data, ok := c.Get(key)
	if !ok {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, true, err
	}
	return v, true, nil
}

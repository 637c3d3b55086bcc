// Package cache stores raw LLM responses so re-runs over the same
// guideline pages do not repeat paid API calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key for one LLM call. Provider, model and the
// full prompt participate so a prompt or backend change invalidates
// stale entries; imagePath distinguishes vision calls that share a
// prompt.
func Key(provider, model, prompt, imagePath string) string {
	h := sha256.Sum256([]byte(strings.Join([]string{provider, model, prompt, imagePath}, "|")))
	return "precisiondoc:v1:" + hex.EncodeToString(h[:])
}

package core

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const cacheDigestLength = 32

// CacheKey derives the cache slot for a request. encoding/json writes map keys in sorted
// order at every depth, so structurally equal params give the same key regardless of
// insertion order.
func CacheKey(typ string, params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}
	canonical, err := json.Marshal(params)
	if err != nil {
		canonical = []byte(fmt.Sprintf("%v", params))
	}
	sum := sha256.Sum256(canonical)
	return typ + "_" + base64.RawURLEncoding.EncodeToString(sum[:])[:cacheDigestLength]
}

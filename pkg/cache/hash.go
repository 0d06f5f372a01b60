package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// resultPrefix namespaces pipeline result keys.
const resultPrefix = "result"

// Hash returns the 16-character hex xxhash of data.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ResultKey derives the cache key of a run over graph with the given
// pipeline configuration. The configuration is hashed through its JSON
// encoding, so equal configs loaded from different formats share a key.
func ResultKey(graph []byte, config any) (string, error) {
	cfg, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	d := xxhash.New()
	_, _ = d.Write(graph)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(cfg)
	return fmt.Sprintf("%s:%016x", resultPrefix, d.Sum64()), nil
}

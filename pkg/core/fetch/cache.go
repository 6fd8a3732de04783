package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PayloadCache is a file-based cache of raw provider payloads, keyed by
// provider and ticker. It exists so bulk runs can survive a flaky endpoint;
// entries are overwritten on every successful fetch.
type PayloadCache struct {
	cacheDir string
}

// NewPayloadCache creates a cache rooted at dir, defaulting to
// .cache/providers under the working directory.
func NewPayloadCache(dir string) *PayloadCache {
	if dir == "" {
		dir = filepath.Join(".cache", "providers")
	}
	os.MkdirAll(dir, 0755)
	return &PayloadCache{cacheDir: dir}
}

func (c *PayloadCache) filePath(provider, ticker string) string {
	key := fmt.Sprintf("%s_%s.json", provider, strings.ToUpper(ticker))
	return filepath.Join(c.cacheDir, key)
}

// Get returns the cached payload, or nil when there is none.
func (c *PayloadCache) Get(provider, ticker string) []byte {
	data, err := os.ReadFile(c.filePath(provider, ticker))
	if err != nil {
		return nil
	}
	return data
}

// Set stores a payload, replacing any previous entry.
func (c *PayloadCache) Set(provider, ticker string, payload []byte) error {
	return os.WriteFile(c.filePath(provider, ticker), payload, 0644)
}

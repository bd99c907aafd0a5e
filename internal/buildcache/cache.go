// Package buildcache lets `tsreflect build` skip work when nothing changed.
//
// A build is skipped only when the reflection document, the effective
// configuration and the tool version all hash the same as in the last
// successful build, and every output that build wrote is still on disk. Any
// failed check rebuilds everything; reflection results are not cached per
// site across runs.
package buildcache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/zeebo/xxh3"
)

// SchemaVersion is bumped when the cache format or output format changes.
// A mismatch forces a full rebuild, ensuring binary upgrades don't produce stale outputs.
const SchemaVersion = 2

// FileName is the cache file name inside the output directory.
const FileName = ".tsreflect-cache"

// Cache represents the on-disk build cache. It records what was true when
// the last build succeeded.
type Cache struct {
	// V is the schema version. Must match SchemaVersion or cache is invalid.
	V int `json:"v"`

	// InputHash is the xxh3 digest of the reflection document.
	InputHash string `json:"inputHash"`

	// ConfigHash is the xxh3 digest of the effective configuration,
	// including command-line overrides and the tool version.
	ConfigHash string `json:"configHash"`

	// Outputs lists the paths written by the build. They must still exist
	// for the cache to be valid.
	Outputs []string `json:"outputs"`
}

// CachePath returns the cache file path inside the output directory.
// Deleting the output directory also removes the cache, guaranteeing a
// fresh build.
func CachePath(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// Load reads and parses a cache file from disk.
// Returns nil if the file doesn't exist, is unreadable, or is invalid JSON.
// Callers should treat nil as a cache miss.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}

	return &c
}

// Save writes the cache to disk atomically (write to temp, rename).
// A failed save only means the next build won't benefit from caching.
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}

	return nil
}

// Delete removes the cache file from disk. Errors are ignored (file may not exist).
func Delete(path string) {
	os.Remove(path)
}

// IsValid checks whether the cache can be trusted to skip the build.
// ALL of the following must be true simultaneously:
//
//  1. Schema version matches (catches binary upgrades)
//  2. Input hash matches the current reflection document
//  3. Config hash matches the current effective configuration
//  4. All outputs still exist on disk
func (c *Cache) IsValid(inputHash, configHash string) bool {
	if c == nil {
		return false
	}
	if c.V != SchemaVersion {
		return false
	}
	if inputHash == "" || c.InputHash != inputHash {
		return false
	}
	if c.ConfigHash != configHash {
		return false
	}
	if len(c.Outputs) == 0 {
		return false
	}
	for _, path := range c.Outputs {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// HashBytes returns the hex xxh3-128 digest of data.
func HashBytes(data []byte) string {
	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:])
}

// HashFile computes the digest of a file's contents.
// Returns empty string if the file doesn't exist or can't be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return HashBytes(data)
}

// HashValue digests the deterministic JSON encoding of v.
func HashValue(v any) (string, error) {
	data, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return "", fmt.Errorf("hashing %T: %w", v, err)
	}
	return HashBytes(data), nil
}

// New creates a new Cache with the current schema version.
func New(inputHash, configHash string, outputs []string) *Cache {
	return &Cache{
		V:          SchemaVersion,
		InputHash:  inputHash,
		ConfigHash: configHash,
		Outputs:    outputs,
	}
}

package runner

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// cacheFormat is bumped whenever the stored entry layout changes.
const cacheFormat = 1

// cacheFileMode is the mode of cache entries.
const cacheFileMode = 0o600

// Cache stores lint-only diagnostics on disk, keyed by content and rule set.
// Entries are msgpack encoded. It is safe for concurrent use.
type Cache struct {
	dir         string
	fingerprint string

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	Format      int               `msgpack:"format"`
	Fingerprint string            `msgpack:"fingerprint"`
	Diagnostics []lint.Diagnostic `msgpack:"diagnostics"`
}

// DefaultCacheDir returns the per-user cache directory for cfmtlint.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(base, "cfmtlint"), nil
}

// NewCache opens or creates a cache in dir for the given rule-set fingerprint.
func NewCache(dir, fingerprint string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, fingerprint: fingerprint}, nil
}

// Fingerprint identifies the effective rule set. Any change to which rules
// run, their severity or their options yields a different value.
func Fingerprint(registry *lint.Registry, cfg *config.Config) (string, error) {
	type ruleKey struct {
		ID       string          `msgpack:"id"`
		Severity config.Severity `msgpack:"severity"`
		Override bool            `msgpack:"override"`
		Options  map[string]any  `msgpack:"options,omitempty"`
	}

	var keys []ruleKey
	for _, rr := range lint.ResolveRules(registry, cfg) {
		key := ruleKey{ID: rr.Rule.ID(), Severity: rr.Severity, Override: rr.SeverityOverride}
		if rr.Config != nil {
			key.Options = rr.Config.Options
		}
		keys = append(keys, key)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(cacheFormat); err != nil {
		return "", fmt.Errorf("encode fingerprint: %w", err)
	}
	if err := enc.Encode(keys); err != nil {
		return "", fmt.Errorf("encode fingerprint: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// Key returns the cache key for content.
func (c *Cache) Key(content []byte) string {
	h := sha256.New()
	h.Write([]byte(c.fingerprint))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key[:2], key+".msgpack")
}

// Get returns the cached diagnostics for key. FilePath is set to path.
func (c *Cache) Get(ctx context.Context, key, path string) ([]lint.Diagnostic, bool) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.FromContext(ctx).Debug("cache read failed", logging.FieldPath, path, logging.FieldError, err)
		}
		c.misses.Add(1)
		return nil, false
	}

	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil ||
		entry.Format != cacheFormat || entry.Fingerprint != c.fingerprint {
		c.misses.Add(1)
		return nil, false
	}

	for i := range entry.Diagnostics {
		entry.Diagnostics[i].FilePath = path
	}
	c.hits.Add(1)

	return entry.Diagnostics, true
}

// Put stores diagnostics under key.
func (c *Cache) Put(ctx context.Context, key string, diags []lint.Diagnostic) error {
	stored := make([]lint.Diagnostic, len(diags))
	for i, d := range diags {
		d.FilePath = ""
		stored[i] = d
	}

	data, err := msgpack.Marshal(cacheEntry{
		Format:      cacheFormat,
		Fingerprint: c.fingerprint,
		Diagnostics: stored,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	p := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("create cache shard: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, p, data, cacheFileMode); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Hits returns the number of successful lookups.
func (c *Cache) Hits() int {
	return int(c.hits.Load())
}

// Misses returns the number of failed lookups.
func (c *Cache) Misses() int {
	return int(c.misses.Load())
}

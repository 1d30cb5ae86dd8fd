package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hone/internal/diag"
	"hone/internal/lint"
	"hone/internal/source"
)

// Current schema version - increment when diskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// DiskCache stores the diagnostics of a file keyed by its content and the
// effective rule set. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskPayload struct {
	Schema      uint16
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache opens the cache in dir, or under $XDG_CACHE_HOME/hone (falling
// back to ~/.cache/hone) when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "hone")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey: H(schema || content || rules).
func CacheKey(content, rules Digest) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte{byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion)})
	_, _ = h.Write(content[:])
	_, _ = h.Write(rules[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// RuleSetKey hashes everything besides file content that changes findings:
// the lints, their effective levels and the rule settings.
func RuleSetKey(reg *lint.Registry, levels lint.Levels, settings lint.Settings) Digest {
	h := sha256.New()
	for _, def := range reg.All() {
		_, _ = h.Write([]byte(def.Name + "=" + levels.Of(def).String() + "\n"))
	}
	// уровни по группам влияют и на #[allow] внутри файла
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = h.Write([]byte("level " + name + "=" + levels[name].String() + "\n"))
	}
	_, _ = h.Write([]byte("default_trait=" + settings.DefaultTrait))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Store serializes diagnostics and writes them to the disk cache.
func (c *DiskCache) Store(key Digest, diags []diag.Diagnostic) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
			err = removeErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&diskPayload{Schema: diskCacheSchemaVersion, Diagnostics: diags}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Load reads cached diagnostics and rebinds their spans to file. A missing,
// unreadable or outdated entry is a miss.
func (c *DiskCache) Load(key Digest, file source.FileID) ([]diag.Diagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	for i := range payload.Diagnostics {
		rebind(&payload.Diagnostics[i], file)
	}
	return payload.Diagnostics, true
}

// rebind moves every span of d to file: FileIDs are per-run.
func rebind(d *diag.Diagnostic, file source.FileID) {
	d.Primary.File = file
	for i := range d.Notes {
		d.Notes[i].Span.File = file
	}
	for i := range d.Fixes {
		for j := range d.Fixes[i].Edits {
			d.Fixes[i].Edits[j].Span.File = file
		}
	}
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// Package cache persists resolved manifest scopes on disk so repeated
// invocations skip TOML decoding and type-reference parsing. Entries
// are keyed by the SHA-256 of the manifest bytes; writes are atomic.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"sift/internal/types"
)

// schemaVersion invalidates every entry when the payload layout changes.
const schemaVersion uint16 = 1

// Digest identifies a manifest's exact content.
type Digest [sha256.Size]byte

// Key hashes manifest bytes into a cache key.
func Key(data []byte) Digest {
	return sha256.Sum256(data)
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ScopeCache is a disk cache of resolved scopes. Safe for concurrent
// use; the zero value (nil) is a no-op cache.
type ScopeCache struct {
	mu  sync.RWMutex
	dir string
}

type payload struct {
	Schema uint16
	Scope  scopeData
}

// scopeData mirrors types.Scope with deterministic, flat containers.
type scopeData struct {
	Variables map[string]types.Variable
	Types     map[string]types.TypeDef
}

// Open initializes the cache under XDG_CACHE_HOME (or ~/.cache) in the
// app subdirectory.
func Open(app string) (*ScopeCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ScopeCache{dir: dir}, nil
}

func (c *ScopeCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "scopes", key.String()+".mp")
}

// Put serializes scope under key. A failed write leaves any previous
// entry intact.
func (c *ScopeCache) Put(key Digest, scope types.Scope) error {
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
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&payload{
		Schema: schemaVersion,
		Scope: scopeData{
			Variables: scope.Variables,
			Types:     scope.Types,
		},
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the scope stored under key. A miss, a schema mismatch or a
// corrupt entry all report !ok without error; the caller re-resolves.
func (c *ScopeCache) Get(key Digest) (types.Scope, bool) {
	if c == nil {
		return types.Scope{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return types.Scope{}, false
	}
	defer f.Close()

	var data payload
	if err := msgpack.NewDecoder(f).Decode(&data); err != nil {
		return types.Scope{}, false
	}
	if data.Schema != schemaVersion {
		return types.Scope{}, false
	}
	out := types.Scope{
		Variables: data.Scope.Variables,
		Types:     data.Scope.Types,
	}
	if out.Variables == nil {
		out.Variables = make(map[string]types.Variable)
	}
	if out.Types == nil {
		out.Types = make(map[string]types.TypeDef)
	}
	return out, true
}

// DropAll removes every cached entry.
func (c *ScopeCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.RemoveAll(filepath.Join(c.dir, "scopes"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

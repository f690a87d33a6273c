// Package abicache bounds a per-account cache of decoded binary-interface
// descriptors behind a single-thread-owned, evict-on-insert LRU.
//
// The cache is owned exclusively by the pipeline's consumer thread: it
// performs no locking of its own.
package abicache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nodeplugins/esindex/internal/variant"
)

// systemAccount is the account whose setabi.abi field is rewritten from raw
// bytes into structured form.
const systemAccount = "eosio"

// Entry is one ABI cache record.
type Entry struct {
	Account      string
	LastAccessed time.Time
	Descriptor   *variant.Descriptor // nil when the account has no ABI
}

// Resolver fetches the ABI document for an account that isn't cached. It
// returns (descriptor, found). A found=false with a nil error means the
// lookup legitimately came back empty (zero or more than one hit); the
// caller caches nothing in that case.
type Resolver func(account string) (*variant.Descriptor, bool, error)

// Cache is a bounded, LRU-evicted ABI descriptor cache. The underlying
// hashicorp/golang-lru cache already maintains recency order
// internally, so a lookup's "touch" and an insert's "evict the
// least-recently-accessed entry" are both handled by one structure instead
// of the two hand-rolled indexes (primary-by-account, secondary-by-time) the
// original design sketches — see DESIGN.md.
type Cache struct {
	entries *lru.Cache[string, *Entry]
	fetch   Resolver
}

// New builds a cache bounded at size entries, 1 at minimum.
func New(size int, fetch Resolver) *Cache {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[string, *Entry](size)
	if err != nil {
		// lru.New only errors on size <= 0, which is excluded above.
		panic(err)
	}
	return &Cache{entries: c, fetch: fetch}
}

// Lookup returns the descriptor for account, querying the resolver and
// populating the cache on a miss. The second return is false when the
// account has no ABI (either previously cached as absent-equivalent, or the
// resolver found no unambiguous match).
func (c *Cache) Lookup(account string) (*variant.Descriptor, bool, error) {
	if e, ok := c.entries.Get(account); ok {
		e.LastAccessed = time.Now()
		return e.Descriptor, e.Descriptor != nil, nil
	}

	desc, found, err := c.fetch(account)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	if account == systemAccount {
		rewriteSystemSetabi(desc)
	}
	c.entries.Add(account, &Entry{
		Account:      account,
		LastAccessed: time.Now(),
		Descriptor:   desc,
	})
	return desc, true, nil
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int { return c.entries.Len() }

// rewriteSystemSetabi rewrites the system account's setabi action so that
// the `abi` field is decoded to structured form rather than left as an
// opaque byte blob.
func rewriteSystemSetabi(desc *variant.Descriptor) {
	for i := range desc.Actions {
		if desc.Actions[i].Name != "setabi" {
			continue
		}
		for j := range desc.Actions[i].Fields {
			if desc.Actions[i].Fields[j].Name == "abi" {
				desc.Actions[i].Fields[j].Type = "abi_def"
			}
		}
	}
}

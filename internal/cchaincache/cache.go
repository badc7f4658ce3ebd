// Package cchaincache implements the chain-key cache (C4): a
// directory of ".cchain" text files, one per endpoint, holding the
// expected call chains callchain.Remap resolves non-rooted observed
// chains against. Each endpoint's file is read from disk once and kept in
// a size-bounded LRU; an endpoint evicted from the LRU is read again on its
// next Get (see New). Concurrent misses for the same endpoint share a
// single disk read via singleflight.
package cchaincache

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/pkg/cache"
)

// estimatedCallBytes approximates the in-memory size of one Call, used to
// size cache entries for the LRU's byte budget.
const estimatedCallBytes = 64

// Cache is a per-endpoint expected-chain loader backed by a directory of
// ".cchain" files, with an in-memory LRU layered in front of disk.
type Cache struct {
	dir   string
	sink  *report.Sink
	lru   *cache.LRU[string, []callchain.Chain]
	group singleflight.Group
}

// New creates a chain-key cache reading ".cchain" files from dir. A
// maxSize <= 0 uses cache.DefaultLRUCacheSize, which comfortably holds
// every endpoint's parsed chains for any corpus this tool is run against in
// practice. Under that budget the cache never evicts, so each endpoint's
// file is read from disk exactly once per process lifetime. A caller who
// passes a tighter maxSize trades that guarantee for a bounded working set:
// a cold endpoint evicted under memory pressure is re-read from disk on its
// next Get rather than failing, so at-most-once becomes best-effort. sink
// receives an Ingest entry whenever an endpoint has no corresponding file.
func New(dir string, maxSize int64, sink *report.Sink) *Cache {
	return &Cache{
		dir:  dir,
		sink: sink,
		lru:  cache.New[string, []callchain.Chain](maxSize, sizeOfChains, cloneChains),
	}
}

// Get returns the expected chains known for endpoint, loading and parsing
// its ".cchain" file on first access. A missing file resolves to an empty,
// non-error result.
func (c *Cache) Get(endpoint string) ([]callchain.Chain, error) {
	if chains, ok := c.lru.Get(endpoint); ok {
		return chains, nil
	}

	result, err, _ := c.group.Do(endpoint, func() (any, error) {
		if chains, ok := c.lru.Get(endpoint); ok {
			return chains, nil
		}

		chains, loadErr := c.load(endpoint)
		if loadErr != nil {
			return nil, loadErr
		}

		c.lru.Put(endpoint, chains)

		return chains, nil
	})
	if err != nil {
		return nil, err
	}

	return cloneChains(result.([]callchain.Chain)), nil
}

func (c *Cache) load(endpoint string) ([]callchain.Chain, error) {
	path := c.filePath(endpoint)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.sink != nil {
				c.sink.Append(report.Ingest, "no chain-key cache file for endpoint %q, treating as empty", endpoint)
			}

			return nil, nil
		}

		return nil, err
	}
	defer f.Close()

	var chains []callchain.Chain

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		calls, cachingProcess, isLeaf, parseErr := callchain.ParseKey(callchain.Key(line))
		if parseErr != nil {
			if c.sink != nil {
				c.sink.Append(report.Ingest, "skipping malformed chain key in %q: %v", path, parseErr)
			}

			continue
		}

		chains = append(chains, callchain.Chain{
			Calls:          calls,
			CachingProcess: cachingProcess,
			IsLeaf:         isLeaf,
			Rooted:         true,
		})
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, scanErr
	}

	return chains, nil
}

// filePath derives the ".cchain" filename for endpoint, replacing '/' and
// '\' with '_'.
func (c *Cache) filePath(endpoint string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(endpoint)

	return c.dir + string(os.PathSeparator) + name + ".cchain"
}

func sizeOfChains(chains []callchain.Chain) int64 {
	var n int64
	for _, ch := range chains {
		n += int64(len(ch.Calls)) * estimatedCallBytes
	}

	return n
}

func cloneChains(chains []callchain.Chain) []callchain.Chain {
	if chains == nil {
		return nil
	}

	cloned := make([]callchain.Chain, len(chains))

	for i, ch := range chains {
		cloned[i] = ch
		cloned[i].Calls = append([]callchain.Call(nil), ch.Calls...)
		cloned[i].Looped = append([]string(nil), ch.Looped...)
	}

	return cloned
}

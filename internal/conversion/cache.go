package conversion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache memoizes conversion results so an identical request within the TTL
// does not cost another model call. Entries are keyed by a digest of every
// input that shapes the prompt.
type Cache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewCache(ttl time.Duration) (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7, // number of keys to track frequency of (10M).
		MaxCost:     1e7,
		BufferItems: 64, // number of keys per Get buffer.
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cache{cache: cache, ttl: ttl}, nil
}

func (c *Cache) Get(req *ConvertRequest) (*Result, bool) {
	v, ok := c.cache.Get(cacheKey(req))
	if !ok {
		return nil, false
	}
	res, ok := v.(*Result)
	return res, ok
}

func (c *Cache) Set(req *ConvertRequest, res *Result) {
	c.cache.SetWithTTL(cacheKey(req), res, int64(len(res.ConvertedCode)), c.ttl)
}

func cacheKey(req *ConvertRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%t|%t|%s",
		req.SourceCode, req.SourceLanguage, req.TargetLanguage,
		req.preserveComments(), req.OptimizeCode, req.UserPrompt)
	return hex.EncodeToString(h.Sum(nil))
}

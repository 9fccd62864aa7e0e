package out

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"agencycheck/internal/modules/progress/domain"
	progressout "agencycheck/internal/modules/progress/port/out"
)

type LRUReportCache struct {
	cache *lru.Cache[string, domain.Report]
}

func NewLRUReportCache(size int) (progressout.ReportCache, error) {
	cache, err := lru.New[string, domain.Report](size)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}
	return &LRUReportCache{cache: cache}, nil
}

func (c *LRUReportCache) Get(key string) (domain.Report, bool) {
	return c.cache.Get(key)
}

func (c *LRUReportCache) Add(key string, report domain.Report) {
	c.cache.Add(key, report)
}

func (c *LRUReportCache) Purge() {
	c.cache.Purge()
}

package income

import (
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/memo"
)

// Aggregator memoizes Aggregate on the content of its inputs, so redraws
// that don't change the records or the filter skip the recomputation.
// Returned results are shared and must be treated as read-only.
type Aggregator struct {
	cache *memo.Cache[Result]
}

// NewAggregator returns an Aggregator with the default cache size.
func NewAggregator() *Aggregator {
	return &Aggregator{cache: memo.New[Result](memo.DefaultSize)}
}

// cacheKey spells out the filter fields; Filter's String method would
// otherwise be hashed in their place.
type cacheKey struct {
	Records []api.IncomeRecord
	Year    string
	Month   string
}

// Aggregate is the memoized form of the package level Aggregate.
func (a *Aggregator) Aggregate(records []api.IncomeRecord, f Filter) Result {
	key, err := memo.Key(cacheKey{Records: records, Year: f.Year, Month: f.Month})
	if err != nil {
		log.Debug("income aggregate not cached", "err", err)
		return Aggregate(records, f)
	}
	return a.cache.Get(key, func() Result {
		return Aggregate(records, f)
	})
}

// Stats reports cache hits and misses.
func (a *Aggregator) Stats() (hits, misses int) {
	return a.cache.Stats()
}

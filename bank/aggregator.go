package bank

import (
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/memo"
)

// Aggregator memoizes Aggregate keyed on the content of its inputs.
// Returned results are shared and must be treated as read-only.
type Aggregator struct {
	cache *memo.Cache[Result]
}

// NewAggregator returns an Aggregator with the default cache size.
func NewAggregator() *Aggregator {
	return &Aggregator{cache: memo.New[Result](memo.DefaultSize)}
}

type cacheKey struct {
	Transactions []api.BankTransaction
	Filter       Filter
}

// Aggregate is the memoized form of the package level Aggregate.
func (a *Aggregator) Aggregate(txs []api.BankTransaction, f Filter) Result {
	key, err := memo.Key(cacheKey{Transactions: txs, Filter: f})
	if err != nil {
		log.Debug("bank aggregate not cached", "err", err)
		return Aggregate(txs, f)
	}
	return a.cache.Get(key, func() Result {
		return Aggregate(txs, f)
	})
}

// Stats reports cache hits and misses.
func (a *Aggregator) Stats() (hits, misses int) {
	return a.cache.Stats()
}

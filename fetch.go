package main

import "context"

type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

// fetchTracker remembers the latest request per loading key. Starting a
// fetch cancels the one it replaces, and responses from replaced fetches
// are recognised by their generation and dropped.
type fetchTracker map[string]*inflight

func newFetchTracker() fetchTracker {
	return make(fetchTracker)
}

// start registers a new fetch for key and returns its context and generation.
func (f fetchTracker) start(key string) (context.Context, uint64) {
	gen := uint64(1)
	if prev, ok := f[key]; ok {
		prev.cancel()
		gen = prev.gen + 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	f[key] = &inflight{gen: gen, cancel: cancel}
	return ctx, gen
}

// done reports whether gen is still the latest fetch for key, releasing
// its context when it is.
func (f fetchTracker) done(key string, gen uint64) bool {
	cur, ok := f[key]
	if !ok || cur.gen != gen {
		return false
	}
	cur.cancel()
	return true
}

// cancelAll abandons every fetch. Generations keep counting so late
// responses are still recognised as stale.
func (f fetchTracker) cancelAll() {
	for _, in := range f {
		in.cancel()
		in.gen++
	}
}

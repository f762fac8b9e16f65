package main

import (
	"context"
	"errors"
	"testing"

	"github.com/carlmjohnson/be"
)

func TestFetchTrackerSupersedes(t *testing.T) {
	f := newFetchTracker()

	first, gen1 := f.start(transactionsKey)
	second, gen2 := f.start(transactionsKey)

	be.Equal(t, uint64(1), gen1)
	be.Equal(t, uint64(2), gen2)
	be.True(t, errors.Is(first.Err(), context.Canceled))
	be.NilErr(t, second.Err())

	be.False(t, f.done(transactionsKey, gen1))
	be.True(t, f.done(transactionsKey, gen2))
	be.True(t, errors.Is(second.Err(), context.Canceled))
}

func TestFetchTrackerKeysAreIndependent(t *testing.T) {
	f := newFetchTracker()

	_, incomeGen := f.start(incomeKey)
	accountsCtx, accountsGen := f.start(accountsKey)

	be.True(t, f.done(incomeKey, incomeGen))
	be.NilErr(t, accountsCtx.Err())
	be.True(t, f.done(accountsKey, accountsGen))
	be.False(t, f.done(transactionsKey, 1))
}

func TestFetchTrackerCancelAll(t *testing.T) {
	f := newFetchTracker()
	ctx, gen := f.start(incomeKey)

	f.cancelAll()

	be.True(t, errors.Is(ctx.Err(), context.Canceled))
	be.False(t, f.done(incomeKey, gen))

	_, next := f.start(incomeKey)
	be.Equal(t, gen+2, next)
}

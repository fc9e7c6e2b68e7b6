package main

import (
	"context"
	"fmt"
	"strings"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace"
	"github.com/erigontech/difftrace/trace/layers"
)

// scenario names a §8 end-to-end scenario this binary can exercise on
// demand. The core itself has no notion of "scenarios" — these are driver
// code, explicitly out of scope for the core per §1.
type scenario struct {
	name string
	run  func(logger log.Logger) (string, error)
}

var scenarios = []scenario{
	{"insert-update-delete", scenarioInsertUpdateDelete},
	{"size-tiered-merge", scenarioSizeTieredMerge},
	{"advance-coarsens", scenarioAdvanceCoarsens},
	{"zero-cancellation", scenarioZeroCancellation},
	{"hash-collision", scenarioHashCollision},
	{"seal-partitioning", scenarioSealPartitioning},
}

func nat(v uint64) lattice.Nat { return lattice.Nat(v) }

func frontierOf(values ...uint64) lattice.Frontier[lattice.Nat] {
	nats := make([]lattice.Nat, len(values))
	for i, v := range values {
		nats[i] = nat(v)
	}
	return lattice.NewFrontier(nats...)
}

// scenarioInsertUpdateDelete mirrors §8 scenario 1. The engine is key-only
// (§3), so the two associations the scenario tracks for "frank" —
// "mcsherry" and "zappa" — are encoded into the key itself rather than
// sharing the bare key "frank"; otherwise their same-time, opposite-sign
// pushes at t=4 would be indistinguishable from a single cancelling
// update to one association and consolidate away to nothing.
func scenarioInsertUpdateDelete(logger log.Logger) (string, error) {
	tr := trace.New[string, lattice.Nat, ring.Int64](hashKey, logger)

	tr.Push("frank|mcsherry", nat(3), 1)
	tr.Seal(frontierOf(0), frontierOf(4))

	tr.Push("frank|zappa", nat(4), 1)
	tr.Push("frank|mcsherry", nat(4), -1)
	tr.Seal(frontierOf(4), frontierOf(5))

	tr.Push("frank|zappa", nat(5), -1)
	tr.Seal(frontierOf(5), frontierOf(9))

	tr.Push("frank|oz", nat(9), 1)
	tr.Seal(frontierOf(9), frontierOf(10))

	tr.Push("frank|oz", nat(15), -1)
	tr.Seal(frontierOf(10), frontierOf(16))

	cur := tr.Cursor()
	cur.RewindKeys()
	var observed []string
	for cur.KeyValid() {
		if strings.HasPrefix(cur.Key(), "frank|") {
			key := cur.Key()
			cur.MapTimes(func(t lattice.Nat, d ring.Int64) {
				observed = append(observed, fmt.Sprintf("%s@t=%d:%+d", key, uint64(t), int64(d)))
			})
		}
		cur.StepKey()
	}
	return fmt.Sprintf("frank: %v", observed), nil
}

// scenarioSizeTieredMerge mirrors §8 scenario 2.
func scenarioSizeTieredMerge(logger log.Logger) (string, error) {
	tr := trace.New[string, lattice.Nat, ring.Int64](hashKey, logger)

	push := func(n int, upperLo, upperHi uint64) {
		for i := 0; i < n; i++ {
			tr.Push(fmt.Sprintf("k%d", i), nat(upperLo), 1)
		}
		tr.Seal(frontierOf(upperLo), frontierOf(upperHi))
	}
	push(4, 0, 1)
	push(2, 1, 2)
	push(1, 2, 3)
	push(1, 3, 4)

	return fmt.Sprintf("batch sizes after 4 inserts: %v", tr.Spine.BatchSizes()), nil
}

// scenarioAdvanceCoarsens mirrors §8 scenario 3.
func scenarioAdvanceCoarsens(logger log.Logger) (string, error) {
	bld := layers.NewBuilder[string, lattice.Nat, ring.Int64](hashKey)
	bld.Push("k", nat(1), 1)
	bld.Push("k", nat(2), -1)
	bld.Push("k", nat(3), 1)
	batch := bld.Done(frontierOf(0), frontierOf(4))

	f := frontierOf(5)
	advanced := batch.AdvanceBy(&f)

	var out []string
	cur := advanced.Cursor()
	for cur.KeyValid() {
		cur.MapTimes(func(t lattice.Nat, d ring.Int64) {
			out = append(out, fmt.Sprintf("%s@t=%d:%+d", cur.Key(), uint64(t), int64(d)))
		})
		cur.StepKey()
	}
	return fmt.Sprintf("advanced tuples: %v", out), nil
}

// scenarioZeroCancellation mirrors §8 scenario 4.
func scenarioZeroCancellation(logger log.Logger) (string, error) {
	tr := trace.New[string, lattice.Nat, ring.Int64](hashKey, logger)
	tr.Push("k", nat(1), 1)
	tr.Push("k", nat(1), -1)
	batch := tr.Batcher.Seal(frontierOf(0), frontierOf(2))
	return fmt.Sprintf("tuples=%d keys=%d", batch.Len(), batch.KeyCount()), nil
}

// scenarioHashCollision mirrors §8 scenario 5, using a constant hash
// function to force a collision between two distinct keys.
func scenarioHashCollision(logger log.Logger) (string, error) {
	collidingHash := func(string) uint64 { return 42 }
	bld := layers.NewBuilder[string, lattice.Nat, ring.Int64](collidingHash)
	bld.Push("alpha", nat(1), 1)
	bld.Push("beta", nat(1), 1)
	batch := bld.Done(frontierOf(0), frontierOf(2))

	var keys []string
	cur := batch.Cursor()
	for cur.KeyValid() {
		keys = append(keys, cur.Key())
		cur.StepKey()
	}
	return fmt.Sprintf("keys in bucket: %v", keys), nil
}

// scenarioSealPartitioning mirrors §8 scenario 6.
func scenarioSealPartitioning(logger log.Logger) (string, error) {
	tr := trace.New[string, lattice.Nat, ring.Int64](hashKey, logger)
	tr.Push("k", nat(2), 1)
	tr.Push("k", nat(7), 1)
	batch := tr.Batcher.Seal(frontierOf(0), frontierOf(5))
	retainedFrontier := tr.Batcher.Frontier()
	return fmt.Sprintf("sealed tuples=%d, retained frontier=%v", batch.Len(), retainedFrontier.Elements()), nil
}

func runAll(ctx context.Context, logger log.Logger) error {
	for _, sc := range scenarios {
		result, err := sc.run(logger)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.name, err)
		}
		logger.Info("scenario result", "scenario", sc.name, "result", result)
	}
	return nil
}

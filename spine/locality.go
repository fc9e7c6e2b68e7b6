package spine

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/erigontech/difftrace/trace/layers"
)

// maxConcurrentRebuilds bounds the fan-out of background locality-index
// construction, mirroring this codebase's BuildMissedIndices /
// BuildOptionalMissedIndices pattern of bounding concurrent background
// index builds with a semaphore rather than one goroutine per file.
const maxConcurrentRebuilds = 4

// RebuildLocalityIndices (re)builds a locality index (§4.3, §5) for every
// batch in the stack currently missing one. It is the one operation in
// this engine that is not run-to-completion single-threaded: it is
// guarded by an atomic flag so at most one rebuild runs at a time, and its
// per-batch work is fanned out with bounded concurrency and is
// cancellable via ctx. Building a batch's locality index only reads its
// already-built hashes, but each index is installed with SetLocality, an
// unsynchronized field write that Cursor.SeekKey reads, so this call is
// not safe to run concurrently with cursors over the same batches.
func (s *Spine[K, T, R]) RebuildLocalityIndices(ctx context.Context) error {
	if !s.rebuilding.CompareAndSwap(false, true) {
		return nil
	}
	defer s.rebuilding.Store(false)

	pending := make([]*layers.TrieLayer[K, T, R], 0, len(s.batches))
	for _, b := range s.batches {
		if b.Locality() == nil {
			pending = append(pending, b)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(maxConcurrentRebuilds)
	group, gctx := errgroup.WithContext(ctx)
	for _, b := range pending {
		b := b
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		group.Go(func() error {
			defer sem.Release(1)
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			b.SetLocality(layers.BuildLocalityIndex(b))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("difftrace locality indices rebuilt", "batches", len(pending))
	}
	return nil
}

package parser

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ParseParallel parses each shard with its own BatchParser and merges the
// results in shard order. The first failing shard cancels the others and its
// error is returned.
func ParseParallel(ctx context.Context, opts Options, shards [][]Document, retract bool, logger *zap.Logger) (*BatchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]*BatchResult, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			bp := NewBatchParser(opts, logger.With(zap.Int("shard", i)))
			res, err := bp.Parse(gctx, shard, retract)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MergeResults(results...), nil
}

package game

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunBatch plays one self-play game from each start position, running up to
// concurrency games at once. Every game owns its engine and board. Records
// are returned in the order of starts. opts.StartFEN is ignored.
func RunBatch(ctx context.Context, starts []string, opts Options, concurrency int) ([]*Record, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	records := make([]*Record, len(starts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, fen := range starts {
		i, fen := i, fen
		g.Go(func() error {
			gameOpts := opts
			gameOpts.StartFEN = fen

			rec, err := Play(ctx, gameOpts)
			if err != nil {
				return fmt.Errorf("game %d (%s): %w", i+1, fen, err)
			}
			log.Printf("game %d finished: %s after %d plies, score %d", i+1, rec.Outcome, rec.Plies(), rec.FinalScore)
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

package remote

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchCeiling is the most ids a batch endpoint accepts per request
const BatchCeiling = 200

// Chunk splits ids into consecutive slices of at most size elements
func Chunk[K any](ids []K, size int) [][]K {
	if size <= 0 {
		size = BatchCeiling
	}
	chunks := make([][]K, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// FetchBatched fetches ids in chunks of at most ceiling, in parallel, and
// concatenates the results in chunk order. The first failing chunk cancels
// the rest and its error is returned.
func FetchBatched[K, T any](ctx context.Context, ids []K, ceiling int, fetch func(context.Context, []K) ([]T, error)) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	if ceiling <= 0 || ceiling > BatchCeiling {
		ceiling = BatchCeiling
	}

	chunks := Chunk(ids, ceiling)
	parts := make([][]T, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			items, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			parts[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

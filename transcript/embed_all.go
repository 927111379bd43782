package transcript

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-collection-boot/async"
)

// embedAll embeds texts concurrently, preserving order.
func embedAll(ctx context.Context, embedder Embedder, texts []string) ([][]float32, error) {
	tasks := make([]<-chan async.Result[[]float32], 0, len(texts))
	for _, text := range texts {
		tasks = append(tasks, async.Go(func() ([]float32, error) {
			return embedder.Embed(ctx, text)
		}))
	}

	vectors, err := async.AwaitAll(tasks...)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}
	return vectors, nil
}

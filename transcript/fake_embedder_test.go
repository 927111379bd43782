package transcript

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync/atomic"
)

const testDims = 64

// hashEmbedder is a bag-of-words embedder: texts sharing words are close.
type hashEmbedder struct {
	failOn string
	calls  atomic.Int64
}

func (h *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h.calls.Add(1)
	if h.failOn != "" && strings.Contains(text, h.failOn) {
		return nil, errors.New("embedding backend unavailable")
	}

	v := make([]float32, testDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		f := fnv.New32a()
		f.Write([]byte(strings.Trim(w, ".,?!")))
		v[f.Sum32()%testDims] += 1
	}
	return v, nil
}

package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/ollama/ollama/api"
)

const DefaultEmbeddingModel = "nomic-embed-text"

type OllamaEmbedder struct {
	client *api.Client
	model  string
}

func NewOllamaEmbedder(client *api.Client, model string) *OllamaEmbedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OllamaEmbedder{client: client, model: model}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:     e.model,
		Prompt:    text,
		KeepAlive: &api.Duration{Duration: 60 * time.Minute},
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}

	emb := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		emb[i] = float32(v)
	}
	return emb, nil
}

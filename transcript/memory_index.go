package transcript

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"
)

const memoryCollection = "transcripts"

// MemoryIndex is an embedded chromem-go collection. With a directory set
// every write is persisted to it as it happens and reopened on restart.
type MemoryIndex struct {
	embedder   Embedder
	collection *chromem.Collection
}

// NewMemoryIndex opens the index. An empty dir keeps it in process memory.
func NewMemoryIndex(embedder Embedder, dir string) (*MemoryIndex, error) {
	db := chromem.NewDB()
	if dir != "" {
		var err error
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("open index at %s: %w", dir, err)
		}
	}

	collection, err := db.GetOrCreateCollection(memoryCollection, nil, embedder.Embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", memoryCollection, err)
	}
	return &MemoryIndex{embedder: embedder, collection: collection}, nil
}

func (m *MemoryIndex) Add(ctx context.Context, texts []string, metadatas []Metadata, ids []string) error {
	if len(texts) != len(metadatas) || len(texts) != len(ids) {
		return fmt.Errorf("add: %d texts, %d metadatas, %d ids", len(texts), len(metadatas), len(ids))
	}
	if len(texts) == 0 {
		return nil
	}

	vectors, err := embedAll(ctx, m.embedder, texts)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(texts))
	for i := range texts {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   texts[i],
			Embedding: vectors[i],
			Metadata:  toDocMetadata(metadatas[i], ids[i]),
		}
	}
	if err := m.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add %d documents: %w", len(docs), err)
	}
	return nil
}

func (m *MemoryIndex) SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]Passage, error) {
	if k <= 0 || filter.AppointmentID == "" {
		return nil, nil
	}

	// chromem rejects a k larger than the whole collection
	if n := m.collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return nil, nil
	}

	results, err := m.collection.Query(ctx, query, k, filterWhere(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	out := make([]Passage, 0, len(results))
	for _, r := range results {
		out = append(out, Passage{
			Text:          r.Content,
			AppointmentID: r.Metadata[payloadAppointmentID],
			Score:         r.Similarity,
		})
	}
	return out, nil
}

func (m *MemoryIndex) DeleteWhere(ctx context.Context, filter Filter) error {
	if filter.AppointmentID == "" {
		return nil
	}
	if err := m.collection.Delete(ctx, filterWhere(filter), nil); err != nil {
		return fmt.Errorf("delete %s: %w", filter.AppointmentID, err)
	}
	return nil
}

// Persist is a no-op: a persistent collection writes each document on Add.
func (m *MemoryIndex) Persist(ctx context.Context) error {
	return nil
}

func (m *MemoryIndex) Len() int {
	return m.collection.Count()
}

func filterWhere(f Filter) map[string]string {
	return map[string]string{payloadAppointmentID: f.AppointmentID}
}

func toDocMetadata(md Metadata, id string) map[string]string {
	return map[string]string{
		payloadAppointmentID: md.AppointmentID,
		payloadStart:         strconv.FormatFloat(md.Start, 'f', -1, 64),
		payloadEnd:           strconv.FormatFloat(md.End, 'f', -1, 64),
		payloadID:            id,
	}
}

package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryIndex(t *testing.T, embedder Embedder) *MemoryIndex {
	t.Helper()
	idx, err := NewMemoryIndex(embedder, "")
	require.NoError(t, err)
	return idx
}

func addAll(t *testing.T, idx VectorIndex, appointmentID string, texts ...string) {
	t.Helper()
	metas := make([]Metadata, len(texts))
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = ChunkID(appointmentID, i)
		metas[i] = Metadata{AppointmentID: appointmentID, ID: ids[i]}
	}
	require.NoError(t, idx.Add(context.Background(), texts, metas, ids))
}

func TestMemoryIndexFiltersBeforeRanking(t *testing.T) {
	idx := newMemoryIndex(t, &hashEmbedder{})
	addAll(t, idx, "apt-a", "patient reports chest pain", "chest pain when climbing stairs", "chest pain at night")
	addAll(t, idx, "apt-b", "mild headache in the morning")

	got, err := idx.SimilaritySearch(context.Background(), "chest pain", 3, Filter{AppointmentID: "apt-b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "apt-b", got[0].AppointmentID)
	assert.Equal(t, "mild headache in the morning", got[0].Text)

	got, err = idx.SimilaritySearch(context.Background(), "chest pain", 2, Filter{AppointmentID: "apt-a"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "apt-a", p.AppointmentID)
	}
}

func TestMemoryIndexKLargerThanCollection(t *testing.T) {
	idx := newMemoryIndex(t, &hashEmbedder{})

	got, err := idx.SimilaritySearch(context.Background(), "fever", 5, Filter{AppointmentID: "apt-a"})
	require.NoError(t, err)
	assert.Empty(t, got)

	addAll(t, idx, "apt-a", "fever since monday", "no cough")
	got, err = idx.SimilaritySearch(context.Background(), "fever", 10, Filter{AppointmentID: "apt-a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fever since monday", got[0].Text)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}

func TestMemoryIndexEmptyFilterMatchesNothing(t *testing.T) {
	idx := newMemoryIndex(t, &hashEmbedder{})
	addAll(t, idx, "apt-a", "fever")

	got, err := idx.SimilaritySearch(context.Background(), "fever", 3, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, idx.DeleteWhere(context.Background(), Filter{}))
	assert.Equal(t, 1, idx.Len())
}

func TestMemoryIndexDeleteWhere(t *testing.T) {
	idx := newMemoryIndex(t, &hashEmbedder{})
	addAll(t, idx, "apt-a", "one", "two")
	addAll(t, idx, "apt-b", "three")

	require.NoError(t, idx.DeleteWhere(context.Background(), Filter{AppointmentID: "apt-a"}))
	assert.Equal(t, 1, idx.Len())
	require.NoError(t, idx.DeleteWhere(context.Background(), Filter{AppointmentID: "missing"}))
	assert.Equal(t, 1, idx.Len())

	got, err := idx.SimilaritySearch(context.Background(), "three", 3, Filter{AppointmentID: "apt-b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "three", got[0].Text)
}

func TestMemoryIndexAddValidatesLengths(t *testing.T) {
	idx := newMemoryIndex(t, &hashEmbedder{})
	err := idx.Add(context.Background(), []string{"a"}, nil, []string{"x"})
	assert.Error(t, err)
}

func TestMemoryIndexReopensPersistedDocuments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	idx, err := NewMemoryIndex(&hashEmbedder{}, dir)
	require.NoError(t, err)
	addAll(t, idx, "apt-a", "cough for two weeks", "no fever")
	require.NoError(t, idx.Persist(context.Background()))

	restored, err := NewMemoryIndex(&hashEmbedder{}, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())

	got, err := restored.SimilaritySearch(context.Background(), "cough", 1, Filter{AppointmentID: "apt-a"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cough for two weeks", got[0].Text)
}

func TestMemoryIndexConcurrentWritersShareDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	first, err := NewMemoryIndex(&hashEmbedder{}, dir)
	require.NoError(t, err)
	second, err := NewMemoryIndex(&hashEmbedder{}, dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i, idx := range []*MemoryIndex{first, second} {
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				apt := fmt.Sprintf("apt-%d-%d", i, g)
				err := idx.Add(context.Background(),
					[]string{"chunk one of " + apt, "chunk two of " + apt},
					[]Metadata{{AppointmentID: apt}, {AppointmentID: apt}},
					[]string{ChunkID(apt, 0), ChunkID(apt, 1)})
				assert.NoError(t, err)
				assert.NoError(t, idx.Persist(context.Background()))
			}()
		}
	}
	wg.Wait()

	restored, err := NewMemoryIndex(&hashEmbedder{}, dir)
	require.NoError(t, err)
	assert.Equal(t, 16, restored.Len())

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		assert.False(t, strings.HasSuffix(path, ".tmp"), path)
		return nil
	})
	require.NoError(t, err)
}

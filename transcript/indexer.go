package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"go.uber.org/zap"
)

// Indexer keeps exactly one generation of chunks per appointment in the
// vector index.
type Indexer struct {
	index   VectorIndex
	locker  Locker
	timeout time.Duration
	metrics *metrics.EngineMetrics
}

type IndexerOption func(*Indexer)

func WithLocker(l Locker) IndexerOption {
	return func(ix *Indexer) { ix.locker = l }
}

func WithTimeout(d time.Duration) IndexerOption {
	return func(ix *Indexer) { ix.timeout = d }
}

func WithMetrics(em *metrics.EngineMetrics) IndexerOption {
	return func(ix *Indexer) { ix.metrics = em }
}

func NewIndexer(index VectorIndex, opts ...IndexerOption) *Indexer {
	ix := &Indexer{index: index, locker: NewKeyedMutex(), timeout: 2 * time.Minute}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Rebuild replaces every indexed chunk of appointmentID with chunks. It is
// idempotent and reports failure as false rather than an error.
func (ix *Indexer) Rebuild(ctx context.Context, appointmentID string, chunks []Chunk) bool {
	err := ix.rebuild(ctx, appointmentID, chunks)
	ix.metrics.ObserveRebuild(err == nil)
	if err != nil {
		logger.Error("Transcript rebuild failed", zap.String("appointmentId", appointmentID), zap.Error(err))
		return false
	}

	logger.Info("Transcript rebuilt", zap.String("appointmentId", appointmentID), zap.Int("chunks", len(chunks)))
	return true
}

func (ix *Indexer) rebuild(ctx context.Context, appointmentID string, chunks []Chunk) error {
	if appointmentID == "" {
		return fmt.Errorf("empty appointment id")
	}

	if ix.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ix.timeout)
		defer cancel()
	}

	unlock, err := ix.locker.Lock(ctx, appointmentID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := ix.index.DeleteWhere(ctx, Filter{AppointmentID: appointmentID}); err != nil {
		return fmt.Errorf("purge previous chunks: %w", err)
	}

	texts := make([]string, len(chunks))
	metas := make([]Metadata, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		id := ChunkID(appointmentID, i)
		texts[i] = c.Text
		metas[i] = Metadata{AppointmentID: appointmentID, Start: c.Start, End: c.End, ID: id}
		ids[i] = id
	}

	if err := ix.index.Add(ctx, texts, metas, ids); err != nil {
		return fmt.Errorf("add chunks: %w", err)
	}
	if err := ix.index.Persist(ctx); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	return nil
}

// Retrieve returns the k passages of appointmentID most similar to query.
func (ix *Indexer) Retrieve(ctx context.Context, appointmentID, query string, k int) ([]Passage, error) {
	if ix.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ix.timeout)
		defer cancel()
	}
	return ix.index.SimilaritySearch(ctx, query, k, Filter{AppointmentID: appointmentID})
}

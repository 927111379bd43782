package transcript

import (
	"context"
	"fmt"
)

// Segment is one timestamped span produced by speech-to-text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Chunk is a token-bounded run of segments belonging to one appointment.
type Chunk struct {
	AppointmentID string  `json:"appointmentId"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Text          string  `json:"text"`
}

// Metadata travels with every indexed text.
type Metadata struct {
	AppointmentID string  `json:"appointmentId"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	ID            string  `json:"id"`
}

// Filter narrows a search or deletion to one appointment. An empty filter
// matches nothing; retrieval is always partitioned.
type Filter struct {
	AppointmentID string
}

// Passage is a retrieved chunk of transcript.
type Passage struct {
	Text          string  `json:"text"`
	AppointmentID string  `json:"appointmentId"`
	Score         float32 `json:"score"`
}

// ChunkID is the stable id of the ordinal-th chunk of an appointment.
func ChunkID(appointmentID string, ordinal int) string {
	return fmt.Sprintf("%s_%d", appointmentID, ordinal)
}

// VectorIndex is the vector store collaborator. Implementations must apply
// the filter before ranking so that k results never leak across appointments.
type VectorIndex interface {
	Add(ctx context.Context, texts []string, metadatas []Metadata, ids []string) error
	SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]Passage, error)
	DeleteWhere(ctx context.Context, filter Filter) error
	Persist(ctx context.Context) error
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

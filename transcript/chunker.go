package transcript

import (
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

const DefaultMaxTokens = 300

// Chunker merges consecutive segments into chunks of at most maxTokens.
// A single segment longer than the limit becomes a chunk of its own.
type Chunker struct {
	maxTokens   int
	countTokens func(string) int
}

// NewChunker counts tokens with the cl100k_base encoding, or estimates four
// characters per token when the encoding cannot be loaded.
func NewChunker(maxTokens int) *Chunker {
	tok, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Error("Failed to get token encoder, estimating tokens from length", zap.Error(err))
		return NewChunkerWithCounter(maxTokens, EstimateTokens)
	}

	return NewChunkerWithCounter(maxTokens, func(s string) int {
		return len(tok.Encode(s, nil, nil))
	})
}

func NewChunkerWithCounter(maxTokens int, counter func(string) int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Chunker{maxTokens: maxTokens, countTokens: counter}
}

func EstimateTokens(s string) int {
	return len(s) / 4
}

func (c *Chunker) Merge(appointmentID string, segments []Segment) []Chunk {
	var (
		chunks  []Chunk
		current Chunk
		parts   []string
		tokens  int
	)

	flush := func() {
		if len(parts) == 0 {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(parts, " "))
		if current.Text != "" {
			chunks = append(chunks, current)
		}
		parts = nil
		tokens = 0
	}

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		n := c.countTokens(text)
		if len(parts) > 0 && tokens+n > c.maxTokens {
			flush()
		}
		if len(parts) == 0 {
			current = Chunk{AppointmentID: appointmentID, Start: seg.Start}
		}

		current.End = seg.End
		parts = append(parts, text)
		tokens += n
	}
	flush()

	return chunks
}

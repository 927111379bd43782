package notes

import (
	"context"
	"sync"

	"github.com/SaiNageswarS/medbook-agent/transcript"
)

type retrieveCall struct {
	appointmentID string
	query         string
	k             int
}

type fakeRetriever struct {
	mu       sync.Mutex
	passages map[string][]transcript.Passage
	err      error
	hang     bool
	calls    []retrieveCall
}

func (f *fakeRetriever) Retrieve(ctx context.Context, appointmentID, query string, k int) ([]transcript.Passage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, retrieveCall{appointmentID: appointmentID, query: query, k: k})
	hang := f.hang
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ps := f.passages[appointmentID]
	if len(ps) > k {
		ps = ps[:k]
	}
	return ps, nil
}

func passages(appointmentID string, texts ...string) []transcript.Passage {
	out := make([]transcript.Passage, len(texts))
	for i, t := range texts {
		out[i] = transcript.Passage{Text: t, AppointmentID: appointmentID}
	}
	return out
}

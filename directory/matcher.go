package directory

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"go.uber.org/zap"
)

const (
	StageFullText = "fulltext"
	StageFallback = "fallback"
)

// Matcher runs the two-stage doctor search: relevance-ranked full text
// first, synonym pattern matching only when that finds nothing.
type Matcher struct {
	dir     Directory
	timeout time.Duration
	metrics *metrics.EngineMetrics
}

type MatcherOption func(*Matcher)

func WithStageTimeout(d time.Duration) MatcherOption {
	return func(m *Matcher) { m.timeout = d }
}

func WithMetrics(em *metrics.EngineMetrics) MatcherOption {
	return func(m *Matcher) { m.metrics = em }
}

func NewMatcher(dir Directory, opts ...MatcherOption) *Matcher {
	m := &Matcher{dir: dir, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Search is stage 1: full-text match on specialization (and location when
// the phrase names one).
func (m *Matcher) Search(ctx context.Context, phrase string) SearchResult {
	q := ParseQuery(phrase)
	return m.run(ctx, StageFullText, phrase, func(ctx context.Context) ([]Doctor, error) {
		return m.dir.FullTextSearch(ctx, q, MaxResults)
	})
}

// FallbackSearch is stage 2: any synonym of the specialty at a word start in
// specialization or description, narrowed by location substring.
func (m *Matcher) FallbackSearch(ctx context.Context, phrase string) SearchResult {
	q := ParseQuery(phrase)

	f := PatternFilter{Location: q.Location}
	if q.Specialty != "" {
		f.Terms = Expand(q.Specialty)
	}

	return m.run(ctx, StageFallback, phrase, func(ctx context.Context) ([]Doctor, error) {
		return m.dir.FindByPattern(ctx, f, MaxResults)
	})
}

// Match tries Search and falls back to FallbackSearch when stage 1 failed
// or came back empty. Stages never run concurrently.
func (m *Matcher) Match(ctx context.Context, phrase string) SearchResult {
	res := m.Search(ctx, phrase)
	if res.Success && len(res.Doctors) > 0 {
		return res
	}
	return m.FallbackSearch(ctx, phrase)
}

func (m *Matcher) run(ctx context.Context, stage, phrase string, fn func(context.Context) ([]Doctor, error)) SearchResult {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	doctors, err := fn(ctx)
	if err != nil {
		logger.Error("Doctor search failed",
			zap.String("stage", stage), zap.String("phrase", phrase), zap.Error(err))
		m.metrics.ObserveSearch(stage, "error")
		return SearchResult{Success: false, Doctors: []Doctor{}, Error: err.Error()}
	}

	if len(doctors) > MaxResults {
		doctors = doctors[:MaxResults]
	}
	if doctors == nil {
		doctors = []Doctor{}
	}

	outcome := "hit"
	if len(doctors) == 0 {
		outcome = "empty"
	}
	m.metrics.ObserveSearch(stage, outcome)
	logger.Info("Doctor search finished",
		zap.String("stage", stage), zap.String("phrase", phrase), zap.Int("count", len(doctors)))

	return SearchResult{Success: true, Doctors: doctors}
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the intake and notes flows.
// All methods are safe on a nil receiver.
type EngineMetrics struct {
	searchTotal  *prometheus.CounterVec
	llmFailures  *prometheus.CounterVec
	rebuildTotal *prometheus.CounterVec
	turnLatency  *prometheus.HistogramVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medbook",
			Subsystem: "directory",
			Name:      "search_total",
			Help:      "Doctor search attempts by stage and outcome",
		}, []string{"stage", "outcome"}),
		llmFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medbook",
			Subsystem: "llm",
			Name:      "failures_total",
			Help:      "LLM calls that failed or timed out, by call site",
		}, []string{"site"}),
		rebuildTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medbook",
			Subsystem: "transcript",
			Name:      "rebuild_total",
			Help:      "Transcript index rebuilds by outcome",
		}, []string{"outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medbook",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one conversational turn",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"flow"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.searchTotal, m.llmFailures, m.rebuildTotal, m.turnLatency)
	return m
}

// ObserveSearch records one matcher stage. outcome is "hit", "empty" or "error".
func (m *EngineMetrics) ObserveSearch(stage, outcome string) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(stage, outcome).Inc()
}

func (m *EngineMetrics) ObserveLLMFailure(site string) {
	if m == nil {
		return
	}
	m.llmFailures.WithLabelValues(site).Inc()
}

func (m *EngineMetrics) ObserveRebuild(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.rebuildTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveTurn(flow string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(flow).Observe(seconds)
}

package service

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for quiz metrics.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomePassed   = "passed"
	OutcomeFailed   = "failed"
	OutcomeInvalid  = "invalid_token"
)

// QuizMetrics counts submissions and result lookups by outcome.
type QuizMetrics struct {
	submissions *prometheus.CounterVec
	results     *prometheus.CounterVec
}

// NewQuizMetrics registers the quiz counters on reg.
func NewQuizMetrics(reg prometheus.Registerer) (*QuizMetrics, error) {
	m := &QuizMetrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_submissions_total",
				Help: "Quiz submissions by outcome.",
			},
			[]string{"outcome"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_results_total",
				Help: "Quiz result lookups by outcome.",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.submissions, m.results} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *QuizMetrics) submission(outcome string) {
	if m != nil {
		m.submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *QuizMetrics) result(outcome string) {
	if m != nil {
		m.results.WithLabelValues(outcome).Inc()
	}
}

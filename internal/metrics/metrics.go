package metrics

import (
	"net/http"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusScored = "scored"
	StatusFailed = "failed"
)

// Metrics instruments evaluation batches. It implements runner.Observer.
type Metrics struct {
	ItemsTotal   *prometheus.CounterVec
	ItemDuration prometheus.Histogram
	RunsTotal    *prometheus.CounterVec
	Purity       prometheus.Histogram
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qa_eval_items_total",
				Help: "Total number of evaluated items by outcome",
			},
			[]string{"status"},
		),
		ItemDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qa_eval_item_duration_seconds",
				Help:    "Judge plus enforcement duration per item in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qa_eval_runs_total",
				Help: "Total number of evaluation runs by outcome",
			},
			[]string{"status"},
		),
		Purity: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qa_eval_arabic_purity_score",
				Help:    "Normalized Arabic_Purity score per scored item",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
		),
	}

	for _, c := range []prometheus.Collector{m.ItemsTotal, m.ItemDuration, m.RunsTotal, m.Purity} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ItemDone(_ runner.Progress, item runner.ItemResult) {
	if item.Duration > 0 {
		m.ItemDuration.Observe(item.Duration.Seconds())
	}
	if !item.IsScored() {
		m.ItemsTotal.WithLabelValues(StatusFailed).Inc()
		return
	}
	m.ItemsTotal.WithLabelValues(StatusScored).Inc()
	m.Purity.Observe(float64(item.Evaluation.Arabic.ArabicPurity))
}

// RunDone records the end of a batch.
func (m *Metrics) RunDone(err error) {
	status := "completed"
	if err != nil {
		status = "aborted"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

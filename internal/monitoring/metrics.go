package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the crawl pipeline.
type Metrics struct {
	ProductsCrawled prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	RowsSaved       prometheus.Counter
	RowsSkipped     prometheus.Counter
	CrawlDuration   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProductsCrawled: factory.NewCounter(prometheus.CounterOpts{
			Name: "crawler_products_crawled_total",
			Help: "The total number of products crawled successfully",
		}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'snkrdunk_fetch', 'goat_scrape', 'db_save'
		RowsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "crawler_rows_saved_total",
			Help: "The total number of crawl rows inserted or updated",
		}),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "crawler_rows_skipped_total",
			Help: "The total number of records skipped for soft-deleted rows",
		}),
		CrawlDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "crawler_bulk_duration_seconds",
			Help:    "Duration of full catalog crawl passes",
			Buckets: prometheus.ExponentialBuckets(30, 2, 8),
		}),
	}
}

func (m *Metrics) IncProductsCrawled() {
	m.ProductsCrawled.Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) IncRowsSaved() {
	m.RowsSaved.Inc()
}

func (m *Metrics) IncRowsSkipped() {
	m.RowsSkipped.Inc()
}

func (m *Metrics) ObserveCrawlDuration(d time.Duration) {
	m.CrawlDuration.Observe(d.Seconds())
}

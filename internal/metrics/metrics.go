// Package metrics exposes pipeline Prometheus metrics, mounted on the serve
// command's /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	JobsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_jobs_started_total",
			Help: "Total number of lead-gen jobs started.",
		},
	)
	JobsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadgen_jobs_finished_total",
			Help: "Total number of lead-gen jobs finished, labeled by terminal status.",
		},
		[]string{"status"},
	)
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadgen_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	CandidatesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_candidates_created_total",
			Help: "Total number of lead candidates created across all jobs.",
		},
	)
	ContactsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_contacts_created_total",
			Help: "Total number of contact candidates created across all jobs.",
		},
	)
	SerpQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_serp_queries_total",
			Help: "Total number of SERP queries issued.",
		},
	)
	PagesCrawled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadgen_pages_crawled_total",
			Help: "Total number of candidate-site pages fetched.",
		},
	)
)

func init() {
	prometheus.MustRegister(JobsStarted)
	prometheus.MustRegister(JobsFinished)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(CandidatesCreated)
	prometheus.MustRegister(ContactsCreated)
	prometheus.MustRegister(SerpQueries)
	prometheus.MustRegister(PagesCrawled)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordOutcomes folds finished-stage counters into the Prometheus view.
func RecordOutcomes(candidates, contacts, serpQueries, pages int) {
	CandidatesCreated.Add(float64(candidates))
	ContactsCreated.Add(float64(contacts))
	SerpQueries.Add(float64(serpQueries))
	PagesCrawled.Add(float64(pages))
}

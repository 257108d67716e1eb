// Package metrics accumulates the counters of one load run: requests, failures, unresolved
// references and created entities. A RunMetrics is safe for concurrent use by batch pipelines.
package metrics

import (
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oaeproject/model-loader/internal/api"
	"github.com/oaeproject/model-loader/internal/model"
)

const namespace = "modelloader"

// ErrorDetail describes one failed request, with enough context to replay it by hand.
type ErrorDetail struct {
	Batch     int
	Type      model.EntityType
	EntityID  string
	Operation string
	Status    int
	Params    url.Values
	Body      string
	Err       string
}

type RunMetrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	failed     *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	created    *prometheus.CounterVec
	notCreated *prometheus.CounterVec
	unresolved *prometheus.CounterVec
	batches    prometheus.Counter

	start time.Time

	mu      sync.Mutex
	details []ErrorDetail
}

func New() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests made to the server, by operation.",
		}, []string{"operation"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Requests that failed, by operation.",
		}, []string{"operation"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Entities the server assigned an id to, by type.",
		}, []string{"type"}),
		notCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_failed_total",
			Help:      "Entities that could not be created, by type.",
		}, []string{"type"}),
		unresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_references_total",
			Help:      "References submitted with their generated id because no server id was known, by referencing type.",
		}, []string{"type"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_loaded_total",
			Help:      "Batches whose pipeline ran to completion.",
		}),
		start: time.Now(),
	}
	m.registry.MustRegister(m.requests, m.failed, m.latency, m.created, m.notCreated, m.unresolved, m.batches)
	return m
}

// Registry returns the registry holding this run's metrics, e.g. to serve them or to attach a
// logging hook.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest implements api.Observer.
func (m *RunMetrics) ObserveRequest(operation string, elapsed time.Duration, err error) {
	m.requests.WithLabelValues(operation).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		m.failed.WithLabelValues(operation).Inc()
	}
}

func (m *RunMetrics) RecordCreated(t model.EntityType) {
	m.created.WithLabelValues(string(t)).Inc()
}

func (m *RunMetrics) RecordUnresolved(t model.EntityType) {
	m.unresolved.WithLabelValues(string(t)).Inc()
}

func (m *RunMetrics) RecordBatchLoaded() {
	m.batches.Inc()
}

// RecordFailure keeps the details of a failed call made for entity id of type t. If t is the type
// being created, the entity also counts as not created.
func (m *RunMetrics) RecordFailure(batch int, t model.EntityType, id string, creating bool, err error) {
	if creating {
		m.notCreated.WithLabelValues(string(t)).Inc()
	}
	detail := ErrorDetail{Batch: batch, Type: t, EntityID: id, Err: err.Error()}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		detail.Operation = reqErr.Operation
		detail.Status = reqErr.Status
		detail.Params = reqErr.Params
		detail.Body = reqErr.Body
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details = append(m.details, detail)
}

func (m *RunMetrics) Details() []ErrorDetail {
	m.mu.Lock()
	defer m.mu.Unlock()
	details := make([]ErrorDetail, len(m.details))
	copy(details, m.details)
	return details
}

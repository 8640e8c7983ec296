// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	MetricsNamespace       = "glotcheck"
	MetricsSubsystemSystem = "system"
	MetricsSubsystemHTTP   = "http"
	MetricsSubsystemAPI    = "api"
	MetricsSubsystemCheck  = "check"
	MetricsSubsystemCache  = "cache"

	MetricsVersionLabel = "version"
)

type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64)

	IncrementHTTPRequests()
	IncrementHTTPErrors()

	ObserveCheckDuration(language string, elapsed float64)
	AddSourceAnnotations(source string, count int)
	IncrementSourceFailures(source string)

	IncrementCacheHits()
	IncrementCacheMisses()
}

type InstanceInfo struct {
	Version string
}

// metrics used to instrument the engine in prometheus.
type metrics struct {
	registry *prometheus.Registry

	apiTime *prometheus.HistogramVec

	httpRequestsTotal prometheus.Counter
	httpErrorsTotal   prometheus.Counter

	checkTime *prometheus.HistogramVec

	sourceAnnotationsTotal *prometheus.CounterVec
	sourceFailuresTotal    *prometheus.CounterVec

	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
}

// NewMetrics Factory method to create a new metrics collector.
func NewMetrics(info InstanceInfo) Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	options := collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}
	m.registry.MustRegister(collectors.NewProcessCollector(options))
	m.registry.MustRegister(collectors.NewGoCollector())

	additionalLabels := map[string]string{}
	if info.Version != "" {
		additionalLabels[MetricsVersionLabel] = info.Version
	}

	m.apiTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   MetricsNamespace,
			Subsystem:   MetricsSubsystemAPI,
			Name:        "time_seconds",
			Help:        "Time to execute the api handler",
			ConstLabels: additionalLabels,
		},
		[]string{"handler", "method", "status_code"},
	)
	m.registry.MustRegister(m.apiTime)

	m.httpRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemHTTP,
		Name:        "requests_total",
		Help:        "The total number of http API requests.",
		ConstLabels: additionalLabels,
	})
	m.registry.MustRegister(m.httpRequestsTotal)

	m.httpErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemHTTP,
		Name:        "errors_total",
		Help:        "The total number of http API errors.",
		ConstLabels: additionalLabels,
	})
	m.registry.MustRegister(m.httpErrorsTotal)

	m.checkTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   MetricsNamespace,
			Subsystem:   MetricsSubsystemCheck,
			Name:        "time_seconds",
			Help:        "Time to run a full text check.",
			ConstLabels: additionalLabels,
		},
		[]string{"language"},
	)
	m.registry.MustRegister(m.checkTime)

	m.sourceAnnotationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemCheck,
		Name:        "source_annotations_total",
		Help:        "The total number of annotations contributed by each source.",
		ConstLabels: additionalLabels,
	}, []string{"source"})
	m.registry.MustRegister(m.sourceAnnotationsTotal)

	m.sourceFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemCheck,
		Name:        "source_failures_total",
		Help:        "The total number of annotation source failures recovered by fallback.",
		ConstLabels: additionalLabels,
	}, []string{"source"})
	m.registry.MustRegister(m.sourceFailuresTotal)

	m.cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemCache,
		Name:        "hits_total",
		Help:        "The total number of span cache hits.",
		ConstLabels: additionalLabels,
	})
	m.registry.MustRegister(m.cacheHitsTotal)

	m.cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemCache,
		Name:        "misses_total",
		Help:        "The total number of span cache misses.",
		ConstLabels: additionalLabels,
	})
	m.registry.MustRegister(m.cacheMissesTotal)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64) {
	if m != nil {
		m.apiTime.With(prometheus.Labels{"handler": handler, "method": method, "status_code": statusCode}).Observe(elapsed)
	}
}

func (m *metrics) IncrementHTTPRequests() {
	if m != nil {
		m.httpRequestsTotal.Inc()
	}
}

func (m *metrics) IncrementHTTPErrors() {
	if m != nil {
		m.httpErrorsTotal.Inc()
	}
}

func (m *metrics) ObserveCheckDuration(language string, elapsed float64) {
	if m != nil {
		if language == "" {
			language = "unknown"
		}
		m.checkTime.With(prometheus.Labels{"language": language}).Observe(elapsed)
	}
}

func (m *metrics) AddSourceAnnotations(source string, count int) {
	if m != nil && count > 0 {
		m.sourceAnnotationsTotal.With(prometheus.Labels{"source": source}).Add(float64(count))
	}
}

func (m *metrics) IncrementSourceFailures(source string) {
	if m != nil {
		m.sourceFailuresTotal.With(prometheus.Labels{"source": source}).Inc()
	}
}

func (m *metrics) IncrementCacheHits() {
	if m != nil {
		m.cacheHitsTotal.Inc()
	}
}

func (m *metrics) IncrementCacheMisses() {
	if m != nil {
		m.cacheMissesTotal.Inc()
	}
}

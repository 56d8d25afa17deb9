// Package metrics implements port.Metrics on top of the Prometheus client.
package metrics

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records application metrics as Prometheus collectors.
// Collectors are created lazily on first use; the label names of a metric are fixed by
// the tag keys of its first observation. Later observations with other keys are mapped
// onto those labels, missing ones being recorded as "".
type Prometheus struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

// NewPrometheus creates a metrics recorder registering its collectors on registerer.
//
// Parameters:
//   - registerer: registry to attach collectors to (e.g., prometheus.DefaultRegisterer)
//   - namespace: prefix of every metric name (e.g., "catalog")
//
// Returns:
//   - *Prometheus: the recorder
func NewPrometheus(registerer prometheus.Registerer, namespace string) *Prometheus {
	return &Prometheus{
		registerer: registerer,
		namespace:  namespace,
		buckets:    prometheus.DefBuckets,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// Counter implements port.Metrics.
func (p *Prometheus) Counter(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	vec, ok := p.counters[name]
	if !ok {
		names := p.labelNames(name, tags)
		vec = register(p.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      "Application counter " + name,
		}, names))
		p.counters[name] = vec
	}
	values := p.labelValues(name, tags)
	p.mu.Unlock()

	vec.WithLabelValues(values...).Add(value)
}

// Gauge implements port.Metrics.
func (p *Prometheus) Gauge(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	vec, ok := p.gauges[name]
	if !ok {
		names := p.labelNames(name, tags)
		vec = register(p.registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      "Application gauge " + name,
		}, names))
		p.gauges[name] = vec
	}
	values := p.labelValues(name, tags)
	p.mu.Unlock()

	vec.WithLabelValues(values...).Set(value)
}

// Histogram implements port.Metrics.
func (p *Prometheus) Histogram(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	vec, ok := p.histograms[name]
	if !ok {
		names := p.labelNames(name, tags)
		vec = register(p.registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      "Application histogram " + name,
			Buckets:   p.buckets,
		}, names))
		p.histograms[name] = vec
	}
	values := p.labelValues(name, tags)
	p.mu.Unlock()

	vec.WithLabelValues(values...).Observe(value)
}

// Timing implements port.Metrics. Durations are observed in seconds.
func (p *Prometheus) Timing(name string, duration time.Duration, tags map[string]string) {
	p.Histogram(name, duration.Seconds(), tags)
}

// labelNames returns the label names of a metric, fixing them on first use.
// Callers must hold p.mu.
func (p *Prometheus) labelNames(name string, tags map[string]string) []string {
	if names, ok := p.labels[name]; ok {
		return names
	}
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	p.labels[name] = names
	return names
}

// labelValues orders tag values by the metric's label names.
// Callers must hold p.mu.
func (p *Prometheus) labelValues(name string, tags map[string]string) []string {
	names := p.labels[name]
	values := make([]string, len(names))
	for i, n := range names {
		values[i] = tags[n]
	}
	return values
}

// register registers c, returning the already registered collector when an equal one exists.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

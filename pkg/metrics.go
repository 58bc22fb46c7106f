package ltable

// metrics.go tracks table activity and shape: Set/Get/Delete calls,
// rehashes, array/hash sizes and array load. When the caller passes a *prometheus.Registry via
// WithMetrics, labeled collectors are created and registered; otherwise a
// no-op sink is used and the hot path (Get/Set/Delete) pays nothing for
// metric updates.
//
// Metric names follow Prometheus best practices, suffixed with "_total" for
// counters:
//
// ┌───────────────────────┬──────┬───────────────────────────────┐
// │ Metric                 │ Type │ Meaning                        │
// ├───────────────────────┼──────┼───────────────────────────────┤
// │ ltable_sets_total      │ Ctr  │ successful Set calls           │
// │ ltable_gets_total      │ Ctr  │ Get calls, label hit/miss       │
// │ ltable_deletes_total   │ Ctr  │ Delete calls                    │
// │ ltable_rehashes_total  │ Ctr  │ repartition events              │
// │ ltable_array_size      │ Gge  │ current size_array              │
// │ ltable_hash_size       │ Gge  │ current hash-vector length      │
// │ ltable_array_load      │ Gge  │ count_array / size_array        │
// └───────────────────────┴──────┴───────────────────────────────┘
//
// © 2025 ltable authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

// metricsSink abstracts the concrete backend (Prometheus vs noop) away from
// Table so the hot path only ever calls through this interface.
type metricsSink interface {
	incSet()
	incGet(hit bool)
	incDelete()
	incRehash()
	setArraySize(n int)
	setHashSize(n int)
	setArrayLoad(load float64)
}

/* ---------------- No-op implementation ---------------- */

type noopMetrics struct{}

func (noopMetrics) incSet()              {}
func (noopMetrics) incGet(bool)          {}
func (noopMetrics) incDelete()           {}
func (noopMetrics) incRehash()           {}
func (noopMetrics) setArraySize(int)     {}
func (noopMetrics) setHashSize(int)      {}
func (noopMetrics) setArrayLoad(float64) {}

/* ---------------- Prometheus implementation ---------------- */

type promMetrics struct {
	sets      prometheus.Counter
	gets      *prometheus.CounterVec
	deletes   prometheus.Counter
	rehashes  prometheus.Counter
	arraySize prometheus.Gauge
	hashSize  prometheus.Gauge
	arrayLoad prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ltable",
			Name:      "sets_total",
			Help:      "Number of Set calls.",
		}),
		gets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ltable",
			Name:      "gets_total",
			Help:      "Number of Get calls, labelled by outcome.",
		}, []string{"outcome"}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ltable",
			Name:      "deletes_total",
			Help:      "Number of Delete calls.",
		}),
		rehashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ltable",
			Name:      "rehashes_total",
			Help:      "Number of repartition events.",
		}),
		arraySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ltable",
			Name:      "array_size",
			Help:      "Current array-part capacity.",
		}),
		hashSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ltable",
			Name:      "hash_size",
			Help:      "Current hash-part vector length.",
		}),
		arrayLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ltable",
			Name:      "array_load",
			Help:      "Array-part occupied fraction.",
		}),
	}
	reg.MustRegister(pm.sets, pm.gets, pm.deletes, pm.rehashes, pm.arraySize, pm.hashSize, pm.arrayLoad)
	return pm
}

func (m *promMetrics) incSet() { m.sets.Inc() }
func (m *promMetrics) incGet(hit bool) {
	if hit {
		m.gets.WithLabelValues("hit").Inc()
	} else {
		m.gets.WithLabelValues("miss").Inc()
	}
}
func (m *promMetrics) incDelete()                { m.deletes.Inc() }
func (m *promMetrics) incRehash()                { m.rehashes.Inc() }
func (m *promMetrics) setArraySize(n int)        { m.arraySize.Set(float64(n)) }
func (m *promMetrics) setHashSize(n int)         { m.hashSize.Set(float64(n)) }
func (m *promMetrics) setArrayLoad(load float64) { m.arrayLoad.Set(load) }

/* ---------------- Factory ---------------- */

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}

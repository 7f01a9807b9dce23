// Package metrics provides Prometheus metrics for subject publication.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staticPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subjectlink",
		Subsystem: "provider",
		Name:      "static_pushes_total",
		Help:      "Static data records pushed per subject",
	}, []string{"provider", "subject"})

	framePushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subjectlink",
		Subsystem: "provider",
		Name:      "frame_pushes_total",
		Help:      "Frame data records pushed per subject",
	}, []string{"provider", "subject"})

	removals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subjectlink",
		Subsystem: "provider",
		Name:      "removals_total",
		Help:      "Subject removals",
	}, []string{"provider"})

	providerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subjectlink",
		Subsystem: "provider",
		Name:      "errors_total",
		Help:      "Provider calls that returned an error",
	}, []string{"provider", "op"})

	activeSubjects = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "subjectlink",
		Subsystem: "session",
		Name:      "subjects",
		Help:      "Stream objects owned by the session",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "subjectlink",
		Subsystem: "session",
		Name:      "tick_duration_seconds",
		Help:      "Time spent updating every subject in one tick",
		Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
	})

	// Local cache for API access.
	subjectCache   = make(map[string]*SubjectMetrics)
	subjectCacheMu sync.RWMutex
)

// SubjectMetrics holds push counters for one subject.
type SubjectMetrics struct {
	StaticPushes uint64
	FramePushes  uint64
	LastFrame    time.Time
}

// IncStaticPush counts one accepted static record.
func IncStaticPush(provider, subject string) {
	staticPushes.WithLabelValues(provider, subject).Inc()
	updateCache(subject, func(m *SubjectMetrics) { m.StaticPushes++ })
}

// IncFramePush counts one accepted frame record.
func IncFramePush(provider, subject string, at time.Time) {
	framePushes.WithLabelValues(provider, subject).Inc()
	updateCache(subject, func(m *SubjectMetrics) {
		m.FramePushes++
		m.LastFrame = at
	})
}

// IncRemoval counts one subject removal and drops its per-subject series.
func IncRemoval(provider, subject string) {
	removals.WithLabelValues(provider).Inc()
	staticPushes.DeleteLabelValues(provider, subject)
	framePushes.DeleteLabelValues(provider, subject)

	subjectCacheMu.Lock()
	delete(subjectCache, subject)
	subjectCacheMu.Unlock()
}

// IncProviderError counts a failed provider call. op is static, frame or remove.
func IncProviderError(provider, op string) {
	providerErrors.WithLabelValues(provider, op).Inc()
}

// SetActiveSubjects sets the number of stream objects in the session.
func SetActiveSubjects(n int) {
	activeSubjects.Set(float64(n))
}

// ObserveTick records how long one session tick took.
func ObserveTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// GetSubjectMetrics returns the counters for a subject, or nil.
func GetSubjectMetrics(subject string) *SubjectMetrics {
	subjectCacheMu.RLock()
	defer subjectCacheMu.RUnlock()
	if m, ok := subjectCache[subject]; ok {
		dup := *m
		return &dup
	}
	return nil
}

func updateCache(subject string, update func(*SubjectMetrics)) {
	subjectCacheMu.Lock()
	defer subjectCacheMu.Unlock()
	m, ok := subjectCache[subject]
	if !ok {
		m = &SubjectMetrics{}
		subjectCache[subject] = m
	}
	update(m)
}

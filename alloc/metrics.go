package alloc

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsOptions configures the collectors of a MetricsAllocator.
type MetricsOptions struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels

	// Registerer receives the collectors. Nil leaves them unregistered; they
	// remain readable through Collectors.
	Registerer prometheus.Registerer
}

// MetricsAllocator wraps an upstream Allocator and records what flows through it.
type MetricsAllocator struct {
	upstream Allocator

	allocateBytesCounter   prometheus.Counter
	inuseBytesGauge        prometheus.Gauge
	allocateObjectsCounter prometheus.Counter
	inuseObjectsGauge      prometheus.Gauge
	peakInuseBytesGauge    prometheus.Gauge

	inuseBytes atomic.Int64
	peakInuse  atomic.Int64
}

// NewMetrics wraps upstream. Registration errors are wrapped, so a
// prometheus.AlreadyRegisteredError can still be extracted with errors.As.
func NewMetrics(upstream Allocator, opts MetricsOptions) (*MetricsAllocator, error) {
	if upstream == nil {
		upstream = Default
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		})
	}

	m := &MetricsAllocator{
		upstream:               upstream,
		allocateBytesCounter:   counter("allocate_bytes_total", "Bytes handed out by the allocator."),
		inuseBytesGauge:        gauge("inuse_bytes", "Bytes allocated and not yet freed."),
		allocateObjectsCounter: counter("allocate_objects_total", "Buffers handed out by the allocator."),
		inuseObjectsGauge:      gauge("inuse_objects", "Buffers allocated and not yet freed."),
		peakInuseBytesGauge:    gauge("peak_inuse_bytes", "Highest in-use byte count observed."),
	}

	if opts.Registerer != nil {
		for _, c := range m.Collectors() {
			if err := opts.Registerer.Register(c); err != nil {
				return nil, fmt.Errorf("alloc: register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// Collectors returns the Prometheus collectors owned by m.
func (m *MetricsAllocator) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.allocateBytesCounter,
		m.inuseBytesGauge,
		m.allocateObjectsCounter,
		m.inuseObjectsGauge,
		m.peakInuseBytesGauge,
	}
}

// Alloc forwards to the upstream allocator and records len(result) bytes.
func (m *MetricsAllocator) Alloc(size int) ([]byte, error) {
	b, err := m.upstream.Alloc(size)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return b, nil
	}
	n := int64(len(b))
	m.allocateBytesCounter.Add(float64(n))
	m.inuseBytesGauge.Add(float64(n))
	m.allocateObjectsCounter.Inc()
	m.inuseObjectsGauge.Inc()
	m.updatePeak(m.inuseBytes.Add(n))
	return b, nil
}

// Free records the release and forwards to the upstream allocator.
func (m *MetricsAllocator) Free(b []byte) {
	if len(b) == 0 {
		m.upstream.Free(b)
		return
	}
	n := int64(len(b))
	m.inuseBytes.Add(-n)
	m.inuseBytesGauge.Sub(float64(n))
	m.inuseObjectsGauge.Dec()
	m.upstream.Free(b)
}

func (m *MetricsAllocator) updatePeak(n int64) {
	for {
		peak := m.peakInuse.Load()
		if n <= peak {
			return
		}
		if m.peakInuse.CompareAndSwap(peak, n) {
			m.peakInuseBytesGauge.Set(float64(n))
			return
		}
	}
}

// Upstream returns the wrapped allocator.
func (m *MetricsAllocator) Upstream() Allocator {
	return m.upstream
}

// InuseBytes returns the bytes currently allocated through m.
func (m *MetricsAllocator) InuseBytes() int64 {
	return m.inuseBytes.Load()
}

// PeakInuseBytes returns the highest InuseBytes observed.
func (m *MetricsAllocator) PeakInuseBytes() int64 {
	return m.peakInuse.Load()
}

// Package metrics exports hub registry occupancy to Prometheus.
package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/gpuhub"
)

const (
	namespace = "gpuhub"
	subsystem = "registry"
)

// StatsSource reports registry occupancy. *gpuhub.Hub implements it.
type StatsSource interface {
	Stats() gpuhub.Stats
}

// Collector implements prometheus.Collector for one hub.
type Collector struct {
	logger *slog.Logger
	source StatsSource

	liveDesc       *prometheus.Desc
	registeredDesc *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector sampling source on every scrape.
func NewCollector(source StatsSource, logger *slog.Logger) *Collector {
	if source == nil {
		panic("metrics: StatsSource cannot be nil")
	}
	if logger == nil {
		logger = gpuhub.Logger()
	}

	return &Collector{
		logger: logger,
		source: source,
		liveDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "live_handles"),
			"Number of objects currently registered in the hub",
			[]string{"category"},
			nil,
		),
		registeredDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "registered_total"),
			"Total number of objects ever registered in the hub",
			[]string{"category"},
			nil,
		),
	}
}

// Describe sends the metric descriptors to the provided channel.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.liveDesc
	ch <- c.registeredDesc
}

// Collect samples the hub and sends one gauge and one counter per category.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	categories := []struct {
		name  string
		stats gpuhub.CategoryStats
	}{
		{"instance", s.Instances},
		{"adapter", s.Adapters},
		{"device", s.Devices},
		{"surface", s.Surfaces},
	}

	for _, cat := range categories {
		ch <- prometheus.MustNewConstMetric(c.liveDesc, prometheus.GaugeValue,
			float64(cat.stats.Live), cat.name)
		ch <- prometheus.MustNewConstMetric(c.registeredDesc, prometheus.CounterValue,
			float64(cat.stats.Registered), cat.name)
	}
	c.logger.Debug("metrics: registry collected",
		"instances", s.Instances.Live,
		"adapters", s.Adapters.Live,
		"devices", s.Devices.Live,
		"surfaces", s.Surfaces.Live)
}

package redis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hycache_redis_commands_total",
			Help: "Total number of redis commands by backend, command and status",
		},
		[]string{"backend", "command", "status"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hycache_redis_command_duration_seconds",
			Help:    "Redis command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "command"},
	)
)

var (
	poolHitsDesc = prometheus.NewDesc("hycache_redis_pool_hits_total",
		"Number of times a free connection was found in the pool", []string{"backend"}, nil)
	poolMissesDesc = prometheus.NewDesc("hycache_redis_pool_misses_total",
		"Number of times a free connection was not found in the pool", []string{"backend"}, nil)
	poolTimeoutsDesc = prometheus.NewDesc("hycache_redis_pool_timeouts_total",
		"Number of times a wait for a connection timed out", []string{"backend"}, nil)
	poolTotalDesc = prometheus.NewDesc("hycache_redis_pool_conns",
		"Number of connections in the pool", []string{"backend"}, nil)
	poolIdleDesc = prometheus.NewDesc("hycache_redis_pool_idle_conns",
		"Number of idle connections in the pool", []string{"backend"}, nil)
	poolStaleDesc = prometheus.NewDesc("hycache_redis_pool_stale_conns",
		"Number of stale connections removed from the pool", []string{"backend"}, nil)
)

var _ prometheus.Collector = (*poolCollector)(nil)

// poolCollector отдаёт статистику пулов всех backend'ов реестра.
type poolCollector struct {
	reg *Registry
}

// Describe реализует prometheus.Collector.
func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolHitsDesc
	ch <- poolMissesDesc
	ch <- poolTimeoutsDesc
	ch <- poolTotalDesc
	ch <- poolIdleDesc
	ch <- poolStaleDesc
}

// Collect реализует prometheus.Collector.
func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.reg.Names() {
		cache, err := c.reg.Get(name)
		if err != nil {
			continue
		}
		st := cache.Template().Client().PoolStats()
		ch <- prometheus.MustNewConstMetric(poolHitsDesc, prometheus.CounterValue, float64(st.Hits), name)
		ch <- prometheus.MustNewConstMetric(poolMissesDesc, prometheus.CounterValue, float64(st.Misses), name)
		ch <- prometheus.MustNewConstMetric(poolTimeoutsDesc, prometheus.CounterValue, float64(st.Timeouts), name)
		ch <- prometheus.MustNewConstMetric(poolTotalDesc, prometheus.GaugeValue, float64(st.TotalConns), name)
		ch <- prometheus.MustNewConstMetric(poolIdleDesc, prometheus.GaugeValue, float64(st.IdleConns), name)
		ch <- prometheus.MustNewConstMetric(poolStaleDesc, prometheus.CounterValue, float64(st.StaleConns), name)
	}
}

package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器，所有指标注册到同一个 Registry
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 信息流查询
	feedQueryDuration *prometheus.HistogramVec
	feedQueryErrors   *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器，并注册 Go 运行时与进程指标
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		feedQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feed_query_duration_seconds",
				Help:    "Feed page query duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"kind"},
		),

		feedQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_query_errors_total",
				Help: "Total number of failed feed queries",
			},
			[]string{"kind"},
		),
	}
}

// Registry 供 /metrics 暴露
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest 记录HTTP请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// ObserveFeedQuery 记录一次信息流查询
func (m *MetricsCollector) ObserveFeedQuery(kind string, d time.Duration, err error) {
	m.feedQueryDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err != nil {
		m.feedQueryErrors.WithLabelValues(kind).Inc()
	}
}

// RegisterDB 注册连接池指标 (go_sql_*)
func (m *MetricsCollector) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

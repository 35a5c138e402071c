// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/riskdesk/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// 业务指标
	PricingsTotal      prometheus.Counter
	ImpliedVolsTotal   prometheus.Counter
	ScenariosTotal     prometheus.Counter
	RiskSnapshotsTotal prometheus.Counter
	PositionsActive    prometheus.Gauge
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		PricingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "pricings_total",
			Help:      "Total option pricing calculations",
		}),
		ImpliedVolsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "implied_vols_total",
			Help:      "Total implied volatility solves",
		}),
		ScenariosTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "scenarios_total",
			Help:      "Total scenario projections",
		}),
		RiskSnapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "risk_snapshots_total",
			Help:      "Total risk metric snapshots computed",
		}),
		PositionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "riskdesk",
			Subsystem: serviceName,
			Name:      "positions_active",
			Help:      "Number of positions in the ledger",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.PricingsTotal,
		m.ImpliedVolsTotal,
		m.ScenariosTotal,
		m.RiskSnapshotsTotal,
		m.PositionsActive,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()

	return nil
}

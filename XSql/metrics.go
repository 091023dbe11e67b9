// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XSql

import (
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsInfo 定义了全局的统计信息。
type metricsInfo struct {
	connectionTotal   *prometheus.CounterVec // 连接获取次数，标签为 result
	connectionSeconds prometheus.Histogram   // 连接获取耗时
}

var sharedMetrics = &metricsInfo{
	connectionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xsql_connection_total",
		Help: "The total number of acquired XSql connections.",
	}, []string{"result"}),
	connectionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "xsql_connection_seconds",
		Help:    "The elapsed seconds of acquiring XSql connections.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16),
	}),
}

// 提供了统计信息的全局访问点。
func Metrics() *metricsInfo {
	return sharedMetrics
}

// Collectors 返回所有的统计指标。
func (m *metricsInfo) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.connectionTotal, m.connectionSeconds}
}

func (m *metricsInfo) observe(start int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.connectionTotal.WithLabelValues(result).Inc()
	m.connectionSeconds.Observe(float64(XTime.GetMicrosecond()-start) / 1e6)
}

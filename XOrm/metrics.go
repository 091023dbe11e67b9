// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsInfo 定义了全局的统计信息。
type metricsInfo struct {
	operationTotal   *prometheus.CounterVec   // 操作次数，标签为 operation 和 result
	operationSeconds *prometheus.HistogramVec // 操作耗时，标签为 operation
	compiledTotal    prometheus.Counter       // 编译查询的预处理次数
}

var sharedMetrics = &metricsInfo{
	operationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xorm_operation_total",
		Help: "The total number of XOrm operations.",
	}, []string{"operation", "result"}),
	operationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xorm_operation_seconds",
		Help:    "The elapsed seconds of XOrm operations.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 16),
	}, []string{"operation"}),
	compiledTotal: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "xorm_compiled_prepare_total",
		Help: "The total number of prepared compiled queries.",
	}),
}

// 提供了统计信息的全局访问点。
func Metrics() *metricsInfo {
	return sharedMetrics
}

// Collectors 返回所有的统计指标，用于注册至 prometheus.Registerer。
func (m *metricsInfo) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.operationTotal, m.operationSeconds, m.compiledTotal}
}

// observe 记录一次操作，start 为操作开始的微秒时间，err 指向操作返回的错误。
func (m *metricsInfo) observe(operation string, start int, err *error) {
	result := "ok"
	if err != nil && *err != nil {
		result = "error"
	}
	m.operationTotal.WithLabelValues(operation, result).Inc()
	m.operationSeconds.WithLabelValues(operation).Observe(float64(XTime.GetMicrosecond()-start) / 1e6)
}

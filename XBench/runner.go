// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/eframework-org/GO.UTIL/XLog"
)

// Result 是单个用例的测量结果。
type Result struct {
	Name        string        // 用例名称
	Iterations  int           // 完成的测量次数
	Mean        time.Duration // 平均耗时
	Min         time.Duration // 最短耗时
	Max         time.Duration // 最长耗时
	P50         time.Duration // 中位数耗时
	P95         time.Duration // 95 分位耗时
	AllocsPerOp uint64        // 每次迭代的内存分配次数
	BytesPerOp  uint64        // 每次迭代的内存分配字节数
	Err         error         // 中止用例的错误
}

// Runner 依次执行用例，先预热再测量。
type Runner struct {
	iterations int
	warmup     int
}

// NewRunner 创建执行器，iterations 小于 1 时按 1 处理。
func NewRunner(iterations, warmup int) *Runner {
	if iterations < 1 {
		iterations = 1
	}
	if warmup < 0 {
		warmup = 0
	}
	return &Runner{iterations: iterations, warmup: warmup}
}

// Run 顺序执行所有用例，单个用例出错时中止该用例并继续执行后续用例。
func (r *Runner) Run(ctx context.Context, cases []Case) []*Result {
	results := make([]*Result, 0, len(cases))
	for _, c := range cases {
		if ctx.Err() != nil {
			results = append(results, &Result{Name: c.Name, Err: ctx.Err()})
			continue
		}
		result := r.measure(ctx, c)
		if result.Err != nil {
			XLog.Error("XBench.Runner: case %v aborted after %v iteration(s): %v", c.Name, result.Iterations, result.Err)
		} else {
			XLog.Info("XBench.Runner: case %v done, mean %v.", c.Name, result.Mean)
		}
		results = append(results, result)
	}
	return results
}

func (r *Runner) measure(ctx context.Context, c Case) *Result {
	result := &Result{Name: c.Name}
	for i := 0; i < r.warmup; i++ {
		if err := c.Run(ctx); err != nil {
			result.Err = err
			return result
		}
	}

	samples := make([]time.Duration, 0, r.iterations)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	for i := 0; i < r.iterations; i++ {
		start := time.Now()
		if err := c.Run(ctx); err != nil {
			result.Err = err
			break
		}
		samples = append(samples, time.Since(start))
	}
	runtime.ReadMemStats(&after)

	result.Iterations = len(samples)
	if len(samples) == 0 {
		return result
	}
	summarize(result, samples)
	n := uint64(len(samples))
	result.AllocsPerOp = (after.Mallocs - before.Mallocs) / n
	result.BytesPerOp = (after.TotalAlloc - before.TotalAlloc) / n
	return result
}

// summarize 计算耗时的统计值，samples 不能为空。
func summarize(result *Result, samples []time.Duration) {
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, s := range sorted {
		total += s
	}
	result.Mean = total / time.Duration(len(sorted))
	result.Min = sorted[0]
	result.Max = sorted[len(sorted)-1]
	result.P50 = percentile(sorted, 50)
	result.P95 = percentile(sorted, 95)
}

// percentile 按最近秩法返回有序样本的百分位数。
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

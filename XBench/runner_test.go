// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("Measure", func(t *testing.T) {
		calls := 0
		runner := NewRunner(5, 2)
		results := runner.Run(ctx, []Case{{Name: "Count", Run: func(context.Context) error {
			calls++
			return nil
		}}})
		require.Len(t, results, 1)
		assert.Equal(t, 7, calls, "应当执行预热及测量的次数。")
		assert.Equal(t, 5, results[0].Iterations)
		assert.NoError(t, results[0].Err)
		assert.LessOrEqual(t, results[0].Min, results[0].P50)
		assert.LessOrEqual(t, results[0].P50, results[0].P95)
		assert.LessOrEqual(t, results[0].P95, results[0].Max)
	})

	t.Run("Abort", func(t *testing.T) {
		calls := 0
		failure := errors.New("failure")
		runner := NewRunner(10, 0)
		results := runner.Run(ctx, []Case{
			{Name: "Fail", Run: func(context.Context) error {
				calls++
				if calls == 3 {
					return failure
				}
				return nil
			}},
			{Name: "Next", Run: func(context.Context) error { return nil }},
		})
		require.Len(t, results, 2)
		assert.ErrorIs(t, results[0].Err, failure, "出错的用例应当记录错误。")
		assert.Equal(t, 2, results[0].Iterations, "出错后应当中止该用例。")
		assert.NoError(t, results[1].Err, "后续用例应当继续执行。")
		assert.Equal(t, 10, results[1].Iterations)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		results := NewRunner(1, 0).Run(ctx, []Case{{Name: "Skip", Run: func(context.Context) error { return nil }}})
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, context.Canceled, "取消后不应当执行用例。")
	})

	t.Run("Bounds", func(t *testing.T) {
		runner := NewRunner(0, -1)
		assert.Equal(t, 1, runner.iterations)
		assert.Equal(t, 0, runner.warmup)
	})
}

func TestSummarize(t *testing.T) {
	var samples []time.Duration
	for i := 100; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Millisecond)
	}
	result := &Result{}
	summarize(result, samples)
	assert.Equal(t, time.Millisecond, result.Min)
	assert.Equal(t, 100*time.Millisecond, result.Max)
	assert.Equal(t, 50*time.Millisecond, result.P50)
	assert.Equal(t, 95*time.Millisecond, result.P95)
	assert.Equal(t, 50500*time.Microsecond, result.Mean)
	assert.Equal(t, 100*time.Millisecond, samples[0], "不应当修改原始样本的顺序。")

	assert.Equal(t, 7*time.Millisecond, percentile([]time.Duration{7 * time.Millisecond}, 95))
}

func TestFilterCases(t *testing.T) {
	cases := Cases(nil, nil)
	assert.Len(t, cases, 18, "应当包含所有的用例。")

	names := make(map[string]bool)
	for _, c := range cases {
		assert.False(t, names[c.Name], "用例名称不应当重复。")
		names[c.Name] = true
	}

	all, err := FilterCases(cases, "")
	require.NoError(t, err)
	assert.Len(t, all, 18)

	sqls, err := FilterCases(cases, "_Sql$")
	require.NoError(t, err)
	assert.Len(t, sqls, 5)

	gets, err := FilterCases(cases, "^Get_One_")
	require.NoError(t, err)
	assert.Len(t, gets, 5)

	_, err = FilterCases(cases, "(")
	assert.Error(t, err, "非法的表达式应当返回错误。")
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	Report(&out, []*Result{
		{Name: "Get_One_Sql", Iterations: 3, Mean: 1500 * time.Microsecond, Min: time.Millisecond, Max: 2 * time.Millisecond,
			P50: 1500 * time.Microsecond, P95: 2 * time.Millisecond, AllocsPerOp: 12, BytesPerOp: 1024},
		{Name: "Add_Delete_Orm", Err: errors.New("duplicate key")},
	})
	text := out.String()
	assert.Contains(t, text, "Get_One_Sql")
	assert.Contains(t, text, "1500.00us", "耗时应当以微秒输出。")
	assert.Contains(t, text, "1024")
	assert.Contains(t, text, "duplicate key", "出错的用例应当输出错误。")
	assert.Contains(t, text, "Allocs/op")
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/eframework-org/GO.BENCH/XSql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestRun(t *testing.T) {
	addr := "file:" + filepath.Join(t.TempDir(), "bench.db") + "?_busy_timeout=5000"
	config := DefaultConfig()
	config.Driver = "sqlite3"
	config.EmployeeDb = addr
	config.Pool = 1
	config.Conn = 1
	config.Count = 50
	config.Iterations = 3
	config.Warmup = 1
	require.NoError(t, config.Validate())

	var out bytes.Buffer
	results, err := Run(context.Background(), config, &out)
	require.NoError(t, err)
	require.Len(t, results, 18, "应当执行所有的用例。")
	for _, result := range results {
		assert.NoError(t, result.Err, "用例 %v 不应当出错。", result.Name)
		assert.Equal(t, 3, result.Iterations, "用例 %v 应当完成所有测量。", result.Name)
	}
	assert.Contains(t, out.String(), "Get_Filter_Sql", "应当输出报告。")

	factory, err := XSql.New(context.Background(), "sqlite3", addr)
	require.NoError(t, err)
	defer factory.Close()
	conn, err := factory.Open(context.Background())
	require.NoError(t, err)
	defer conn.Close()
	var total int
	require.NoError(t, conn.GetContext(context.Background(), &total, "SELECT COUNT(*) FROM employees"))
	assert.Zero(t, total, "结束后应当清理生成的数据。")

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results, err := Run(ctx, config, nil)
		assert.Error(t, err, "已取消的上下文应当中止数据源检查。")
		assert.Nil(t, results)
	})

	t.Run("Filter", func(t *testing.T) {
		config.Filter = "^Get_One_"
		config.Count = 10
		results, err := Run(context.Background(), config, nil)
		require.NoError(t, err)
		assert.Len(t, results, 5, "应当只执行匹配的用例。")
	})
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XSql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestFactory(t *testing.T) {
	addr := "file:" + filepath.Join(t.TempDir(), "xsql.db") + "?_busy_timeout=5000"

	t.Run("Driver", func(t *testing.T) {
		_, err := New(context.Background(), "unknown", addr)
		assert.True(t, errors.Is(err, ErrDriverNotFound), "未注册的驱动应当返回 ErrDriverNotFound。")
	})

	t.Run("Unreachable", func(t *testing.T) {
		_, err := New(context.Background(), "sqlite3", "file:"+filepath.Join(t.TempDir(), "missing", "xsql.db")+"?mode=ro")
		assert.Error(t, err, "不可达的数据源应当返回错误。")
	})

	t.Run("Ping", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		factory, err := New(ctx, "sqlite3", addr)
		assert.ErrorIs(t, err, context.Canceled, "已取消的上下文应当中止数据源检查。")
		assert.Nil(t, factory)
	})

	t.Run("Open", func(t *testing.T) {
		factory, err := New(context.Background(), "sqlite3", addr)
		require.NoError(t, err)
		defer factory.Close()
		factory.SetPool(2, 4)
		assert.Equal(t, "sqlite3", factory.Driver())
		assert.NotNil(t, factory.DB())

		before := testutil.ToFloat64(Metrics().connectionTotal.WithLabelValues("ok"))
		conn, err := factory.Open(context.Background())
		require.NoError(t, err)
		var one int
		assert.NoError(t, conn.GetContext(context.Background(), &one, "SELECT 1"))
		assert.Equal(t, 1, one)
		assert.NoError(t, conn.Close(), "连接应当可以被关闭。")
		assert.Equal(t, before+1, testutil.ToFloat64(Metrics().connectionTotal.WithLabelValues("ok")), "连接获取应当被统计。")
	})

	t.Run("Canceled", func(t *testing.T) {
		factory, err := New(context.Background(), "sqlite3", addr)
		require.NoError(t, err)
		defer factory.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		before := testutil.ToFloat64(Metrics().connectionTotal.WithLabelValues("error"))
		_, err = factory.Open(ctx)
		assert.Error(t, err, "取消的上下文应当返回错误。")
		assert.Equal(t, before+1, testutil.ToFloat64(Metrics().connectionTotal.WithLabelValues("error")))
	})

	t.Run("Closed", func(t *testing.T) {
		factory, err := New(context.Background(), "sqlite3", addr)
		require.NoError(t, err)
		assert.NoError(t, factory.Close())
		_, err = factory.Open(context.Background())
		assert.Error(t, err, "关闭后获取连接应当返回错误。")
	})
}

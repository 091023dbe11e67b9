// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/eframework-org/GO.BENCH/XBench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	t.Run("Changed", func(t *testing.T) {
		cmd := newCommand()
		require.NoError(t, cmd.Flags().Parse([]string{"--count", "10", "--seed", "7", "--filter", "_Sql$"}))
		config := XBench.DefaultConfig()
		require.NoError(t, applyFlags(cmd, config))
		assert.Equal(t, 10, config.Count)
		assert.Equal(t, int64(7), config.Seed)
		assert.Equal(t, "_Sql$", config.Filter)
		assert.Equal(t, XBench.DefaultConfig().Iterations, config.Iterations, "未指定的参数不应当覆盖配置。")
	})

	t.Run("Invalid", func(t *testing.T) {
		cmd := newCommand()
		require.NoError(t, cmd.Flags().Parse([]string{"--iterations", "0"}))
		assert.Error(t, applyFlags(cmd, XBench.DefaultConfig()), "非法的参数应当校验失败。")
	})
}

func TestShutdownMetrics(t *testing.T) {
	t.Run("Closed", func(t *testing.T) {
		server := serveMetrics("127.0.0.1:0")
		assert.NoError(t, shutdownMetrics(server, time.Second), "空闲的指标服务应当正常关闭。")
		assert.ErrorIs(t, server.ListenAndServe(), http.ErrServerClosed, "关闭后的服务不应当再次监听。")
	})

	t.Run("Timeout", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		entered := make(chan struct{})
		hold := make(chan struct{})
		server := &http.Server{Addr: listener.Addr().String(), Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			<-hold
		})}
		go server.Serve(listener)

		done := make(chan struct{})
		go func() {
			defer close(done)
			if resp, err := http.Get("http://" + listener.Addr().String()); err == nil {
				resp.Body.Close()
			}
		}()
		<-entered
		err = shutdownMetrics(server, 10*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded, "存在未完成的请求时应当返回关闭超时的错误。")
		close(hold)
		<-done
	})
}

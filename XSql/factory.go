// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XSql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/jmoiron/sqlx"
)

// ErrDriverNotFound 表示驱动未在 database/sql 中注册。
var ErrDriverNotFound = errors.New("XSql: driver was not found")

// IFactory 定义了连接工厂的接口。
type IFactory interface {
	// Open 获取一个独占的连接，调用方必须在所有路径上关闭它。
	Open(ctx context.Context) (*sqlx.Conn, error)
}

// Factory 是基于 database/sql 连接池的连接工厂。
type Factory struct {
	driver string   // 驱动名称
	db     *sqlx.DB // 连接池
}

// New 创建连接工厂并在 ctx 内检查数据源的可用性。
// 驱动未注册时返回 ErrDriverNotFound，地址非法、不可达或 ctx 结束时返回连接错误。
func New(ctx context.Context, driver, addr string) (*Factory, error) {
	if !slices.Contains(sql.Drivers(), driver) {
		return nil, fmt.Errorf("XSql.New(%v): %w", driver, ErrDriverNotFound)
	}
	db, err := sqlx.Open(driver, addr)
	if err != nil {
		return nil, fmt.Errorf("XSql.New(%v): %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("XSql.New(%v): %w", driver, err)
	}
	XLog.Notice("XSql.New: factory of %v has been created.", driver)
	return &Factory{driver: driver, db: db}, nil
}

// SetPool 设置空闲连接数和最大连接数，小于等于 0 时保持默认值。
func (f *Factory) SetPool(idle, open int) *Factory {
	if idle > 0 {
		f.db.SetMaxIdleConns(idle)
	}
	if open > 0 {
		f.db.SetMaxOpenConns(open)
	}
	return f
}

// Driver 返回驱动名称。
func (f *Factory) Driver() string { return f.driver }

// DB 返回连接池，用于建表等初始化操作。
func (f *Factory) DB() *sqlx.DB { return f.db }

// Open 获取一个独占的连接。
//
// 使用示例：
//
//	conn, err := factory.Open(ctx)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
func (f *Factory) Open(ctx context.Context) (*sqlx.Conn, error) {
	start := XTime.GetMicrosecond()
	conn, err := f.db.Connx(ctx)
	Metrics().observe(start, err)
	if err != nil {
		return nil, fmt.Errorf("XSql.Factory.Open: %w", err)
	}
	return conn, nil
}

// Close 关闭连接池。
func (f *Factory) Close() error {
	XLog.Notice("XSql.Factory.Close: factory of %v has been closed.", f.driver)
	return f.db.Close()
}

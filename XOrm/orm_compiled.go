// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/jmoiron/sqlx"
)

// compiledCache 存储已编译的查询，键为 "数据库别名/查询名称"。
var compiledCache sync.Map

// Compiled 定义了一个预编译的查询。
// 语句在首次执行时预处理并在进程内复用，可以被并发调用。
type Compiled struct {
	alias string                    // 数据库别名
	name  string                    // 查询名称
	query string                    // 查询语句，使用 ? 作为参数占位符
	mutex sync.Mutex                // 预处理锁
	stmt  atomic.Pointer[sqlx.Stmt] // 预处理语句
}

// Compile 注册一个编译查询，同名的查询只会被注册一次。
// 若同名查询的语句不一致则触发 panic。
func Compile(alias, name, query string) *Compiled {
	key := alias + "/" + name
	value, loaded := compiledCache.Load(key)
	if !loaded {
		value, loaded = compiledCache.LoadOrStore(key, &Compiled{alias: alias, name: name, query: query})
	}
	cq := value.(*Compiled)
	if loaded && cq.query != query {
		XLog.Panic("XOrm.Compile: query of %v has been compiled with a different statement.", key)
	}
	return cq
}

// Name 返回查询名称。
func (cq *Compiled) Name() string { return cq.name }

// prepare 返回预处理语句，失败时下次调用会重试。
func (cq *Compiled) prepare(ctx context.Context) (*sqlx.Stmt, error) {
	if stmt := cq.stmt.Load(); stmt != nil {
		return stmt, nil
	}

	cq.mutex.Lock()
	defer cq.mutex.Unlock()
	if stmt := cq.stmt.Load(); stmt != nil {
		return stmt, nil
	}

	driver := Driver(cq.alias)
	if driver == "" {
		return nil, fmt.Errorf("XOrm.Compiled(%v): database %v: %w", cq.name, cq.alias, ErrNotRegistered)
	}
	db, err := orm.GetDB(cq.alias)
	if err != nil {
		return nil, fmt.Errorf("XOrm.Compiled(%v): %w", cq.name, err)
	}
	xdb := sqlx.NewDb(db, driver)
	stmt, err := xdb.PreparexContext(ctx, xdb.Rebind(cq.query))
	if err != nil {
		return nil, fmt.Errorf("XOrm.Compiled(%v): prepare failed: %w", cq.name, err)
	}
	cq.stmt.Store(stmt)
	Metrics().compiledTotal.Inc()
	XLog.Notice("XOrm.Compiled: query %v has been prepared on %v.", cq.name, cq.alias)
	return stmt, nil
}

// CompiledRead 执行编译查询并将首行映射至数据模型，不进行会话跟踪。
// 未找到记录时返回 false 且不返回错误。
func CompiledRead[T IModel](ctx context.Context, cq *Compiled, model T, args ...any) (ret T, ok bool, err error) {
	defer Metrics().observe("compiled", XTime.GetMicrosecond(), &err)
	stmt, err := cq.prepare(ctx)
	if err != nil {
		return model, false, err
	}
	if err = stmt.GetContext(ctx, model, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			model.IsValid(false)
			return model, false, nil
		}
		return model, false, err
	}
	model.Ctor(model)
	model.OnDecode()
	model.IsValid(true)
	return model, true, nil
}

// CompiledList 执行编译查询并将所有行映射至数据模型列表，不进行会话跟踪。
func CompiledList[T IModel](ctx context.Context, cq *Compiled, args ...any) (rets []T, err error) {
	defer Metrics().observe("compiled", XTime.GetMicrosecond(), &err)
	stmt, err := cq.prepare(ctx)
	if err != nil {
		return nil, err
	}
	if err = stmt.SelectContext(ctx, &rets, args...); err != nil {
		return nil, err
	}
	for _, ret := range rets {
		ret.Ctor(ret)
		ret.OnDecode()
		ret.IsValid(true)
	}
	return rets, nil
}

// Reset 关闭并移除所有的编译查询。
func Reset() {
	compiledCache.Range(func(key, value any) bool {
		cq := value.(*Compiled)
		cq.mutex.Lock()
		if stmt := cq.stmt.Swap(nil); stmt != nil {
			if err := stmt.Close(); err != nil {
				XLog.Warn("XOrm.Reset: close compiled query %v failed: %v", cq.name, err)
			}
		}
		cq.mutex.Unlock()
		compiledCache.Delete(key)
		return true
	})
}

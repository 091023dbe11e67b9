// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
)

// Read 按主键读取数据模型并纳入会话跟踪。model 的主键必须已赋值。
//
// 若会话已跟踪该记录，直接返回被跟踪的实例（不访问数据库）；
// 若该记录已被标记删除，返回 false。
// 否则从数据库读取，读取成功后保存快照，之后对返回实例的修改会在 Commit 时写入。
func Read[T IModel](ctx context.Context, s *Session, model T) (T, bool, error) {
	meta := getModelMeta(model)
	if meta == nil {
		XLog.Critical("XOrm.Read: model of %v was not registered: %v", model.ModelUnique(), XLog.Caller(1, false))
		return model, false, fmt.Errorf("XOrm.Read(%v): %w", model.ModelUnique(), ErrNotRegistered)
	}

	start := XTime.GetMicrosecond()
	defer func() {
		atomic.AddInt64(&s.readCount, 1)
		atomic.AddInt64(&s.readElapsed, int64(XTime.GetMicrosecond()-start))
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sobj := s.lookup(model.DataUnique()); sobj != nil { // 会话内存读取
		if sobj.delete {
			model.IsValid(false)
			return model, false, nil
		}
		return sobj.ptr.(T), true, nil
	}

	ok, err := model.Read(ctx)
	if err != nil || !ok {
		return model, false, err
	}
	s.track(model)
	return model, true, nil
}

// List 查询数据模型列表并纳入会话跟踪。
//
// 对于已被会话跟踪的记录，返回被跟踪的实例（会话中的修改优先于数据库中的数据）；
// 已被标记删除的记录不会返回。
func List[T IModel](ctx context.Context, s *Session, model T, cond ...*Condition) ([]T, error) {
	meta := getModelMeta(model)
	if meta == nil {
		XLog.Critical("XOrm.List: model of %v was not registered: %v", model.ModelUnique(), XLog.Caller(1, false))
		return nil, fmt.Errorf("XOrm.List(%v): %w", model.ModelUnique(), ErrNotRegistered)
	}
	if len(cond) > 0 && cond[0] != nil && len(cond[0].Columns) > 0 {
		return nil, fmt.Errorf("XOrm.List(%v): projected records can not be tracked", model.ModelUnique())
	}

	start := XTime.GetMicrosecond()
	defer func() {
		atomic.AddInt64(&s.listCount, 1)
		atomic.AddInt64(&s.listElapsed, int64(XTime.GetMicrosecond()-start))
	}()

	var rets []T
	if _, err := model.List(ctx, &rets, cond...); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	frets := make([]T, 0, len(rets))
	for _, ret := range rets {
		if sobj := s.lookup(ret.DataUnique()); sobj != nil {
			if sobj.delete { // 忽略被标记删除的数据
				continue
			}
			frets = append(frets, sobj.ptr.(T))
		} else {
			s.track(ret) // 监控内存
			frets = append(frets, ret)
		}
	}
	return frets, nil
}

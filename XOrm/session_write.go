// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"sync/atomic"

	"github.com/eframework-org/GO.UTIL/XLog"
)

// checkWritable 检查模型是否已注册且可写。
func checkWritable(action string, model IModel) error {
	meta := getModelMeta(model)
	if meta == nil {
		XLog.Critical("XOrm.%v: model of %v was not registered: %v", action, model.ModelUnique(), XLog.Caller(2, false))
		return fmt.Errorf("XOrm.%v(%v): %w", action, model.ModelUnique(), ErrNotRegistered)
	}
	if !meta.writable {
		return fmt.Errorf("XOrm.%v(%v): model is not writable", action, model.ModelUnique())
	}
	return nil
}

// Write 将新建的数据模型加入会话，Commit 时插入数据库。
func Write[T IModel](s *Session, model T) error {
	if err := checkWritable("Write", model); err != nil {
		return err
	}
	atomic.AddInt64(&s.writeCount, 1)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	model.IsValid(true)
	sobj := s.track(model)
	sobj.raw = nil
	sobj.create = true
	sobj.update = false
	sobj.delete = false
	return nil
}

// Update 将数据模型附加至会话并标记为修改，Commit 时以主键更新所有列。
// 适用于未经会话读取的实例；对已跟踪的实例直接修改字段即可。
func Update[T IModel](s *Session, model T) error {
	if err := checkWritable("Update", model); err != nil {
		return err
	}
	atomic.AddInt64(&s.writeCount, 1)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	model.IsValid(true)
	sobj := s.track(model)
	if !sobj.create {
		sobj.update = true
	}
	sobj.delete = false
	return nil
}

// Delete 将数据模型标记为删除，Commit 时以主键删除。
// 若该记录是本会话中新建且未提交的，则直接取消新建。
func Delete[T IModel](s *Session, model T) error {
	if err := checkWritable("Delete", model); err != nil {
		return err
	}
	atomic.AddInt64(&s.deleteCount, 1)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := model.DataUnique()
	if sobj := s.lookup(key); sobj != nil && sobj.create {
		model.IsValid(false)
		s.untrack(key)
		return nil
	}
	sobj := s.track(model)
	model.IsValid(false)
	sobj.update = false
	sobj.delete = true
	return nil
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"sync"

	"github.com/eframework-org/GO.UTIL/XLog"
)

// sessionObjectPool 是会话对象池，用于复用 sessionObject 实例。
var sessionObjectPool = sync.Pool{New: func() any { return new(sessionObject) }}

// sessionObject 定义了会话中跟踪的记录。
type sessionObject struct {
	raw    IModel // 原始快照，新建的记录为 nil
	ptr    IModel // 工作实例
	create bool   // 是否为新建状态
	update bool   // 是否强制更新（附加的实例无可信快照）
	delete bool   // 是否标记为删除
}

func (sobj *sessionObject) reset() {
	sobj.raw = nil
	sobj.ptr = nil
	sobj.create = false
	sobj.update = false
	sobj.delete = false
}

// dirty 判断记录是否存在待提交的变更。
func (sobj *sessionObject) dirty() bool {
	if sobj.create || sobj.delete || sobj.update {
		return true
	}
	if sobj.raw == nil {
		return false
	}
	sobj.ptr.OnEncode()
	return !sobj.ptr.Equals(sobj.raw)
}

// lookup 查找已跟踪的记录，调用方需持有会话锁。
func (s *Session) lookup(key string) *sessionObject {
	return s.objects[key]
}

// track 跟踪记录并保存快照，调用方需持有会话锁。
// 若已跟踪同一标识的其他实例，则以新实例替换之。
func (s *Session) track(model IModel) *sessionObject {
	key := model.DataUnique()
	sobj := s.objects[key]
	if sobj == nil {
		sobj = sessionObjectPool.Get().(*sessionObject)
		sobj.ptr = model
		sobj.raw = model.Clone()
		s.objects[key] = sobj
		s.orders = append(s.orders, key)
	} else if sobj.ptr != model {
		if sobj.dirty() {
			XLog.Notice("XOrm.Session.track: pending change of %v has been replaced.", key)
		}
		sobj.ptr = model
		sobj.raw = model.Clone()
	}
	return sobj
}

// untrack 停止跟踪记录，调用方需持有会话锁。
func (s *Session) untrack(key string) {
	if sobj := s.objects[key]; sobj != nil {
		delete(s.objects, key)
		sobj.reset()
		sessionObjectPool.Put(sobj)
	}
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XString"
	"github.com/eframework-org/GO.UTIL/XTime"
	"github.com/petermattis/goid"
)

// sessionID 是会话 ID 的原子计数器，用于生成唯一的会话标识。
var sessionID int64

// Session 定义了变更跟踪的工作单元。
// 会话维护一个以 DataUnique 为键的身份映射，读取的记录会保存快照，
// Commit 时对比快照并在事务中写入新建、修改和删除的记录。
//
// 会话的方法可以被并发调用，内部使用互斥锁保护。
type Session struct {
	id      int                       // 会话标识
	time    int                       // 会话开始时间
	mutex   sync.Mutex                // 会话锁
	objects map[string]*sessionObject // 身份映射
	orders  []string                  // 跟踪顺序，用于确定提交顺序

	readCount     int64 // 读取操作次数
	readElapsed   int64 // 读取操作耗时
	listCount     int64 // 列举操作次数
	listElapsed   int64 // 列举操作耗时
	writeCount    int64 // 写入操作次数
	deleteCount   int64 // 删除操作次数
	commitCount   int64 // 提交操作次数
	commitElapsed int64 // 提交操作耗时
}

// NewSession 创建一个新的会话。
//
// 使用示例：
//
//	session := XOrm.NewSession()
//	defer session.Close()
func NewSession() *Session {
	s := &Session{
		id:      int(atomic.AddInt64(&sessionID, 1)),
		time:    XTime.GetMicrosecond(),
		objects: make(map[string]*sessionObject),
	}

	tag := XLog.Tag()
	if tag != nil { // 设置日志标签
		tag.Set("Go", XString.ToString(int(goid.Get())))
		tag.Set("Session", XString.ToString(s.id))
	}

	XLog.Info("XOrm.NewSession: session-%v has been started.", s.id)
	return s
}

// ID 返回会话标识。
func (s *Session) ID() int { return s.id }

// Tracked 返回当前跟踪的记录数量。
func (s *Session) Tracked() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.objects)
}

// Clear 丢弃所有跟踪的记录及未提交的变更。
func (s *Session) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clear()
}

func (s *Session) clear() {
	for key := range s.objects {
		delete(s.objects, key)
	}
	s.orders = s.orders[:0]
}

// Close 结束会话并输出操作统计，未提交的变更将被丢弃。
func (s *Session) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if XLog.Able(XLog.LevelInfo) {
		var crudLog string
		if s.readCount > 0 {
			crudLog += fmt.Sprintf("[Read(%v):%.2fms] ", s.readCount, float64(s.readElapsed)/1e3)
		}
		if s.listCount > 0 {
			crudLog += fmt.Sprintf("[List(%v):%.2fms] ", s.listCount, float64(s.listElapsed)/1e3)
		}
		if s.writeCount > 0 {
			crudLog += fmt.Sprintf("[Write(%v)] ", s.writeCount)
		}
		if s.deleteCount > 0 {
			crudLog += fmt.Sprintf("[Delete(%v)] ", s.deleteCount)
		}
		if s.commitCount > 0 {
			crudLog += fmt.Sprintf("[Commit(%v):%.2fms] ", s.commitCount, float64(s.commitElapsed)/1e3)
		}
		XLog.Info("XOrm.Session.Close: session-%v has been closed, elapsed %.2fms for %v[Pending:%v].",
			s.id, float64(XTime.GetMicrosecond()-s.time)/1e3, crudLog, len(s.objects))
	}
	s.clear()
}

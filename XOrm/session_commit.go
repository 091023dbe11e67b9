// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"fmt"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
)

// commitBatch 是同一数据源中待提交的变更。
type commitBatch struct {
	alias   string
	objects []*sessionObject
}

// Commit 提交会话中的所有变更。
//
// 函数对比跟踪实例与快照，按数据源分组，在事务中依次执行删除、插入和更新。
// 提交成功后刷新快照（删除的记录及不存在的记录不再被跟踪），返回写入的记录数量。
// 任一语句失败时回滚该数据源的事务并返回错误，会话状态保持不变以便重试或丢弃。
func (s *Session) Commit(ctx context.Context) (count int, err error) {
	start := XTime.GetMicrosecond()
	defer Metrics().observe("commit", start, &err)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer func() {
		s.commitCount++
		s.commitElapsed += int64(XTime.GetMicrosecond() - start)
	}()

	batches := s.collect()
	if len(batches) == 0 {
		return 0, nil
	}

	for _, batch := range batches {
		ormer, err := newOrmer(batch.alias)
		if err != nil {
			return count, err
		}
		var written int
		affected := make([]int, len(batch.objects))
		err = ormer.DoTxWithCtx(ctx, func(ctx context.Context, txOrm orm.TxOrmer) error {
			written = 0
			for i, sobj := range batch.objects {
				n, err := push(ctx, txOrm, sobj)
				if err != nil {
					return err
				}
				affected[i] = n
				written += n
			}
			return nil
		})
		if err != nil {
			XLog.Error("XOrm.Session.Commit: session-%v commit to %v failed: %v", s.id, batch.alias, err)
			return count, err
		}
		count += written
		s.accept(batch.objects, affected)
	}

	XLog.Info("XOrm.Session.Commit: session-%v has committed %v change(s).", s.id, count)
	return count, nil
}

// collect 收集待提交的变更，按数据源分组并将删除排在写入之前。
func (s *Session) collect() []*commitBatch {
	var batches []*commitBatch
	index := make(map[string]*commitBatch)
	seen := make(map[string]bool, len(s.orders))
	var writes []*sessionObject
	var deletes []*sessionObject
	orders := s.orders[:0]
	for _, key := range s.orders {
		sobj := s.objects[key]
		if sobj == nil || seen[key] {
			continue
		}
		seen[key] = true
		orders = append(orders, key)
		if !getModelMeta(sobj.ptr).writable || !sobj.dirty() {
			continue
		}
		if sobj.delete {
			deletes = append(deletes, sobj)
		} else {
			writes = append(writes, sobj)
		}
	}
	s.orders = orders

	for _, sobj := range append(deletes, writes...) {
		alias := sobj.ptr.AliasName()
		batch := index[alias]
		if batch == nil {
			batch = &commitBatch{alias: alias}
			index[alias] = batch
			batches = append(batches, batch)
		}
		batch.objects = append(batch.objects, sobj)
	}
	return batches
}

// push 在事务中写入单条变更，返回受影响的记录数量。
func push(ctx context.Context, txOrm orm.TxOrmer, sobj *sessionObject) (int, error) {
	obj := sobj.ptr
	switch {
	case sobj.delete:
		n, err := txOrm.DeleteWithCtx(ctx, obj)
		if err != nil {
			return 0, fmt.Errorf("delete %v: %w", obj.DataUnique(), err)
		}
		return int(n), nil
	case sobj.create:
		obj.OnEncode()
		if _, err := txOrm.InsertWithCtx(ctx, obj); err != nil {
			return 0, fmt.Errorf("insert %v: %w", obj.DataUnique(), err)
		}
		return 1, nil
	default:
		obj.OnEncode()
		n, err := txOrm.UpdateWithCtx(ctx, obj)
		if err != nil {
			return 0, fmt.Errorf("update %v: %w", obj.DataUnique(), err)
		}
		return int(n), nil
	}
}

// accept 在提交成功后刷新快照。
// 删除的记录及未命中任何行的更新不再被跟踪。
func (s *Session) accept(objects []*sessionObject, affected []int) {
	for i, sobj := range objects {
		if sobj.delete || (!sobj.create && affected[i] == 0) {
			s.untrack(sobj.ptr.DataUnique())
			continue
		}
		sobj.create = false
		sobj.update = false
		sobj.raw = sobj.ptr.Clone()
	}
}

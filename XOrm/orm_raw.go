// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XTime"
)

// RawRead 执行原生 SQL 并将首行映射至数据模型，不进行会话跟踪。
// query 使用 ? 作为参数占位符，列名需与模型的列名一致。
// 未找到记录时返回 false 且不返回错误。
func RawRead[T IModel](ctx context.Context, model T, query string, args ...any) (ret T, ok bool, err error) {
	defer Metrics().observe("raw", XTime.GetMicrosecond(), &err)
	if getModelMeta(model) == nil {
		return model, false, fmt.Errorf("XOrm.RawRead(%v): %w", model.ModelUnique(), ErrNotRegistered)
	}
	ormer, err := newOrmer(model.AliasName())
	if err != nil {
		return model, false, err
	}
	err = ormer.RawWithCtx(ctx, query, args...).QueryRow(model)
	model.Ctor(model)
	if err != nil {
		if errors.Is(err, orm.ErrNoRows) {
			return model, false, nil
		}
		XLog.Warn("XOrm.RawRead(%v): %v", model.TableName(), err)
		return model, false, err
	}
	model.OnDecode()
	model.IsValid(true)
	return model, true, nil
}

// RawList 执行原生 SQL 并将所有行映射至数据模型列表，不进行会话跟踪。
func RawList[T IModel](ctx context.Context, model T, query string, args ...any) (rets []T, err error) {
	defer Metrics().observe("raw", XTime.GetMicrosecond(), &err)
	if getModelMeta(model) == nil {
		return nil, fmt.Errorf("XOrm.RawList(%v): %w", model.ModelUnique(), ErrNotRegistered)
	}
	ormer, err := newOrmer(model.AliasName())
	if err != nil {
		return nil, err
	}
	if _, err = ormer.RawWithCtx(ctx, query, args...).QueryRows(&rets); err != nil && !errors.Is(err, orm.ErrNoRows) {
		XLog.Warn("XOrm.RawList(%v): %v", model.TableName(), err)
		return nil, err
	}
	decodeSlice(reflect.ValueOf(rets))
	return rets, nil
}

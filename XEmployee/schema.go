// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"sync"

	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.UTIL/XLog"
)

var registerOnce sync.Once

// Register 将员工模型注册至指定的数据源，重复调用只生效一次。
// 必须在首次访问数据库之前调用。
func Register(alias string) {
	registerOnce.Do(func() {
		if alias != "" {
			recordAlias = alias
		}
		XOrm.Meta(newRecord(), true)
	})
}

// Alias 返回员工模型的数据库别名。
func Alias() string { return recordAlias }

// Sync 创建缺失的员工数据表。
func Sync() error {
	if err := XOrm.Sync(recordAlias); err != nil {
		return err
	}
	XLog.Notice("XEmployee.Sync: table %v of %v is ready.", TableName, recordAlias)
	return nil
}

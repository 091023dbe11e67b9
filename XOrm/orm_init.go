// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XPrefs"
)

const (
	prefsOrmSource = "Orm/Source/"
	prefsOrmAddr   = "Addr"
	prefsOrmPool   = "Pool"
	prefsOrmConn   = "Conn"
)

var (
	// ErrNotRegistered 表示模型或数据源未注册。
	ErrNotRegistered = errors.New("XOrm: not registered")

	// sourceDrivers 存储了数据源的驱动类型，键为数据库别名。
	sourceDrivers sync.Map
)

func init() {
	// 日期及时间统一以 UTC 存取，与 sqlx 的扫描结果保持一致。
	orm.DefaultTimeLoc = time.UTC
}

// Setup 根据首选项注册数据源。
// 配置键名为 Orm/Source/<数据库类型>/<数据库别名>，参数包括 Addr、Pool 和 Conn。
func Setup(prefs XPrefs.IBase) error {
	if prefs == nil {
		return errors.New("XOrm.Setup: prefs is nil")
	}

	for _, key := range prefs.Keys() {
		if !strings.HasPrefix(key, prefsOrmSource) {
			continue
		}
		parts := strings.Split(key, "/")
		if len(parts) < 4 {
			return fmt.Errorf("XOrm.Setup: invalid prefs key %v", key)
		}

		base, ok := prefs.Get(key).(XPrefs.IBase)
		if !ok || base == nil {
			XLog.Error("XOrm.Setup: invalid config for %v", key)
			continue
		}
		if err := Register(parts[2], parts[3], base.GetString(prefsOrmAddr),
			base.GetInt(prefsOrmPool, 0), base.GetInt(prefsOrmConn, 0)); err != nil {
			return err
		}
	}
	return nil
}

// Register 注册一个数据源。
// driver 为数据库类型（大小写不敏感），pool 和 conn 小于等于 0 时使用驱动默认值。
func Register(driver, alias, addr string, pool, conn int) error {
	driver = normalizeDriver(driver)
	var params []orm.DBOption
	if pool > 0 {
		params = append(params, orm.MaxIdleConnections(pool))
	}
	if conn > 0 {
		params = append(params, orm.MaxOpenConnections(conn))
	}
	if err := orm.RegisterDataBase(alias, driver, addr, params...); err != nil {
		return fmt.Errorf("XOrm.Register: register database %v failed: %w", alias, err)
	}
	sourceDrivers.Store(alias, driver)
	XLog.Notice("XOrm.Register: database %v of %v has been registered.", alias, driver)
	return nil
}

// Driver 返回数据源的驱动类型，未注册时返回空字符串。
func Driver(alias string) string {
	if value, ok := sourceDrivers.Load(alias); ok {
		return value.(string)
	}
	return ""
}

// Sync 根据已注册的模型创建缺失的数据表。
func Sync(alias string) error {
	if Driver(alias) == "" {
		return fmt.Errorf("XOrm.Sync(%v): %w", alias, ErrNotRegistered)
	}
	if err := orm.RunSyncdb(alias, false, false); err != nil {
		return fmt.Errorf("XOrm.Sync(%v): %w", alias, err)
	}
	return nil
}

// newOrmer 创建指定数据源的 orm 实例。
func newOrmer(alias string) (orm.Ormer, error) {
	if Driver(alias) == "" {
		return nil, fmt.Errorf("XOrm: database %v: %w", alias, ErrNotRegistered)
	}
	return orm.NewOrmUsingDB(alias), nil
}

// normalizeDriver 将首选项中的数据库类型转换为驱动名称。
func normalizeDriver(driver string) string {
	switch driver = strings.ToLower(driver); driver {
	case "postgresql", "pgsql":
		return "postgres"
	case "sqlite":
		return "sqlite3"
	}
	return driver
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.BENCH/XSql"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

// testFactory 是测试使用的连接工厂，与 ORM 共享同一个数据库文件。
var testFactory *XSql.Factory

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "xemployee")
	if err != nil {
		XLog.Panic("创建测试目录失败: %v", err)
	}
	addr := "file:" + filepath.Join(dir, "employee.db") + "?_busy_timeout=5000"
	if err := XOrm.Register("SQLite3", "default", addr, 1, 1); err != nil {
		XLog.Panic("注册数据库失败: %v", err)
	}
	Register("default")
	if err := Sync(); err != nil {
		XLog.Panic("同步数据表失败: %v", err)
	}
	if testFactory, err = XSql.New(context.Background(), "sqlite3", addr); err != nil {
		XLog.Panic("创建连接工厂失败: %v", err)
	}

	code := m.Run()
	XOrm.Reset()
	testFactory.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

// ClearEmployees 清空员工数据表。
func ClearEmployees(t testing.TB) {
	_, err := newRecord().Clear(context.Background())
	require.NoError(t, err, "清空员工数据表应当成功。")
}

// NewTestEmployee 创建测试员工。
func NewTestEmployee(first, last string, born int, salary float64) *Employee {
	return &Employee{
		ID:          uuid.New(),
		FirstName:   first,
		LastName:    last,
		Position:    "Engineer",
		Address:     "Street " + first,
		DateOfBirth: time.Date(born, 6, 15, 0, 0, 0, 0, time.UTC),
		Salary:      salary,
	}
}

func TestEmployee(t *testing.T) {
	t.Run("DateOnly", func(t *testing.T) {
		local := time.FixedZone("UTC+8", 8*3600)
		date := DateOnly(time.Date(1990, 3, 2, 5, 30, 0, 0, local))
		assert.Equal(t, time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC), date, "日期应当按原时区的日历日期计算。")
		assert.Equal(t, time.UTC, date.Location())

		west := time.FixedZone("UTC-5", -5*3600)
		assert.Equal(t, time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC), DateOnly(time.Date(1990, 12, 31, 22, 0, 0, 0, west)), "负时区的日期不应当被推迟。")
		assert.Equal(t, time.Date(1981, 1, 1, 0, 0, 0, 0, time.UTC), DateOnly(time.Date(1981, 1, 1, 0, 0, 0, 0, local)))
	})

	t.Run("Equal", func(t *testing.T) {
		e1 := NewTestEmployee("Ann", "Lee", 1990, 3000)
		e2 := *e1
		e2.DateOfBirth = e1.DateOfBirth.Add(5 * time.Hour)
		assert.True(t, e1.Equal(&e2), "出生日期只比较日期部分。")

		e2.Salary = 3001
		assert.False(t, e1.Equal(&e2), "薪资不同的记录不应当相等。")

		var nilEmployee *Employee
		assert.True(t, nilEmployee.Equal(nil))
		assert.False(t, e1.Equal(nil))
	})

	t.Run("Record", func(t *testing.T) {
		e := NewTestEmployee("Ann", "Lee", 1990, 3000)
		e.DateOfBirth = e.DateOfBirth.Add(13 * time.Hour)
		r := toRecord(e)
		assert.Equal(t, e.ID.String(), r.ID)
		assert.Equal(t, DateOnly(e.DateOfBirth), r.DateOfBirth, "写入的出生日期应当被归一化。")

		back, err := r.toEmployee()
		require.NoError(t, err)
		assert.True(t, e.Equal(back), "转换后的记录应当相等。")

		r.ID = "invalid"
		_, err = r.toEmployee()
		assert.Error(t, err, "非法的主键应当返回错误。")

		params := mutableParams(e)
		assert.Len(t, params, 6, "集合更新应当包含所有可变字段。")
		assert.NotContains(t, params, "id", "集合更新不应当包含主键。")
	})

	t.Run("Schema", func(t *testing.T) {
		assert.Equal(t, "default", Alias())
		assert.Equal(t, "default_employees_"+SharedEmployeeID.String(), newRecord(SharedEmployeeID).DataUnique())
	})
}

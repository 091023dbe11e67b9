// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TableName 是员工数据表的名称。
const TableName = "employees"

var (
	// FilterBornFrom 是名称筛选的出生日期下限（出生年份大于 1980）。
	FilterBornFrom = time.Date(1981, 1, 1, 0, 0, 0, 0, time.UTC)

	// FilterSalaryBelow 是名称筛选的薪资上限（不含）。
	FilterSalaryBelow = 4000.0
)

// Employee 是员工记录。
// 文本字段的空字符串表示缺省，DateOfBirth 只有日期部分有意义。
type Employee struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Position    string    `db:"position" json:"position"`
	Address     string    `db:"address" json:"address"`
	DateOfBirth time.Time `db:"date_of_birth" json:"dateOfBirth"`
	Salary      float64   `db:"salary" json:"salary"`
}

// FullName 是名称筛选的结果。
type FullName struct {
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
}

// Equal 比较两条记录的所有字段，出生日期仅比较日期部分。
func (e *Employee) Equal(other *Employee) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.ID == other.ID &&
		e.FirstName == other.FirstName &&
		e.LastName == other.LastName &&
		e.Position == other.Position &&
		e.Address == other.Address &&
		DateOnly(e.DateOfBirth).Equal(DateOnly(other.DateOfBirth)) &&
		e.Salary == other.Salary
}

// DateOnly 取 t 在其自身时区下的日历日期，返回该日期的 UTC 零点。
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalize 返回出生日期归一化后的拷贝，两种实现以相同的形式写入。
func normalize(e *Employee) Employee {
	n := *e
	n.DateOfBirth = DateOnly(e.DateOfBirth)
	return n
}

// IRepository 定义了员工数据的访问接口。
// 每个操作都是独立的数据库往返，未找到记录时返回 nil 而不是错误，
// 更新或删除不存在的记录视为成功。
type IRepository interface {
	// AddEmployee 插入一条记录，主键重复时返回数据库错误。
	AddEmployee(ctx context.Context, employee *Employee) error

	// GetEmployee 按主键读取记录，不存在时返回 nil, nil。
	GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)

	// GetAllEmployees 读取所有记录，不保证顺序。
	GetAllEmployees(ctx context.Context) ([]*Employee, error)

	// GetFilterNames 返回出生年份大于 1980 且薪资低于 4000 的姓名，按 FirstName 升序。
	GetFilterNames(ctx context.Context) ([]FullName, error)

	// UpdateEmployee 按主键覆盖所有可变字段。
	UpdateEmployee(ctx context.Context, employee *Employee) error

	// DeleteEmployee 按主键删除记录。
	DeleteEmployee(ctx context.Context, employee *Employee) error
}

// IRepositoryExtend 定义了 ORM 实现的拓展操作。
type IRepositoryExtend interface {
	// GetEmployeeNoTracking 按主键读取记录，不进行会话跟踪。
	GetEmployeeNoTracking(ctx context.Context, id uuid.UUID) (*Employee, error)

	// GetAllEmployeesNoTracking 读取所有记录，不进行会话跟踪。
	GetAllEmployeesNoTracking(ctx context.Context) ([]*Employee, error)

	// GetEmployeeRaw 通过原生 SQL 按主键读取记录。
	GetEmployeeRaw(ctx context.Context, id uuid.UUID) (*Employee, error)

	// GetAllEmployeesRaw 通过原生 SQL 读取所有记录。
	GetAllEmployeesRaw(ctx context.Context) ([]*Employee, error)

	// GetEmployeeCompiled 通过编译查询按主键读取记录。
	GetEmployeeCompiled(ctx context.Context, id uuid.UUID) (*Employee, error)

	// GetAllEmployeesCompiled 通过编译查询读取所有记录。
	GetAllEmployeesCompiled(ctx context.Context) ([]*Employee, error)

	// ExecuteUpdateEmployee 按主键批量更新所有可变字段，不加载实体。
	ExecuteUpdateEmployee(ctx context.Context, employee *Employee) error

	// ExecuteDeleteEmployee 按主键批量删除，不加载实体。
	ExecuteDeleteEmployee(ctx context.Context, id uuid.UUID) error
}

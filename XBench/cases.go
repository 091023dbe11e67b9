// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/eframework-org/GO.BENCH/XEmployee"
)

// Case 定义了一个基准测试用例。
type Case struct {
	Name string                          // 用例名称
	Run  func(ctx context.Context) error // 单次迭代
}

// updatedEmployee 返回更新用例使用的共享员工。
func updatedEmployee() *XEmployee.Employee {
	employee := XEmployee.SharedEmployee()
	employee.FirstName = "NewFirstName"
	employee.LastName = "NewLastName"
	employee.Position = "NewPosition"
	employee.Address = "NewAddress"
	employee.DateOfBirth = time.Now().UTC()
	employee.Salary = 1111
	return employee
}

// addDeleteEmployee 返回新增删除用例使用的员工。
func addDeleteEmployee() *XEmployee.Employee {
	return &XEmployee.Employee{
		ID:          XEmployee.AddDeleteEmployeeID,
		FirstName:   "FirstName",
		LastName:    "LastName",
		Position:    "Position",
		Address:     "Address",
		DateOfBirth: time.Now().UTC(),
		Salary:      1000,
	}
}

// discard 丢弃读取的结果，仅保留错误。
func discard(_ any, err error) error { return err }

// Cases 返回两种实现的所有用例，顺序与报告一致。
func Cases(orm *XEmployee.OrmRepository, sql *XEmployee.SqlRepository) []Case {
	id := XEmployee.SharedEmployeeID
	return []Case{
		{"Get_One_Orm", func(ctx context.Context) error { return discard(orm.GetEmployee(ctx, id)) }},
		{"Get_One_Orm_NoTracking", func(ctx context.Context) error { return discard(orm.GetEmployeeNoTracking(ctx, id)) }},
		{"Get_One_Orm_Raw", func(ctx context.Context) error { return discard(orm.GetEmployeeRaw(ctx, id)) }},
		{"Get_One_Orm_Compiled", func(ctx context.Context) error { return discard(orm.GetEmployeeCompiled(ctx, id)) }},
		{"Get_One_Sql", func(ctx context.Context) error { return discard(sql.GetEmployee(ctx, id)) }},

		{"Get_All_Orm", func(ctx context.Context) error { return discard(orm.GetAllEmployees(ctx)) }},
		{"Get_All_Orm_NoTracking", func(ctx context.Context) error { return discard(orm.GetAllEmployeesNoTracking(ctx)) }},
		{"Get_All_Orm_Raw", func(ctx context.Context) error { return discard(orm.GetAllEmployeesRaw(ctx)) }},
		{"Get_All_Orm_Compiled", func(ctx context.Context) error { return discard(orm.GetAllEmployeesCompiled(ctx)) }},
		{"Get_All_Sql", func(ctx context.Context) error { return discard(sql.GetAllEmployees(ctx)) }},

		{"Get_Filter_Orm", func(ctx context.Context) error { return discard(orm.GetFilterNames(ctx)) }},
		{"Get_Filter_Sql", func(ctx context.Context) error { return discard(sql.GetFilterNames(ctx)) }},

		{"Update_Orm", func(ctx context.Context) error { return orm.UpdateEmployee(ctx, updatedEmployee()) }},
		{"Update_Orm_Execute", func(ctx context.Context) error { return orm.ExecuteUpdateEmployee(ctx, updatedEmployee()) }},
		{"Update_Sql", func(ctx context.Context) error { return sql.UpdateEmployee(ctx, updatedEmployee()) }},

		{"Add_Delete_Orm", func(ctx context.Context) error {
			employee := addDeleteEmployee()
			if err := orm.AddEmployee(ctx, employee); err != nil {
				return err
			}
			return orm.DeleteEmployee(ctx, employee)
		}},
		{"Add_Delete_Orm_ExecuteDelete", func(ctx context.Context) error {
			employee := addDeleteEmployee()
			if err := orm.AddEmployee(ctx, employee); err != nil {
				return err
			}
			return orm.ExecuteDeleteEmployee(ctx, employee.ID)
		}},
		{"Add_Delete_Sql", func(ctx context.Context) error {
			employee := addDeleteEmployee()
			if err := sql.AddEmployee(ctx, employee); err != nil {
				return err
			}
			return sql.DeleteEmployee(ctx, employee)
		}},
	}
}

// FilterCases 返回名称匹配正则表达式的用例，表达式为空时返回全部。
func FilterCases(cases []Case, expr string) ([]Case, error) {
	if expr == "" {
		return cases, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("XBench.FilterCases: invalid filter %q: %w", expr, err)
	}
	var rets []Case
	for _, c := range cases {
		if re.MatchString(c.Name) {
			rets = append(rets, c)
		}
	}
	return rets, nil
}

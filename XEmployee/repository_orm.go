// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"context"
	"fmt"

	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/google/uuid"
)

const (
	rawSelectEmployee  = `SELECT id, first_name, last_name, position, address, date_of_birth, salary FROM employees WHERE id = ?`
	rawSelectEmployees = `SELECT id, first_name, last_name, position, address, date_of_birth, salary FROM employees`

	compiledEmployeeByID = "employees.byID"
	compiledEmployeeAll  = "employees.all"
)

// OrmRepository 是基于 XOrm 的员工数据访问实现。
//
// 默认的读取经由会话跟踪，同一会话内重复读取返回同一实例；
// 写入操作在提交前会清空会话，与读取的跟踪状态互不干扰。
// 会话在构造时传入，同一时刻只应被一个调用方使用。
type OrmRepository struct {
	session *XOrm.Session
	byID    *XOrm.Compiled // 按主键读取的编译查询
	all     *XOrm.Compiled // 列举全部的编译查询
}

var (
	_ IRepository       = (*OrmRepository)(nil)
	_ IRepositoryExtend = (*OrmRepository)(nil)
)

// NewOrmRepository 创建基于 XOrm 的实现。
func NewOrmRepository(session *XOrm.Session) *OrmRepository {
	return &OrmRepository{
		session: session,
		byID:    XOrm.Compile(recordAlias, compiledEmployeeByID, rawSelectEmployee),
		all:     XOrm.Compile(recordAlias, compiledEmployeeAll, rawSelectEmployees),
	}
}

// Session 返回仓储使用的会话。
func (r *OrmRepository) Session() *XOrm.Session { return r.session }

func (r *OrmRepository) AddEmployee(ctx context.Context, employee *Employee) error {
	r.session.Clear()
	if err := XOrm.Write(r.session, toRecord(employee)); err != nil {
		return fmt.Errorf("XEmployee.Orm.AddEmployee: %w", err)
	}
	return r.commit(ctx, "AddEmployee")
}

func (r *OrmRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	record, ok, err := XOrm.Read(ctx, r.session, newRecord(id))
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetEmployee: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return record.toEmployee()
}

func (r *OrmRepository) GetAllEmployees(ctx context.Context) ([]*Employee, error) {
	records, err := XOrm.List(ctx, r.session, newRecord())
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetAllEmployees: %w", err)
	}
	return toEmployees(records)
}

func (r *OrmRepository) GetFilterNames(ctx context.Context) ([]FullName, error) {
	cond := XOrm.Cond("date_of_birth >= {0} && salary < {1}", FilterBornFrom, FilterSalaryBelow).
		OrderBy("first_name").
		Select("first_name", "last_name")
	var records []*employeeRecord
	if _, err := newRecord().List(ctx, &records, cond); err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetFilterNames: %w", err)
	}
	names := make([]FullName, 0, len(records))
	for _, record := range records {
		names = append(names, FullName{FirstName: record.FirstName, LastName: record.LastName})
	}
	return names, nil
}

func (r *OrmRepository) UpdateEmployee(ctx context.Context, employee *Employee) error {
	r.session.Clear()
	if err := XOrm.Update(r.session, toRecord(employee)); err != nil {
		return fmt.Errorf("XEmployee.Orm.UpdateEmployee: %w", err)
	}
	return r.commit(ctx, "UpdateEmployee")
}

func (r *OrmRepository) DeleteEmployee(ctx context.Context, employee *Employee) error {
	if err := XOrm.Delete(r.session, newRecord(employee.ID)); err != nil {
		return fmt.Errorf("XEmployee.Orm.DeleteEmployee: %w", err)
	}
	return r.commit(ctx, "DeleteEmployee")
}

func (r *OrmRepository) GetEmployeeNoTracking(ctx context.Context, id uuid.UUID) (*Employee, error) {
	record := newRecord(id)
	ok, err := record.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetEmployeeNoTracking: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return record.toEmployee()
}

func (r *OrmRepository) GetAllEmployeesNoTracking(ctx context.Context) ([]*Employee, error) {
	var records []*employeeRecord
	if _, err := newRecord().List(ctx, &records); err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetAllEmployeesNoTracking: %w", err)
	}
	return toEmployees(records)
}

func (r *OrmRepository) GetEmployeeRaw(ctx context.Context, id uuid.UUID) (*Employee, error) {
	record, ok, err := XOrm.RawRead(ctx, newRecord(), rawSelectEmployee, id.String())
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetEmployeeRaw: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return record.toEmployee()
}

func (r *OrmRepository) GetAllEmployeesRaw(ctx context.Context) ([]*Employee, error) {
	records, err := XOrm.RawList(ctx, newRecord(), rawSelectEmployees)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetAllEmployeesRaw: %w", err)
	}
	return toEmployees(records)
}

func (r *OrmRepository) GetEmployeeCompiled(ctx context.Context, id uuid.UUID) (*Employee, error) {
	record, ok, err := XOrm.CompiledRead(ctx, r.byID, newRecord(), id.String())
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetEmployeeCompiled: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return record.toEmployee()
}

func (r *OrmRepository) GetAllEmployeesCompiled(ctx context.Context) ([]*Employee, error) {
	records, err := XOrm.CompiledList[*employeeRecord](ctx, r.all)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Orm.GetAllEmployeesCompiled: %w", err)
	}
	return toEmployees(records)
}

func (r *OrmRepository) ExecuteUpdateEmployee(ctx context.Context, employee *Employee) error {
	if _, err := newRecord().Modify(ctx, mutableParams(employee), XOrm.Cond("id == {0}", employee.ID.String())); err != nil {
		return fmt.Errorf("XEmployee.Orm.ExecuteUpdateEmployee: %w", err)
	}
	return nil
}

func (r *OrmRepository) ExecuteDeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if _, err := newRecord().Clear(ctx, XOrm.Cond("id == {0}", id.String())); err != nil {
		return fmt.Errorf("XEmployee.Orm.ExecuteDeleteEmployee: %w", err)
	}
	return nil
}

// commit 提交会话中的变更，失败时清空会话以免残留的变更影响后续调用。
func (r *OrmRepository) commit(ctx context.Context, action string) error {
	if _, err := r.session.Commit(ctx); err != nil {
		r.session.Clear()
		XLog.Warn("XEmployee.Orm.%v: session-%v has been cleared after failed commit.", action, r.session.ID())
		return fmt.Errorf("XEmployee.Orm.%v: %w", action, err)
	}
	return nil
}

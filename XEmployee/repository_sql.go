// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eframework-org/GO.BENCH/XSql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	sqlInsertEmployee = `INSERT INTO employees (id, first_name, last_name, position, address, date_of_birth, salary)
VALUES (:id, :first_name, :last_name, :position, :address, :date_of_birth, :salary)`

	sqlSelectEmployee = `SELECT id, first_name, last_name, position, address, date_of_birth, salary FROM employees WHERE id = ?`

	sqlSelectEmployees = `SELECT id, first_name, last_name, position, address, date_of_birth, salary FROM employees`

	sqlSelectFilterNames = `SELECT first_name, last_name FROM employees
WHERE date_of_birth >= ? AND salary < ?
ORDER BY first_name`

	sqlUpdateEmployee = `UPDATE employees SET first_name = :first_name, last_name = :last_name, position = :position,
address = :address, date_of_birth = :date_of_birth, salary = :salary
WHERE id = :id`

	sqlDeleteEmployee = `DELETE FROM employees WHERE id = ?`
)

// SqlRepository 是基于手写 SQL 的员工数据访问实现。
// 每次调用独占一个连接，并在所有路径上释放。
type SqlRepository struct {
	factory XSql.IFactory
}

var _ IRepository = (*SqlRepository)(nil)

// NewSqlRepository 创建基于手写 SQL 的实现。
func NewSqlRepository(factory XSql.IFactory) *SqlRepository {
	return &SqlRepository{factory: factory}
}

func (r *SqlRepository) AddEmployee(ctx context.Context, employee *Employee) error {
	return r.exec(ctx, "AddEmployee", sqlInsertEmployee, employee)
}

func (r *SqlRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	conn, err := r.factory.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Sql.GetEmployee: %w", err)
	}
	defer conn.Close()

	employee := &Employee{}
	if err := conn.GetContext(ctx, employee, conn.Rebind(sqlSelectEmployee), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("XEmployee.Sql.GetEmployee: %w", err)
	}
	employee.DateOfBirth = employee.DateOfBirth.UTC()
	return employee, nil
}

func (r *SqlRepository) GetAllEmployees(ctx context.Context) ([]*Employee, error) {
	conn, err := r.factory.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Sql.GetAllEmployees: %w", err)
	}
	defer conn.Close()

	employees := []*Employee{}
	if err := conn.SelectContext(ctx, &employees, sqlSelectEmployees); err != nil {
		return nil, fmt.Errorf("XEmployee.Sql.GetAllEmployees: %w", err)
	}
	for _, employee := range employees {
		employee.DateOfBirth = employee.DateOfBirth.UTC()
	}
	return employees, nil
}

func (r *SqlRepository) GetFilterNames(ctx context.Context) ([]FullName, error) {
	conn, err := r.factory.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Sql.GetFilterNames: %w", err)
	}
	defer conn.Close()

	names := []FullName{}
	if err := conn.SelectContext(ctx, &names, conn.Rebind(sqlSelectFilterNames), FilterBornFrom, FilterSalaryBelow); err != nil {
		return nil, fmt.Errorf("XEmployee.Sql.GetFilterNames: %w", err)
	}
	return names, nil
}

func (r *SqlRepository) UpdateEmployee(ctx context.Context, employee *Employee) error {
	return r.exec(ctx, "UpdateEmployee", sqlUpdateEmployee, employee)
}

func (r *SqlRepository) DeleteEmployee(ctx context.Context, employee *Employee) error {
	conn, err := r.factory.Open(ctx)
	if err != nil {
		return fmt.Errorf("XEmployee.Sql.DeleteEmployee: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, conn.Rebind(sqlDeleteEmployee), employee.ID); err != nil {
		return fmt.Errorf("XEmployee.Sql.DeleteEmployee: %w", err)
	}
	return nil
}

// exec 以命名参数执行写入语句，出生日期以日期形式写入。
func (r *SqlRepository) exec(ctx context.Context, action, query string, employee *Employee) error {
	conn, err := r.factory.Open(ctx)
	if err != nil {
		return fmt.Errorf("XEmployee.Sql.%v: %w", action, err)
	}
	defer conn.Close()

	n := normalize(employee)
	bound, args, err := sqlx.Named(query, &n)
	if err != nil {
		return fmt.Errorf("XEmployee.Sql.%v: %w", action, err)
	}
	if _, err := conn.ExecContext(ctx, conn.Rebind(bound), args...); err != nil {
		return fmt.Errorf("XEmployee.Sql.%v: %w", action, err)
	}
	return nil
}

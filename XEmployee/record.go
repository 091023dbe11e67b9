// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"fmt"
	"time"

	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.UTIL/XObject"
	"github.com/google/uuid"
)

// recordAlias 是员工模型的数据库别名，由 Register 设置。
var recordAlias = "default"

// employeeRecord 是员工记录的 ORM 模型。
type employeeRecord struct {
	XOrm.Model[employeeRecord] `orm:"-" json:"-" db:"-"`
	ID                         string    `orm:"column(id);pk;size(36)" db:"id"`
	FirstName                  string    `orm:"column(first_name);size(100)" db:"first_name"`
	LastName                   string    `orm:"column(last_name);size(100)" db:"last_name"`
	Position                   string    `orm:"column(position);size(100)" db:"position"`
	Address                    string    `orm:"column(address);size(255)" db:"address"`
	DateOfBirth                time.Time `orm:"column(date_of_birth);type(datetime)" db:"date_of_birth"`
	Salary                     float64   `orm:"column(salary)" db:"salary"`
}

func (r *employeeRecord) AliasName() string { return recordAlias }

func (r *employeeRecord) TableName() string { return TableName }

// OnEncode 写入前将出生日期归一化为日期。
func (r *employeeRecord) OnEncode() { r.DateOfBirth = DateOnly(r.DateOfBirth) }

// OnDecode 读取后将出生日期转换为 UTC。
func (r *employeeRecord) OnDecode() { r.DateOfBirth = r.DateOfBirth.UTC() }

func newRecord(id ...uuid.UUID) *employeeRecord {
	r := XObject.New[employeeRecord]()
	if len(id) > 0 {
		r.ID = id[0].String()
	}
	return r
}

// toRecord 将员工记录转换为 ORM 模型。
func toRecord(e *Employee) *employeeRecord {
	n := normalize(e)
	r := newRecord(n.ID)
	r.FirstName = n.FirstName
	r.LastName = n.LastName
	r.Position = n.Position
	r.Address = n.Address
	r.DateOfBirth = n.DateOfBirth
	r.Salary = n.Salary
	return r
}

// toEmployee 将 ORM 模型转换为员工记录。
func (r *employeeRecord) toEmployee() (*Employee, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id %q: %w", r.ID, err)
	}
	return &Employee{
		ID:          id,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Position:    r.Position,
		Address:     r.Address,
		DateOfBirth: r.DateOfBirth.UTC(),
		Salary:      r.Salary,
	}, nil
}

// toEmployees 批量转换 ORM 模型。
func toEmployees(records []*employeeRecord) ([]*Employee, error) {
	employees := make([]*Employee, 0, len(records))
	for _, r := range records {
		e, err := r.toEmployee()
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// mutableParams 返回集合更新的列值映射。
func mutableParams(e *Employee) XOrm.Params {
	n := normalize(e)
	return XOrm.Params{
		"first_name":    n.FirstName,
		"last_name":     n.LastName,
		"position":      n.Position,
		"address":       n.Address,
		"date_of_birth": n.DateOfBirth,
		"salary":        n.Salary,
	}
}

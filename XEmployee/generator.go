// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XEmployee

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/google/uuid"
	"github.com/jaswdr/faker"
)

var (
	// SharedEmployeeID 是共享员工的主键，读取与更新用例以其为目标。
	SharedEmployeeID = uuid.MustParse("eb2a337e-7a1d-4495-aa95-2d54d2c6c65a")

	// AddDeleteEmployeeID 是新增删除用例使用的主键。
	AddDeleteEmployeeID = uuid.MustParse("f88b2138-1b7d-485b-862d-85ea629cf31c")
)

const (
	// DefaultSeed 是数据生成的默认种子。
	DefaultSeed int64 = 1100

	// DefaultCount 是数据生成的默认数量。
	DefaultCount = 1000
)

// SharedEmployee 返回共享员工的新实例，出生日期为当天。
func SharedEmployee() *Employee {
	return &Employee{
		ID:          SharedEmployeeID,
		FirstName:   "FirstName",
		LastName:    "LastName",
		Position:    "Position",
		Address:     "Address",
		DateOfBirth: DateOnly(time.Now()),
		Salary:      1000,
	}
}

// Generator 根据种子生成员工数据，相同的种子和参考时间生成相同的数据。
type Generator struct {
	session   *XOrm.Session
	seed      int64
	now       time.Time
	generated []uuid.UUID
}

// NewGenerator 创建数据生成器，写入经由 session 提交。
func NewGenerator(session *XOrm.Session, seed int64) *Generator {
	return &Generator{session: session, seed: seed, now: DateOnly(time.Now())}
}

// At 设置计算出生日期的参考时间。
func (g *Generator) At(now time.Time) *Generator {
	g.now = DateOnly(now)
	return g
}

// Seed 返回生成器的种子。
func (g *Generator) Seed() int64 { return g.seed }

// Employees 返回 count 条随机员工，不访问数据库。
func (g *Generator) Employees(count int) []*Employee {
	fake := faker.NewWithSeed(rand.NewSource(g.seed))
	ids := rand.New(rand.NewSource(g.seed))
	employees := make([]*Employee, 0, count)
	for i := 0; i < count; i++ {
		id, err := uuid.NewRandomFromReader(ids)
		if err != nil {
			XLog.Panic("XEmployee.Generator: generate id failed: %v", err)
		}
		person := fake.Person()
		employees = append(employees, &Employee{
			ID:          id,
			FirstName:   person.FirstName(),
			LastName:    person.LastName(),
			Position:    fake.Company().JobTitle(),
			Address:     fake.Address().Address(),
			DateOfBirth: g.now.AddDate(0, 0, -fake.IntBetween(18*365, 65*365)),
			Salary:      fake.Float64(2, 1200, 3000),
		})
	}
	return employees
}

// Generate 生成 count 条随机员工及共享员工，并在一次提交中写入数据库。
func (g *Generator) Generate(ctx context.Context, count int) ([]*Employee, error) {
	employees := g.Employees(count)

	g.session.Clear()
	defer g.session.Clear()
	for _, employee := range employees {
		if err := XOrm.Write(g.session, toRecord(employee)); err != nil {
			return nil, fmt.Errorf("XEmployee.Generator.Generate: %w", err)
		}
	}
	if err := XOrm.Write(g.session, toRecord(SharedEmployee())); err != nil {
		return nil, fmt.Errorf("XEmployee.Generator.Generate: %w", err)
	}
	written, err := g.session.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("XEmployee.Generator.Generate: %w", err)
	}

	g.generated = g.generated[:0]
	for _, employee := range employees {
		g.generated = append(g.generated, employee.ID)
	}
	XLog.Notice("XEmployee.Generator.Generate: %v employee(s) have been written with seed %v.", written, g.seed)
	return employees, nil
}

// Purge 删除以当前种子生成 count 条员工时会写入的记录，用于清理中断后残留的数据。
func (g *Generator) Purge(ctx context.Context, count int) error {
	g.generated = g.generated[:0]
	for _, employee := range g.Employees(count) {
		g.generated = append(g.generated, employee.ID)
	}
	return g.Cleanup(ctx)
}

// Cleanup 删除生成的员工、共享员工及新增删除用例可能残留的员工。
func (g *Generator) Cleanup(ctx context.Context) error {
	g.session.Clear()
	defer g.session.Clear()

	ids := append(append([]uuid.UUID{}, g.generated...), SharedEmployeeID, AddDeleteEmployeeID)
	for _, id := range ids {
		if err := XOrm.Delete(g.session, newRecord(id)); err != nil {
			return fmt.Errorf("XEmployee.Generator.Cleanup: %w", err)
		}
	}
	removed, err := g.session.Commit(ctx)
	if err != nil {
		return fmt.Errorf("XEmployee.Generator.Cleanup: %w", err)
	}
	g.generated = g.generated[:0]
	XLog.Notice("XEmployee.Generator.Cleanup: %v employee(s) have been removed.", removed)
	return nil
}

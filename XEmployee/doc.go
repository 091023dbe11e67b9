// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
XEmployee 定义了员工记录的数据访问契约，并提供手写 SQL 和 ORM 两种实现，用于对比数据访问方式的性能。

功能特性

  - 访问契约：IRepository 定义了新增、读取、列举、筛选、更新和删除六个操作
  - 手写 SQL：SqlRepository 通过 sqlx 执行参数化语句，每次调用独占一个连接
  - ORM 实现：OrmRepository 基于 XOrm 会话，并通过 IRepositoryExtend 提供不跟踪、原生、编译及集合操作
  - 数据生成：Generator 根据种子生成确定的员工数据

使用手册

1. 注册模型

	XOrm.Register("MySQL", "default", "root:123456@tcp(127.0.0.1:3306)/bench?parseTime=true", 10, 100)
	XEmployee.Register("default")
	XEmployee.Sync()

2. 创建实现

	factory, _ := XSql.New(ctx, "mysql", "root:123456@tcp(127.0.0.1:3306)/bench?parseTime=true")
	sqlRepo := XEmployee.NewSqlRepository(factory)

	session := XOrm.NewSession()
	defer session.Close()
	ormRepo := XEmployee.NewOrmRepository(session)

3. 访问数据

	employee, err := sqlRepo.GetEmployee(ctx, XEmployee.SharedEmployeeID)
	if employee == nil && err == nil {
		// 记录不存在
	}

两种实现对相同的操作序列返回相同的结果：未找到记录时返回 nil 而不是错误，
更新或删除不存在的记录视为成功，出生日期只保留日期部分。

MySQL 的连接地址需要包含 parseTime=true 以便将日期列映射为 time.Time。
*/
package XEmployee

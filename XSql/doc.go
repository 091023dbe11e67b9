// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
XSql 提供了基于 sqlx 的连接工厂，每次调用获取一个独占的连接，用完即还。

功能特性

  - 快速失败：创建时检查驱动是否注册及数据源是否可达
  - 独占连接：Open 返回 *sqlx.Conn，由调用方关闭
  - 统计指标：连接获取次数及耗时

使用手册

	factory, err := XSql.New(ctx, "mysql", "root:123456@tcp(127.0.0.1:3306)/bench?parseTime=true&loc=UTC")
	if err != nil {
	    return err
	}
	defer factory.Close()

	conn, err := factory.Open(ctx)
	if err != nil {
	    return err
	}
	defer conn.Close()
	err = conn.GetContext(ctx, &employee, conn.Rebind("SELECT * FROM employees WHERE id = ?"), id)
*/
package XSql

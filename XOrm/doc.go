// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
XOrm 拓展了 Beego 的 ORM 功能，提供了基于会话的变更跟踪、原生查询、编译查询及集合操作。

功能特性

  - 多源配置：通过解析首选项中的配置注册数据库连接
  - 数据模型：提供了面向对象的模型设计及不跟踪的数据操作
  - 会话跟踪：身份映射与快照对比，Commit 时在事务中写入变更
  - 原生查询：执行原生 SQL 并映射至数据模型
  - 编译查询：进程内预处理一次并复用的查询语句
  - 集合操作：按条件批量更新或删除，不加载实体

使用手册

1. 多源配置

配置说明：
  - 配置键名：Orm/Source/<数据库类型>/<数据库别名>
  - 支持 MySQL、PostgreSQL、SQLite3 等（Beego ORM 支持的类型）
  - 配置参数：
  - Addr：数据源地址
  - Pool：空闲连接数
  - Conn：最大连接数

配置示例：

	{
	    "Orm/Source/MySQL/default": {
	        "Addr": "root:123456@tcp(127.0.0.1:3306)/bench?charset=utf8mb4&parseTime=true&loc=UTC",
	        "Pool": 8,
	        "Conn": 32
	    }
	}

调用 XOrm.Setup(prefs) 注册数据源，XOrm.Sync(alias) 根据已注册的模型创建缺失的数据表。
模型必须在首次访问数据库之前通过 XOrm.Meta 注册。

2. 数据模型

2.1 模型定义

	type User struct {
	    XOrm.Model[User] `orm:"-" db:"-"`
	    ID   string `orm:"column(id);pk;size(36)" db:"id"`
	    Name string `orm:"column(name)" db:"name"`
	}

	func (u *User) TableName() string { return "user" }

	func NewUser() *User { return XObject.New[User]() }

	XOrm.Meta(NewUser(), true)

2.2 不跟踪的操作

	ok, err := user.Read(ctx)                                  // 按主键读取
	n, err := user.List(ctx, &users, XOrm.Cond("name == {0}", "a"))
	n, err := user.Modify(ctx, XOrm.Params{"name": "b"}, XOrm.Cond("id == {0}", id))
	n, err := user.Clear(ctx, XOrm.Cond("id == {0}", id))

3. 会话跟踪

	session := XOrm.NewSession()
	defer session.Close()

	user, ok, err := XOrm.Read(ctx, session, user)  // 读取并跟踪
	user.Name = "c"                                 // 直接修改跟踪的实例
	XOrm.Write(session, NewUser())                  // 新建
	XOrm.Delete(session, other)                     // 删除
	n, err := session.Commit(ctx)                   // 事务提交

同一会话中相同主键的记录总是解析为同一个实例；Commit 仅写入与快照不一致的记录。

4. 原生查询及编译查询

	user, ok, err := XOrm.RawRead(ctx, NewUser(), "SELECT * FROM user WHERE id = ?", id)

	var byID = XOrm.Compile("default", "user.byID", "SELECT * FROM user WHERE id = ?")
	user, ok, err := XOrm.CompiledRead(ctx, byID, NewUser(), id)

编译查询的语句使用 ? 占位，执行前会按驱动类型转换占位符。

5. 条件表达式

	XOrm.Cond("age > {0} && (name contains {1} || ! level == {2}) && limit {3}", 18, "a", 1, 10)

支持的操作符：>、>=、<、<=、==、!=、contains、startswith、endswith、isnull。

6. 统计指标

XOrm.Metrics().Collectors() 返回操作次数及耗时的 prometheus 指标。
*/
package XOrm

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkOrm 比较会话查询、不跟踪查询、原生查询及编译查询的性能。
// 多核测试可以使用命令 go test -run=^$ -bench=^BenchmarkOrm$ -benchmem -cpu=1,2,4,8
func BenchmarkOrm(b *testing.B) {
	defer Reset()
	ctx := context.Background()

	for _, count := range []int{1000} {
		ClearBaseTest(b)
		WriteBaseTest(b, count)

		byID := Compile(TestAliasName, "bench.byID", "SELECT * FROM xorm_test WHERE id = ?")
		all := Compile(TestAliasName, "bench.all", "SELECT * FROM xorm_test")

		b.Run(fmt.Sprintf("XOrm.Read/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				session := NewSession()
				Read(ctx, session, NewTestBaseModel("id-000"))
			}
		})

		b.Run(fmt.Sprintf("XOrm.Model.Read/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				NewTestBaseModel("id-000").Read(ctx)
			}
		})

		b.Run(fmt.Sprintf("XOrm.RawRead/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				RawRead(ctx, NewTestBaseModel(), "SELECT * FROM xorm_test WHERE id = ?", "id-000")
			}
		})

		b.Run(fmt.Sprintf("XOrm.CompiledRead/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				CompiledRead(ctx, byID, NewTestBaseModel(), "id-000")
			}
		})

		b.Run(fmt.Sprintf("XOrm.List/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				session := NewSession()
				List(ctx, session, NewTestBaseModel())
			}
		})

		b.Run(fmt.Sprintf("XOrm.Model.List/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				var rets []*TestBaseModel
				NewTestBaseModel().List(ctx, &rets)
			}
		})

		b.Run(fmt.Sprintf("XOrm.CompiledList/%d", count), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				CompiledList[*TestBaseModel](ctx, all)
			}
		})
	}
}

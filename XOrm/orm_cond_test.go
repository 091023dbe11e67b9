// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/beego/beego/v2/client/orm"
	"github.com/stretchr/testify/assert"
)

func TestOrmCond(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		tests := []struct {
			name string
			args []any
		}{
			{
				name: "Empty",
				args: []any{},
			},
			{
				name: "Existing",
				args: []any{orm.NewCondition()},
			},
			{
				name: "Expression",
				args: []any{"name == {0}", "test"},
			},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				wg := sync.WaitGroup{}
				for range 100 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						cond := Cond(test.args...)
						assert.NotNil(t, cond, "创建的表达式实例应当不为空。")
						assert.NotNil(t, cond.Base, "创建的表达式实例 Base 应当不为空。")
					}()
				}
				wg.Wait()
			})
		}
	})

	t.Run("Tokenize", func(t *testing.T) {
		tokens := tokenizeExpr("a > {0} && !(b == {1} || c isnull {2})")
		assert.Equal(t, []string{"a", ">", "{0}", "&&", "!", "(", "b", "==", "{1}", "||", "c", "isnull", "{2}", ")"}, tokens)
	})

	t.Run("Paging", func(t *testing.T) {
		cond := Cond("score > {0} && limit {1} && offset {2}", 1, 10, 20)
		assert.Equal(t, 10, cond.Limit)
		assert.Equal(t, 20, cond.Offset)
		assert.False(t, cond.Base.IsEmpty())

		cond = Cond("limit {0}", 5)
		assert.Equal(t, 5, cond.Limit)
		assert.True(t, cond.Base.IsEmpty(), "仅包含分页的表达式不应当生成过滤条件。")
	})

	t.Run("Panic", func(t *testing.T) {
		tests := []struct {
			name string
			args []any
		}{
			{"Count", []any{"a == {0} && b == {1}", 1}},
			{"Operator", []any{"a ~= {0}", 1}},
			{"Placeholder", []any{"a == b{0}", 1}},
			{"Index", []any{"a == {1}", 1}},
			{"Unclosed", []any{"(a == {0}", 1}},
			{"Unopened", []any{"a == {0})", 1}},
			{"Limit", []any{"limit {0}", "ten"}},
			{"Type", []any{123}},
		}
		for _, test := range tests {
			assert.Panics(t, func() { Cond(test.args...) }, "非法的表达式应当触发 panic：%v", test.name)
		}
	})

	t.Run("Query", func(t *testing.T) {
		ctx := context.Background()
		ClearBaseTest(t)
		WriteBaseTest(t, 10) // score 0..9，name-0/1/2 循环，birth 1980..1989

		tests := []struct {
			name  string
			cond  *Condition
			count int
		}{
			{"And", Cond("score >= {0} && score < {1}", 2, 5), 3},
			{"Or", Cond("score == {0} || score == {1}", 1, 8), 2},
			{"Not", Cond("! name == {0}", "name-0"), 6},
			{"Group", Cond("(score < {0} || score > {1}) && name == {2}", 3, 7, "name-0"), 2},
			{"NotGroup", Cond("score < {0} && !(name == {1} || name == {2})", 6, "name-0", "name-1"), 2},
			{"OrNotGroup", Cond("score == {0} || !(score >= {1})", 9, 2), 3},
			{"Contains", Cond("name contains {0}", "-2"), 3},
			{"StartsWith", Cond("id startswith {0}", "id-00"), 10},
			{"EndsWith", Cond("id endswith {0}", "9"), 1},
			{"Time", Cond("birth >= {0} && score != {1}", time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC), 9), 4},
			{"IsNull", Cond("name isnull {0}", false), 10},
			{"Existing", Cond(orm.NewCondition().And("score__in", 1, 2, 3)), 3},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				count, err := NewTestBaseModel().Count(ctx, test.cond)
				assert.NoError(t, err)
				assert.Equal(t, test.count, count, "条件查询的记录数量应当一致。")
			})
		}
	})
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XObject"
)

// Condition 表示一个查询条件，包含基础条件、排序、投影和分页信息。
type Condition struct {
	Base    *orm.Condition // 基础条件
	Limit   int            // 分页限制
	Offset  int            // 分页偏移
	Orders  []string       // 排序表达式，如 first_name、-salary
	Columns []string       // 投影列，为空时读取全部列
}

// Ctor 初始化条件
func (c *Condition) Ctor(obj any) {
	c.Base = orm.NewCondition()
}

// Cond 创建新的条件
//
// 用法:
// 1. Cond() - 创建空条件
// 2. Cond(existingCond *orm.Condition) - 从现有条件创建
// 3. Cond("a > {0} && b == {1}", 1, 2) - 从表达式和参数创建
//
// 表达式支持 &&、||、! 及括号分组，limit 和 offset 作为分页关键字。
// 表达式或参数不合法时会触发 panic。
func Cond(condOrExprAndArgs ...any) *Condition {
	c := XObject.New[Condition]()
	if len(condOrExprAndArgs) == 0 {
		return c
	}

	if cond, ok := condOrExprAndArgs[0].(*orm.Condition); ok {
		if cond != nil {
			c.Base = cond
		}
		return c
	}

	if expr, ok := condOrExprAndArgs[0].(string); ok {
		if strings.TrimSpace(expr) == "" {
			return c
		}
		args := condOrExprAndArgs[1:]
		if count := strings.Count(expr, "{"); count != len(args) {
			panic(fmt.Sprintf("XOrm.Cond('%v'): args count doesn't comply with format count.", expr))
		}
		parser := &condParser{root: c, expr: expr, tokens: tokenizeExpr(expr), args: args}
		c.Base = parser.parseGroup(0)
		return c
	}

	panic(fmt.Sprintf("XOrm.Cond: invalid arguments type: %T", condOrExprAndArgs[0]))
}

// OrderBy 设置排序表达式，前缀 - 表示降序。
func (c *Condition) OrderBy(exprs ...string) *Condition {
	c.Orders = append(c.Orders, exprs...)
	return c
}

// Select 设置投影列。
func (c *Condition) Select(cols ...string) *Condition {
	c.Columns = append(c.Columns, cols...)
	return c
}

// apply 将排序和分页应用至查询。
func (c *Condition) apply(query orm.QuerySeter) orm.QuerySeter {
	if c == nil {
		return query
	}
	if len(c.Orders) > 0 {
		query = query.OrderBy(c.Orders...)
	}
	if c.Limit > 0 {
		query = query.Limit(c.Limit)
	}
	if c.Offset > 0 {
		query = query.Offset(c.Offset)
	}
	return query
}

var operatorMap = map[string]string{
	">":          "__gt",
	">=":         "__gte",
	"<":          "__lt",
	"<=":         "__lte",
	"==":         "__exact",
	"!=":         "__ne",
	"contains":   "__contains",
	"startswith": "__startswith",
	"endswith":   "__endswith",
	"isnull":     "__isnull",
}

// exprTokenCache 缓存表达式的分词结果，键为原始表达式。
var exprTokenCache sync.Map

// tokenizeExpr 对表达式进行分词，括号作为独立的词。
func tokenizeExpr(expr string) []string {
	if cached, ok := exprTokenCache.Load(expr); ok {
		return cached.([]string)
	}
	tokens := make([]string, 0, 8)
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, expr[start:end])
			start = -1
		}
	}
	for i, ch := range expr {
		switch ch {
		case ' ', '\t', '\n', '\r':
			flush(i)
		case '(', ')':
			flush(i)
			tokens = append(tokens, string(ch))
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(expr))
	exprTokenCache.Store(expr, tokens)
	return tokens
}

// condParser 是表达式的递归下降解析器。
type condParser struct {
	root   *Condition // 根条件
	expr   string     // 原始表达式
	tokens []string   // 分词结果
	pos    int        // 当前位置
	args   []any      // 参数列表
}

// parseGroup 解析一个括号分组，depth 为 0 时表示顶层。
func (p *condParser) parseGroup(depth int) *orm.Condition {
	cond := orm.NewCondition()
	or, not := false, false
	for p.pos < len(p.tokens) {
		token := p.tokens[p.pos]
		switch token {
		case ")":
			if depth == 0 {
				panic(fmt.Sprintf("XOrm.Cond('%v'): unbalanced parentheses.", p.expr))
			}
			p.pos++
			return cond
		case "&&":
			or = false
			p.pos++
		case "||":
			or = true
			p.pos++
		case "!":
			not = !not
			p.pos++
		case "(":
			p.pos++
			sub := p.parseGroup(depth + 1)
			if !sub.IsEmpty() {
				cond = joinCond(cond, sub, or, not)
			}
			or, not = false, false
		default:
			if key, value, ok := p.parseOperand(); ok {
				switch {
				case or && not:
					cond = cond.OrNot(key, value)
				case or:
					cond = cond.Or(key, value)
				case not:
					cond = cond.AndNot(key, value)
				default:
					cond = cond.And(key, value)
				}
			}
			or, not = false, false
		}
	}
	if depth > 0 {
		panic(fmt.Sprintf("XOrm.Cond('%v'): unbalanced parentheses.", p.expr))
	}
	return cond
}

// parseOperand 解析 "key op {n}" 或 "limit {n}" 形式的操作数。
// 分页关键字会写入根条件，此时返回 ok 为 false。
func (p *condParser) parseOperand() (key string, value any, ok bool) {
	key = p.tokens[p.pos]
	p.pos++
	if key == "limit" || key == "offset" {
		n, isInt := p.parseValue().(int)
		if !isInt {
			panic(fmt.Sprintf("XOrm.Cond('%v'): %v requires an int value.", p.expr, key))
		}
		if key == "limit" {
			p.root.Limit = n
		} else {
			p.root.Offset = n
		}
		return "", nil, false
	}
	if p.pos >= len(p.tokens) {
		panic(fmt.Sprintf("XOrm.Cond('%v'): missing operator after %v.", p.expr, key))
	}
	op, exist := operatorMap[p.tokens[p.pos]]
	if !exist {
		panic(fmt.Sprintf("XOrm.Cond('%v'): unknown operator %v.", p.expr, p.tokens[p.pos]))
	}
	p.pos++
	return key + op, p.parseValue(), true
}

// parseValue 解析 {n} 形式的参数占位。
func (p *condParser) parseValue() any {
	if p.pos >= len(p.tokens) {
		panic(fmt.Sprintf("XOrm.Cond('%v'): missing value placeholder.", p.expr))
	}
	token := p.tokens[p.pos]
	p.pos++
	if !strings.HasPrefix(token, "{") || !strings.HasSuffix(token, "}") {
		panic(fmt.Sprintf("XOrm.Cond('%v'): invalid value placeholder %v.", p.expr, token))
	}
	index, err := strconv.Atoi(token[1 : len(token)-1])
	if err != nil || index < 0 || index >= len(p.args) {
		panic(fmt.Sprintf("XOrm.Cond('%v'): invalid value index %v.", p.expr, token))
	}
	return p.args[index]
}

// joinCond 以指定的逻辑关系合并子条件。
func joinCond(cond, sub *orm.Condition, or, not bool) *orm.Condition {
	switch {
	case or && not:
		return cond.OrNotCond(sub)
	case or:
		return cond.OrCond(sub)
	case not:
		return cond.AndNotCond(sub)
	default:
		return cond.AndCond(sub)
	}
}

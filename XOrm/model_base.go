// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XObject"
	"github.com/eframework-org/GO.UTIL/XString"
	"github.com/eframework-org/GO.UTIL/XTime"
)

// Params 是集合更新时的列值映射，键为列名。
type Params = orm.Params

// IModel 定义了数据模型的基础接口。
// 实现此接口的类型可以参与会话跟踪、原生查询及编译查询。
type IModel interface {
	// Ctor 执行模型的构造初始化。
	// obj 为模型实例，必须是实现了 IModel 接口的结构体指针。
	Ctor(obj any)

	// OnEncode 在对象写入前调用。
	OnEncode()

	// OnDecode 在对象读取后调用。
	OnDecode()

	// OnQuery 在执行查询时调用，用于追加全局条件。
	// action 是查询的类型，包括：Count、Read、List、Modify、Clear。
	// cond 是查询的条件，传入的值可能为空。
	OnQuery(action string, cond *orm.Condition) *orm.Condition

	// AliasName 返回数据库别名。
	AliasName() string

	// TableName 返回数据表名称。
	TableName() string

	// ModelUnique 返回模型的唯一标识，格式为 "数据库别名_表名"。
	ModelUnique() string

	// DataUnique 返回数据记录的唯一标识，格式为 "模型标识_主键值"。
	// 会话使用此标识解析同一条记录的实例。
	DataUnique() string

	// DataValue 获取指定字段的值，若字段不存在则返回 nil。
	DataValue(field string) any

	// Count 统计符合条件的记录数量。
	Count(ctx context.Context, cond ...*Condition) (int, error)

	// Read 读取符合条件的记录，不进行会话跟踪。
	// cond 为可选的查询条件，若不指定则使用主键作为查询条件。
	// 返回是否读取到记录。
	Read(ctx context.Context, cond ...*Condition) (bool, error)

	// List 查询符合条件的记录列表，不进行会话跟踪。
	// rets 必须是指向切片的指针。
	List(ctx context.Context, rets any, cond ...*Condition) (int, error)

	// Modify 按条件批量更新记录，不加载实体。
	// 返回受影响的行数。
	Modify(ctx context.Context, params Params, cond ...*Condition) (int, error)

	// Clear 按条件批量删除记录，若不指定条件则清理所有记录。
	// 返回受影响的行数。
	Clear(ctx context.Context, cond ...*Condition) (int, error)

	// IsValid 检查或设置对象的有效性。
	IsValid(value ...bool) bool

	// Clone 创建对象的拷贝。
	Clone() IModel

	// Json 将对象转换为 JSON 字符串。
	Json() string

	// Equals 比较两个对象的所有数据库字段是否相等。
	Equals(model IModel) bool
}

// Model 实现了 IModel 接口的基础模型。
// T 为具体的模型类型，必须是结构体类型。
// 所有的具体模型类型都应该以 `orm:"-" db:"-"` 嵌入此类型。
type Model[T any] struct {
	this        IModel // 模型实例
	modelUnique string // 模型标识
	isValid     bool   // 有效标志
}

// Ctor 初始化模型实例。
func (md *Model[T]) Ctor(obj any) {
	md.this = obj.(IModel)
	md.modelUnique = ""
	md.isValid = false
}

func (md *Model[T]) OnEncode() {}

func (md *Model[T]) OnDecode() {}

func (md *Model[T]) OnQuery(action string, cond *orm.Condition) *orm.Condition { return cond }

// AliasName 返回数据库别名，默认为 default。
func (md *Model[T]) AliasName() string { return "default" }

// TableName 返回数据表名称。
// 此方法需要被子类重写，默认会触发 panic。
func (md *Model[T]) TableName() string { XLog.Panic("Table name is nil."); return "" }

func (md *Model[T]) ModelUnique() string {
	if XString.IsEmpty(md.modelUnique) {
		md.modelUnique = fmt.Sprintf("%v_%v", md.this.AliasName(), md.this.TableName())
	}
	return md.modelUnique
}

// DataUnique 返回数据记录的唯一标识。
// 主键在对象生命周期中可能被赋值，故每次实时计算。
func (md *Model[T]) DataUnique() string {
	meta := getModelMeta(md.this)
	if meta == nil {
		XLog.Error("XOrm.Model.DataUnique(%v): model meta is nil.", md.this.ModelUnique())
		return ""
	}
	return fmt.Sprintf("%v_%v", md.this.ModelUnique(), md.this.DataValue(meta.pk.name))
}

func (md *Model[T]) DataValue(field string) any {
	fld := reflect.ValueOf(md.this).Elem().FieldByName(field)
	if fld.IsValid() {
		return fld.Interface()
	}
	return nil
}

// query 创建指定动作的查询，并应用条件。
func (md *Model[T]) query(action string, cond ...*Condition) (orm.QuerySeter, *Condition, error) {
	ormer, err := newOrmer(md.this.AliasName())
	if err != nil {
		return nil, nil, err
	}
	query := ormer.QueryTable(md.this)
	var cond0 *Condition
	if len(cond) > 0 && cond[0] != nil {
		cond0 = cond[0]
	}
	var base *orm.Condition
	if cond0 != nil {
		base = cond0.Base
	}
	if base = md.this.OnQuery(action, base); base != nil && !base.IsEmpty() {
		query = query.SetCond(base)
	}
	return query, cond0, nil
}

func (md *Model[T]) Count(ctx context.Context, cond ...*Condition) (count int, err error) {
	defer Metrics().observe("count", XTime.GetMicrosecond(), &err)
	query, _, err := md.query("Count", cond...)
	if err != nil {
		return -1, err
	}
	n, err := query.CountWithCtx(ctx)
	if err != nil {
		XLog.Warn("XOrm.Model.Count(%v): %v", md.this.TableName(), err)
		return -1, err
	}
	return int(n), nil
}

// Read 读取符合条件的记录。
// 读取成功后会调用 OnDecode 进行解码处理，未找到记录时返回 false 且不返回错误。
func (md *Model[T]) Read(ctx context.Context, cond ...*Condition) (ok bool, err error) {
	defer Metrics().observe("read", XTime.GetMicrosecond(), &err)
	if len(cond) == 0 || cond[0] == nil {
		meta := getModelMeta(md.this)
		if meta == nil {
			return false, fmt.Errorf("XOrm.Model.Read(%v): %w", md.this.ModelUnique(), ErrNotRegistered)
		}
		cond = []*Condition{Cond(fmt.Sprintf("%v == {0}", meta.pk.column), md.this.DataValue(meta.pk.name))}
	}
	query, cond0, err := md.query("Read", cond...)
	if err != nil {
		return false, err
	}
	query = cond0.apply(query)
	that := md.this // OneWithCtx 会重置整个对象，所以需要暂存指针
	err = query.OneWithCtx(ctx, that, cond0.Columns...)
	md.this = that
	if err != nil {
		if errors.Is(err, orm.ErrNoRows) {
			md.isValid = false
			return false, nil
		}
		XLog.Warn("XOrm.Model.Read(%v): %v", md.this.TableName(), err)
		return false, err
	}
	md.this.OnDecode()
	md.isValid = true
	return true, nil
}

// List 查询符合条件的记录列表。
// 每个元素都会被构造、解码并标记为有效。
func (md *Model[T]) List(ctx context.Context, rets any, cond ...*Condition) (count int, err error) {
	defer Metrics().observe("list", XTime.GetMicrosecond(), &err)
	val := reflect.ValueOf(rets)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Slice {
		return -1, fmt.Errorf("XOrm.Model.List(%v): rets must be a pointer to a slice", md.this.TableName())
	}
	query, cond0, err := md.query("List", cond...)
	if err != nil {
		return -1, err
	}
	var cols []string
	if cond0 != nil {
		query = cond0.apply(query)
		cols = cond0.Columns
	}
	n, err := query.AllWithCtx(ctx, rets, cols...)
	if err != nil && !errors.Is(err, orm.ErrNoRows) {
		XLog.Warn("XOrm.Model.List(%v): %v", md.this.TableName(), err)
		return -1, err
	}
	decodeSlice(val.Elem())
	return int(n), nil
}

// Modify 按条件批量更新记录。
// 若不指定条件则更新所有记录。
func (md *Model[T]) Modify(ctx context.Context, params Params, cond ...*Condition) (count int, err error) {
	defer Metrics().observe("modify", XTime.GetMicrosecond(), &err)
	if len(params) == 0 {
		return 0, nil
	}
	query, _, err := md.query("Modify", md.fullCond(cond...))
	if err != nil {
		return -1, err
	}
	n, err := query.UpdateWithCtx(ctx, params)
	if err != nil {
		XLog.Warn("XOrm.Model.Modify(%v): %v", md.this.TableName(), err)
		return -1, err
	}
	return int(n), nil
}

// Clear 按条件批量删除记录。
// 注意：MySQL Connector 最大的参数是 65535，清理大量数据时需要分批执行。
func (md *Model[T]) Clear(ctx context.Context, cond ...*Condition) (count int, err error) {
	defer Metrics().observe("clear", XTime.GetMicrosecond(), &err)
	query, _, err := md.query("Clear", md.fullCond(cond...))
	if err != nil {
		return -1, err
	}
	n, err := query.DeleteWithCtx(ctx)
	if err != nil {
		XLog.Warn("XOrm.Model.Clear(%v): %v", md.this.TableName(), err)
		return -1, err
	}
	return int(n), nil
}

// fullCond 在条件为空时返回匹配全表的条件。
func (md *Model[T]) fullCond(cond ...*Condition) *Condition {
	if len(cond) > 0 && cond[0] != nil && cond[0].Base != nil && !cond[0].Base.IsEmpty() {
		return cond[0]
	}
	meta := getModelMeta(md.this)
	if meta == nil {
		return Cond()
	}
	return Cond(fmt.Sprintf("%v isnull {0}", meta.pk.column), false)
}

func (md *Model[T]) IsValid(value ...bool) bool {
	if len(value) > 0 {
		md.isValid = value[0]
	}
	return md.isValid
}

// Clone 创建对象的拷贝。
// 拷贝后会调用 OnDecode 进行解码处理。
func (md *Model[T]) Clone() IModel {
	src, ok := any(md.this).(*T)
	if !ok || src == nil {
		XLog.Error("XOrm.Model.Clone(%v): invalid pointer.", md.this.TableName())
		return md.this
	}
	dst := new(T)
	*dst = *src
	model := any(dst).(IModel)
	model.Ctor(dst)
	model.OnDecode()
	model.IsValid(md.isValid)
	return model
}

func (md *Model[T]) Json() string {
	str, _ := XObject.ToJson(md.this)
	return str
}

// Equals 比较两个对象是否相等。
// 时间字段使用 time.Time.Equal 比较。
func (md *Model[T]) Equals(model IModel) bool {
	if md.this == model {
		return true
	}
	if md.this == nil || model == nil {
		return false
	}

	meta := getModelMeta(md.this)
	if meta == nil {
		return false
	}

	thisAddr := reflect.ValueOf(md.this).Elem()
	compAddr := reflect.ValueOf(model).Elem()
	if thisAddr.Type() != compAddr.Type() {
		return false
	}
	for _, field := range meta.fields {
		thisVal := thisAddr.FieldByIndex(field.index).Interface()
		compVal := compAddr.FieldByIndex(field.index).Interface()
		if tt, ok := thisVal.(time.Time); ok {
			if !tt.Equal(compVal.(time.Time)) {
				return false
			}
		} else if !reflect.DeepEqual(thisVal, compVal) {
			return false
		}
	}
	return true
}

// decodeSlice 构造并解码切片中的模型元素。
func decodeSlice(slice reflect.Value) {
	for i := 0; i < slice.Len(); i++ {
		ev := slice.Index(i).Interface()
		if model, ok := ev.(IModel); ok && !reflect.ValueOf(ev).IsNil() {
			model.Ctor(ev)
			model.OnDecode()
			model.IsValid(true)
		}
	}
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/beego/beego/v2/client/orm"
	"github.com/eframework-org/GO.UTIL/XLog"
)

// modelMeta 描述了已注册模型的结构信息。
type modelMeta struct {
	table    string                // 数据表名
	alias    string                // 数据库别名
	writable bool                  // 是否可写
	pk       *fieldMeta            // 主键字段
	fields   []*fieldMeta          // 数据库字段（按声明顺序）
	columns  map[string]*fieldMeta // 按列名索引的字段
	names    map[string]*fieldMeta // 按字段名索引的字段
}

// fieldMeta 描述了模型中的单个数据库字段。
type fieldMeta struct {
	name   string // 字段名
	column string // 列名
	pk     bool   // 是否为主键
	index  []int  // 反射索引
}

var (
	// modelMetaMutex 用于保护模型注册的互斥锁。
	modelMetaMutex sync.Mutex

	// modelMetas 存储已注册的模型信息，键为 ModelUnique。
	modelMetas sync.Map
)

// getModelMeta 获取指定模型的信息。
// 返回模型的描述信息，如果模型未注册则返回 nil。
func getModelMeta(model IModel) *modelMeta {
	if model == nil {
		return nil
	}
	if value, ok := modelMetas.Load(model.ModelUnique()); ok {
		return value.(*modelMeta)
	}
	return nil
}

// Meta 注册一个模型。
// model 为模型实例，writable 指定会话是否可以提交该模型的变更。
// 如果模型为 nil、已注册或缺少主键，将触发 panic。
// 注册必须在首次访问数据库之前完成。
func Meta(model IModel, writable bool) {
	if model == nil {
		XLog.Panic("XOrm.Meta: nil model instance.")
		return
	}

	modelMetaMutex.Lock()
	defer modelMetaMutex.Unlock()

	key := model.ModelUnique()
	if _, loaded := modelMetas.Load(key); loaded {
		XLog.Panic("XOrm.Meta: model of %v has been registered.", key)
		return
	}

	meta := parseModelMeta(reflect.TypeOf(model))
	if meta.pk == nil {
		XLog.Panic("XOrm.Meta: primary key of %v was not found.", key)
		return
	}
	meta.table = model.TableName()
	meta.alias = model.AliasName()
	meta.writable = writable

	orm.RegisterModel(model)
	modelMetas.Store(key, meta)
}

// parseModelMeta 解析结构体的 orm 标签。
// 跳过 orm:"-" 的字段（包括嵌入的 Model[T]）及未导出的字段。
func parseModelMeta(typ reflect.Type) *modelMeta {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	meta := &modelMeta{
		columns: make(map[string]*fieldMeta),
		names:   make(map[string]*fieldMeta),
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag := sf.Tag.Get("orm")
		if tag == "-" || !sf.IsExported() {
			continue
		}
		fld := &fieldMeta{name: sf.Name, column: snakeName(sf.Name), index: sf.Index}
		for _, part := range strings.Split(tag, ";") {
			part = strings.TrimSpace(part)
			switch {
			case part == "pk":
				fld.pk = true
			case strings.HasPrefix(part, "column(") && strings.HasSuffix(part, ")"):
				fld.column = part[len("column(") : len(part)-1]
			}
		}
		if fld.pk {
			meta.pk = fld
		} else if meta.pk == nil && strings.EqualFold(sf.Name, "id") {
			meta.pk = fld
		}
		meta.fields = append(meta.fields, fld)
		meta.columns[fld.column] = fld
		meta.names[fld.name] = fld
	}
	return meta
}

// snakeName 将字段名转换为列名，如 FirstName 转换为 first_name。
func snakeName(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/eframework-org/GO.BENCH/XEmployee"
	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.BENCH/XSql"
	"github.com/eframework-org/GO.UTIL/XLog"
	"go.uber.org/fx"
)

// Schema 表示数据源已注册且员工数据表已就绪。
type Schema struct {
	Alias string
}

// NewSchema 注册数据源及员工模型并创建数据表，已注册的数据源不会重复注册。
func NewSchema(config *Config) (*Schema, error) {
	if XOrm.Driver(config.Alias) == "" {
		if err := XOrm.Setup(config.Prefs()); err != nil {
			return nil, err
		}
	}
	XEmployee.Register(config.Alias)
	if err := XEmployee.Sync(); err != nil {
		return nil, err
	}
	return &Schema{Alias: XEmployee.Alias()}, nil
}

// NewFactory 创建手写 SQL 实现使用的连接工厂，停止时关闭连接池。
func NewFactory(ctx context.Context, lc fx.Lifecycle, config *Config, _ *Schema) (*XSql.Factory, error) {
	factory, err := XSql.New(ctx, config.Driver, config.EmployeeDb)
	if err != nil {
		return nil, err
	}
	factory.SetPool(config.Pool, config.Conn)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return factory.Close() },
	})
	return factory, nil
}

// NewSession 创建 ORM 实现使用的会话，停止时输出会话统计。
func NewSession(lc fx.Lifecycle, _ *Schema) *XOrm.Session {
	session := XOrm.NewSession()
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			session.Close()
			return nil
		},
	})
	return session
}

// NewGenerator 创建数据生成器，启动时写入数据，停止时清理数据。
func NewGenerator(lc fx.Lifecycle, config *Config, session *XOrm.Session) *XEmployee.Generator {
	generator := XEmployee.NewGenerator(session, config.Seed)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := generator.Purge(ctx, config.Count); err != nil {
				return err
			}
			_, err := generator.Generate(ctx, config.Count)
			return err
		},
		OnStop: func(ctx context.Context) error {
			XOrm.Reset()
			return generator.Cleanup(ctx)
		},
	})
	return generator
}

// Bench 组合了执行基准测试所需的组件。
type Bench struct {
	config    *Config
	runner    *Runner
	generator *XEmployee.Generator
	orm       *XEmployee.OrmRepository
	sql       *XEmployee.SqlRepository
}

// NewBench 创建基准测试。
func NewBench(config *Config, generator *XEmployee.Generator, factory *XSql.Factory, session *XOrm.Session) *Bench {
	return &Bench{
		config:    config,
		runner:    NewRunner(config.Iterations, config.Warmup),
		generator: generator,
		orm:       XEmployee.NewOrmRepository(session),
		sql:       XEmployee.NewSqlRepository(factory),
	}
}

// Cases 返回经过筛选的用例。
func (b *Bench) Cases() ([]Case, error) {
	return FilterCases(Cases(b.orm, b.sql), b.config.Filter)
}

// Run 执行经过筛选的用例。
func (b *Bench) Run(ctx context.Context) ([]*Result, error) {
	cases, err := b.Cases()
	if err != nil {
		return nil, err
	}
	XLog.Notice("XBench.Run: %v case(s) with %v iteration(s) on %v, seed %v.",
		len(cases), b.config.Iterations, b.config.Driver, b.generator.Seed())
	return b.runner.Run(ctx, cases), nil
}

// Module 返回基准测试的依赖组合，ctx 用于构造期间的数据源检查。
func Module(ctx context.Context, config *Config) fx.Option {
	return fx.Module("bench",
		fx.Supply(config, fx.Annotate(ctx, fx.As(new(context.Context)))),
		fx.Provide(
			NewSchema,
			NewFactory,
			NewSession,
			NewGenerator,
			NewBench,
		),
	)
}

// Run 启动依赖组合，执行用例并输出报告，结束后清理数据。
func Run(ctx context.Context, config *Config, out io.Writer) (results []*Result, err error) {
	var bench *Bench
	app := fx.New(
		Module(ctx, config),
		fx.Populate(&bench),
		fx.StartTimeout(time.Minute),
		fx.StopTimeout(time.Minute),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("XBench.Run: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("XBench.Run: start failed: %w", err)
	}
	defer func() {
		if serr := app.Stop(context.WithoutCancel(ctx)); serr != nil {
			XLog.Error("XBench.Run: stop failed: %v", serr)
			if err == nil {
				err = serr
			}
		}
	}()

	if results, err = bench.Run(ctx); err != nil {
		return nil, err
	}
	if out != nil {
		Report(out, results)
	}
	return results, nil
}

// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"fmt"
	"strings"

	"github.com/eframework-org/GO.BENCH/XEmployee"
	"github.com/eframework-org/GO.UTIL/XPrefs"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	prefsBenchDriver     = "Bench/Driver"
	prefsBenchAlias      = "Bench/Alias"
	prefsBenchEmployeeDb = "Bench/ConnectionStrings/EmployeeDb"
	prefsBenchPool       = "Bench/Pool"
	prefsBenchConn       = "Bench/Conn"
	prefsBenchCount      = "Bench/Count"
	prefsBenchSeed       = "Bench/Seed"
	prefsBenchIterations = "Bench/Iterations"
	prefsBenchWarmup     = "Bench/Warmup"
	prefsBenchFilter     = "Bench/Filter"

	// EnvPrefix 是环境变量的前缀，如 BENCH_EMPLOYEE_DB 覆盖连接地址。
	EnvPrefix = "BENCH_"
)

// Config 定义了基准测试的配置。
type Config struct {
	Driver     string `koanf:"driver" validate:"required,oneof=mysql postgres sqlite3"`
	Alias      string `koanf:"alias" validate:"required"`
	EmployeeDb string `koanf:"employee_db" validate:"required"`
	Pool       int    `koanf:"pool" validate:"gte=0"`
	Conn       int    `koanf:"conn" validate:"gte=0"`
	Count      int    `koanf:"count" validate:"gte=1"`
	Seed       int64  `koanf:"seed"`
	Iterations int    `koanf:"iterations" validate:"gte=1"`
	Warmup     int    `koanf:"warmup" validate:"gte=0"`
	Filter     string `koanf:"filter"`
}

// DefaultConfig 返回默认配置，连接本地的 MySQL。
func DefaultConfig() *Config {
	return &Config{
		Driver:     "mysql",
		Alias:      "default",
		EmployeeDb: "root:123456@tcp(127.0.0.1:3306)/bench?parseTime=true",
		Pool:       10,
		Conn:       100,
		Count:      XEmployee.DefaultCount,
		Seed:       XEmployee.DefaultSeed,
		Iterations: 100,
		Warmup:     10,
	}
}

// LoadConfig 依次读取默认值、首选项及环境变量，并校验结果。
// prefs 为 nil 时跳过首选项。
func LoadConfig(prefs XPrefs.IBase) (*Config, error) {
	config := DefaultConfig()
	if prefs != nil {
		if v := prefs.GetString(prefsBenchDriver); v != "" {
			config.Driver = v
		}
		if v := prefs.GetString(prefsBenchAlias); v != "" {
			config.Alias = v
		}
		if v := prefs.GetString(prefsBenchEmployeeDb); v != "" {
			config.EmployeeDb = v
		}
		if v := prefs.GetString(prefsBenchFilter); v != "" {
			config.Filter = v
		}
		config.Pool = prefs.GetInt(prefsBenchPool, config.Pool)
		config.Conn = prefs.GetInt(prefsBenchConn, config.Conn)
		config.Count = prefs.GetInt(prefsBenchCount, config.Count)
		config.Seed = int64(prefs.GetInt(prefsBenchSeed, int(config.Seed)))
		config.Iterations = prefs.GetInt(prefsBenchIterations, config.Iterations)
		config.Warmup = prefs.GetInt(prefsBenchWarmup, config.Warmup)
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("XBench.LoadConfig: load env failed: %w", err)
	}
	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("XBench.LoadConfig: unmarshal env failed: %w", err)
	}

	config.Driver = strings.ToLower(config.Driver)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate 校验配置。
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("XBench.Config: %w", err)
	}
	return nil
}

// Prefs 返回 XOrm.Setup 可用的数据源首选项。
func (c *Config) Prefs() XPrefs.IBase {
	return XPrefs.New().Set(fmt.Sprintf("Orm/Source/%v/%v", c.Driver, c.Alias), XPrefs.New().
		Set("Addr", c.EmployeeDb).
		Set("Pool", c.Pool).
		Set("Conn", c.Conn))
}

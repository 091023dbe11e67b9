// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/eframework-org/GO.UTIL/XPrefs"
	"github.com/stretchr/testify/assert"
)

func TestOrmInit(t *testing.T) {
	addr := "file:" + filepath.Join(t.TempDir(), "setup.db") + "?_busy_timeout=5000"

	tests := []struct {
		name    string
		prefs   XPrefs.IBase
		alias   string
		wantErr bool
	}{
		{
			name: "single_db_test",
			prefs: XPrefs.New().Set("Orm/Source/SQLite3/setup_alias", XPrefs.New().
				Set(prefsOrmAddr, addr).
				Set(prefsOrmPool, 1).
				Set(prefsOrmConn, 1)),
			alias:   "setup_alias",
			wantErr: false,
		},
		{
			name: "duplicate_db_test",
			prefs: XPrefs.New().Set("Orm/Source/SQLite3/setup_alias", XPrefs.New().
				Set(prefsOrmAddr, addr)),
			wantErr: true,
		},
		{
			name:    "invalid_key_test",
			prefs:   XPrefs.New().Set("Orm/Source/SQLite3", XPrefs.New().Set(prefsOrmAddr, addr)),
			wantErr: true,
		},
		{
			name:    "ignored_key_test",
			prefs:   XPrefs.New().Set("Bench/Count", 10),
			wantErr: false,
		},
		{
			name:    "nil_config_test",
			prefs:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Setup(tt.prefs)
			if tt.wantErr {
				assert.Error(t, err, "Setup 应当返回错误。")
				return
			}
			assert.NoError(t, err, "Setup 不应当返回错误。")
			if tt.alias != "" {
				assert.Equal(t, "sqlite3", Driver(tt.alias), "数据源应当被注册。")
			}
		})
	}

	t.Run("Sync", func(t *testing.T) {
		assert.True(t, errors.Is(Sync("unknown_alias"), ErrNotRegistered), "未注册的数据源应当返回 ErrNotRegistered。")
		assert.Equal(t, "", Driver("unknown_alias"))
	})

	t.Run("Driver", func(t *testing.T) {
		tests := map[string]string{
			"MySQL":      "mysql",
			"PostgreSQL": "postgres",
			"Postgres":   "postgres",
			"SQLite3":    "sqlite3",
			"SQLite":     "sqlite3",
		}
		for input, want := range tests {
			assert.Equal(t, want, normalizeDriver(input), "驱动名称应当一致：%v", input)
		}
	})
}

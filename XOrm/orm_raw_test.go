// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XOrm

import (
	"context"
	"errors"
	"testing"

	"github.com/eframework-org/GO.UTIL/XObject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrmRaw(t *testing.T) {
	ctx := context.Background()
	ClearBaseTest(t)
	WriteBaseTest(t, 5)

	t.Run("Read", func(t *testing.T) {
		model, ok, err := RawRead(ctx, NewTestBaseModel(), "SELECT * FROM xorm_test WHERE id = ?", "id-002")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, model.Score)
		assert.True(t, model.IsValid())
		assert.NotPanics(t, func() {
			assert.Equal(t, NewTestBaseModel("id-002").DataUnique(), model.DataUnique(), "读取后应当保留模型的自身引用。")
		})

		_, ok, err = RawRead(ctx, NewTestBaseModel(), "SELECT * FROM xorm_test WHERE id = ?", "missing")
		assert.NoError(t, err, "未找到记录不应当返回错误。")
		assert.False(t, ok)
	})

	t.Run("List", func(t *testing.T) {
		rets, err := RawList(ctx, NewTestBaseModel(), "SELECT * FROM xorm_test WHERE score >= ? ORDER BY score", 3)
		require.NoError(t, err)
		assert.Len(t, rets, 2)
		assert.Equal(t, "id-003", rets[0].ID)
		assert.True(t, rets[1].IsValid(), "列举的记录应当被构造。")

		rets, err = RawList(ctx, NewTestBaseModel(), "SELECT * FROM xorm_test WHERE score > ?", 100)
		assert.NoError(t, err)
		assert.Empty(t, rets)
	})

	t.Run("Error", func(t *testing.T) {
		_, _, err := RawRead(ctx, NewTestBaseModel(), "SELECT * FROM xorm_missing_table")
		assert.Error(t, err, "非法的语句应当返回错误。")

		_, err = RawList(ctx, XObject.New[TestUnregisteredModel](), "SELECT 1")
		assert.True(t, errors.Is(err, ErrNotRegistered))
	})
}

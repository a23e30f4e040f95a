package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferSchema(t *testing.T) {
	t.Run("CSV integer column", func(t *testing.T) {
		table, err := Parse("spend,player\n100,alice\n500,bob\n1000,carol")
		require.NoError(t, err)

		schema := InferSchema(table)
		assert.Equal(t, 3, schema.RowCount)
		assert.Equal(t, 2, schema.ColumnCount)

		spend := schema.Columns["spend"]
		assert.Equal(t, TypeInteger, spend.Type)
		require.NotNil(t, spend.Min)
		assert.Equal(t, 100.0, *spend.Min)
		assert.Equal(t, 1000.0, *spend.Max)
		assert.InDelta(t, 533.333, *spend.Mean, 0.001)

		player := schema.Columns["player"]
		assert.Equal(t, TypeText, player.Type)
		assert.Nil(t, player.Min)
	})

	t.Run("float column from JSON numbers", func(t *testing.T) {
		table, err := Parse(`[{"ratio":0.5},{"ratio":1.5}]`)
		require.NoError(t, err)

		col := InferSchema(table).Columns["ratio"]
		assert.Equal(t, TypeFloat, col.Type)
		assert.Equal(t, 1.0, *col.Mean)
	})

	t.Run("integral JSON numbers are integer", func(t *testing.T) {
		table, err := Parse(`[{"n":1},{"n":2}]`)
		require.NoError(t, err)
		assert.Equal(t, TypeInteger, InferSchema(table).Columns["n"].Type)
	})

	t.Run("boolean column", func(t *testing.T) {
		table, err := Parse(`[{"active":true},{"active":false}]`)
		require.NoError(t, err)
		assert.Equal(t, TypeBoolean, InferSchema(table).Columns["active"].Type)
	})

	t.Run("boolean text column", func(t *testing.T) {
		table, err := Parse("flag\ntrue\nfalse\nTrue")
		require.NoError(t, err)
		assert.Equal(t, TypeBoolean, InferSchema(table).Columns["flag"].Type)
	})

	t.Run("mixed column falls back to text", func(t *testing.T) {
		table, err := Parse(`[{"v":1},{"v":"abc"}]`)
		require.NoError(t, err)
		assert.Equal(t, TypeText, InferSchema(table).Columns["v"].Type)
	})

	t.Run("null and unique counts", func(t *testing.T) {
		table := &Table{
			Columns: []string{"c"},
			Rows:    [][]interface{}{{"x"}, {nil}, {"x"}, {"y"}},
		}
		col := InferSchema(table).Columns["c"]
		assert.Equal(t, 1, col.NullCount)
		assert.Equal(t, 2, col.UniqueCount)
	})

	t.Run("all-null column omits stats", func(t *testing.T) {
		table := &Table{
			Columns: []string{"c"},
			Rows:    [][]interface{}{{nil}, {nil}},
		}
		col := InferSchema(table).Columns["c"]
		assert.Equal(t, TypeText, col.Type)
		assert.Equal(t, 2, col.NullCount)
		assert.Nil(t, col.Min)
		assert.Nil(t, col.Mean)
	})
}

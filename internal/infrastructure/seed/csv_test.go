package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	t.Run("parses header-keyed rows and skips blanks", func(t *testing.T) {
		input := "Item Code,Item Name,Default Unit of Measure\n" +
			"VT-001,Thép tấm,Kg\n" +
			",,\n" +
			"VT-002,Đinh vít,Cái\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "VT-001", rows[0].Get("Item Code"))
		assert.Equal(t, "Thép tấm", rows[0].Get("Item Name"))
		assert.Equal(t, 2, rows[0].LineNumber)
		assert.Equal(t, 4, rows[1].LineNumber, "blank rows keep their file position")
	})

	t.Run("strips a UTF-8 BOM", func(t *testing.T) {
		input := "\xEF\xBB\xBFItem Code,Item Name\nVT-001,Thép\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "VT-001", rows[0].Get("Item Code"))
	})

	t.Run("rejects empty and non-UTF-8 files", func(t *testing.T) {
		_, err := ReadRows(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)

		_, err = ReadRows(strings.NewReader("M\xE3 h\xE0ng,T\xEAn\nVT-001,x\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("tolerates short records", func(t *testing.T) {
		input := "A,B,C\n1,2\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2", rows[0].Get("B"))
		assert.Equal(t, "", rows[0].Get("C"))
		assert.Equal(t, "x", rows[0].GetOrDefault("C", "x"))
	})
}

func TestMapUOM(t *testing.T) {
	assert.Equal(t, "Nos", MapUOM("Cái"))
	assert.Equal(t, "Set", MapUOM("Bộ"))
	assert.Equal(t, "Roll", MapUOM("Cuộn"))
	assert.Equal(t, "Kg", MapUOM("Kg"))
	assert.Equal(t, "Nos", MapUOM("Thùng"), "unknown units default to Nos")
}

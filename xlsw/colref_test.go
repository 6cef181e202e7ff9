package xlsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetters(t *testing.T) {
	for n, want := range map[int]string{
		1:          "A",
		2:          "B",
		26:         "Z",
		27:         "AA",
		52:         "AZ",
		53:         "BA",
		702:        "ZZ",
		703:        "AAA",
		MaxColumns: "XFD",
	} {
		assert.Equal(t, want, ColumnLetters(n), "column %d", n)
	}
	assert.Equal(t, "", ColumnLetters(0))
	assert.Equal(t, "", ColumnLetters(-3))
}

func TestColumnNumber(t *testing.T) {
	assert.Equal(t, 1, ColumnNumber("A"))
	assert.Equal(t, 26, ColumnNumber("z"))
	assert.Equal(t, 27, ColumnNumber("aa"))
	assert.Equal(t, MaxColumns, ColumnNumber("XFD"))
	assert.Equal(t, 0, ColumnNumber(""))
	assert.Equal(t, 0, ColumnNumber("  "))
	assert.Equal(t, 0, ColumnNumber("A1"))
}

func TestColumnCodecInverse(t *testing.T) {
	for n := 1; n <= MaxColumns; n++ {
		if got := ColumnNumber(ColumnLetters(n)); got != n {
			t.Fatalf("column %d round-trips to %d", n, got)
		}
	}
}

func TestCellCoord(t *testing.T) {
	assert.Equal(t, "A1", CellCoord(1, 1))
	assert.Equal(t, "AB7", CellCoord(28, 7))
	assert.Equal(t, "XFD1048576", CellCoord(MaxColumns, MaxRows))
}

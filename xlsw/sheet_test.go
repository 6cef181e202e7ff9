package xlsw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSheetName(t *testing.T) {
	assert.NoError(t, validateSheetName("Data 2024"))
	assert.NoError(t, validateSheetName(strings.Repeat("x", 31)))

	for _, name := range []string{
		"",
		strings.Repeat("x", 32),
		"'leading quote",
		"trailing quote'",
		"a:b", `a\b`, "a/b", "a?b", "a*b", "a[b", "a]b",
	} {
		assert.ErrorIs(t, validateSheetName(name), ErrSheetName, "name %q", name)
	}
}

func TestOpenSheetDuplicateName(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.OpenSheet("Data"))
	require.NoError(t, d.CloseSheet())
	assert.ErrorIs(t, d.OpenSheet("data"), ErrDuplicateSheetName)
	require.NoError(t, d.OpenSheet("Data2"))
}

func TestMergeCells(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.OpenSheet("m"))

	require.NoError(t, d.MergeCells("A1:C7"))
	require.NoError(t, d.MergeCells("D1:D3"))

	// overlapping merge is rejected, queue stays intact
	assert.ErrorIs(t, d.MergeCells("B2:B3"), ErrOverlappingRange)
	assert.Len(t, d.cur.merges, 2)

	// whole-column merges are not addressable cells
	assert.ErrorIs(t, d.MergeCells("E:F"), ErrInvalidRange)
	assert.ErrorIs(t, d.MergeCells("9:12"), ErrInvalidRange)
}

func TestMergeCellsReversedRange(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.OpenSheet("m"))

	// a reversed merge is normalized, so later overlaps are still caught
	require.NoError(t, d.MergeCells("C7:A1"))
	assert.ErrorIs(t, d.MergeCells("B2:B3"), ErrOverlappingRange)
	require.Len(t, d.cur.merges, 1)
	assert.Equal(t, "A1:C7", d.cur.merges[0].Ref())
}

func TestSetAutoFilterReplaces(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.OpenSheet("f"))

	require.NoError(t, d.SetAutoFilter("A1:C1"))
	require.NoError(t, d.SetAutoFilter("A1:D1"))
	assert.Equal(t, "A1:D1", d.cur.autoFilter.Ref())
}

func TestPageFlagsDefaultsAndReset(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.OpenSheet("one"))
	v, err := d.ShowGridLines()
	require.NoError(t, err)
	assert.True(t, v)
	v, err = d.PrintGridLines()
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, d.SetShowGridLines(false))
	require.NoError(t, d.SetPrintHeadings(true))
	v, err = d.ShowGridLines()
	require.NoError(t, err)
	assert.False(t, v)
	require.NoError(t, d.CloseSheet())

	// flags do not leak into the next sheet
	require.NoError(t, d.OpenSheet("two"))
	v, err = d.ShowGridLines()
	require.NoError(t, err)
	assert.True(t, v)
	v, err = d.PrintHeadings()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestCloseSheetWithOpenRow(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.OpenSheet("s"))
	require.NoError(t, d.BeginRow())
	assert.ErrorIs(t, d.CloseSheet(), ErrRowAlreadyOpen)

	require.NoError(t, d.EndRow())
	require.NoError(t, d.CloseSheet())
}

func TestSheetDimension(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)

	require.NoError(t, d.OpenSheet("dim"))
	require.NoError(t, d.AppendRow("a", "b", "c"))
	require.NoError(t, d.BeginRow(AtRow(5)))
	require.NoError(t, d.WriteInt(1))
	require.NoError(t, d.EndRow())
	require.NoError(t, d.CloseSheet())

	require.NoError(t, d.OpenSheet("empty"))
	require.NoError(t, d.CloseSheet())
	require.NoError(t, d.Close())

	sheets := d.Sheets()
	require.Len(t, sheets, 2)
	assert.Equal(t, "A1:C5", sheets[0].Dimension)
	assert.Equal(t, "", sheets[1].Dimension)
}

package xlsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeRoundTrip(t *testing.T) {
	// String() must reproduce the canonical textual form, anchors included.
	for _, s := range []string{
		"B2",
		"$B$2",
		"A1:C7",
		"$A$1:$C7",
		"A$1:C7",
		"A:C",
		"$A:$C",
		"2:7",
		"241:35",
		"Data!A1:B2",
		"Data!$A$1:$B$2",
	} {
		r, err := ParseRange(s)
		require.NoError(t, err, "parse %q", s)
		assert.Equal(t, s, r.String(), "round trip %q", s)
	}

	// column letters are case-insensitive; serialization is canonical upper
	r, err := ParseRange("ers:ouy")
	require.NoError(t, err)
	assert.Equal(t, "ERS:OUY", r.String())
}

func TestParseRangeNormalizesReversed(t *testing.T) {
	for input, want := range map[string]string{
		"C7:A1":   "A1:C7",
		"C1:A7":   "A1:C7", // reversed on the column axis only
		"7:2":     "2:7",
		"C:A":     "A:C",
		"$C7:A$1": "A$1:$C7", // anchors travel with their values
	} {
		r, err := ParseRange(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, r.String(), input)
	}

	// normalized ranges satisfy the overlap algebra
	a, _ := ParseRange("C7:A1")
	b, _ := ParseRange("B2:B3")
	assert.True(t, a.Overlaps(b))
}

func TestParseRangeSingleCellCollapse(t *testing.T) {
	r, err := ParseRange("C3:C3")
	require.NoError(t, err)
	assert.True(t, r.SingleCell())
	assert.Equal(t, "C3", r.String())

	// mismatched anchors keep the two-component form
	r, err = ParseRange("$C3:C3")
	require.NoError(t, err)
	assert.False(t, r.SingleCell())
	assert.Equal(t, "$C3:C3", r.String())
}

func TestParseRangeComponents(t *testing.T) {
	r, err := ParseRange("Data!$B2:D$9")
	require.NoError(t, err)
	assert.Equal(t, "Data", r.Sheet)
	assert.Equal(t, 2, r.StartCol)
	assert.Equal(t, 2, r.StartRow)
	assert.Equal(t, 4, r.EndCol)
	assert.Equal(t, 9, r.EndRow)
	assert.True(t, r.StartColFixed)
	assert.False(t, r.StartRowFixed)
	assert.False(t, r.EndColFixed)
	assert.True(t, r.EndRowFixed)

	// whole-column span: rows stay zero
	r, err = ParseRange("B:D")
	require.NoError(t, err)
	assert.Equal(t, 2, r.StartCol)
	assert.Equal(t, 0, r.StartRow)
	assert.Equal(t, 4, r.EndCol)
	assert.Equal(t, 0, r.EndRow)

	// whole-row span: columns stay zero
	r, err = ParseRange("2:7")
	require.NoError(t, err)
	assert.Equal(t, 0, r.StartCol)
	assert.Equal(t, 2, r.StartRow)
	assert.Equal(t, 0, r.EndCol)
	assert.Equal(t, 7, r.EndRow)
}

func TestParseRangeInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		":",
		"A1:",
		":B2",
		"$5",        // anchor without column letters
		"A$",        // anchor without row number
		"A1:B",      // cell vs column shape
		"A:2",       // column vs row shape
		"A0",        // rows are 1-based
		"A1B",       // trailing garbage
		"1A",        // digits before letters
		"!A1",       // empty sheet name
		"Bad?x!A1",  // bad sheet char
		"Sheet]!A1", // bad sheet char
	} {
		_, err := ParseRange(s)
		assert.ErrorIs(t, err, ErrInvalidRange, "input %q", s)
	}
}

func TestRangeRef(t *testing.T) {
	r, err := ParseRange("Data!$A$1:$C7")
	require.NoError(t, err)
	assert.Equal(t, "A1:C7", r.Ref())

	r, err = ParseRange("$B$2")
	require.NoError(t, err)
	assert.Equal(t, "B2", r.Ref())
}

func TestRangeCompare(t *testing.T) {
	a, _ := ParseRange("A1:C7")
	b, _ := ParseRange("B2:B3")
	c, _ := ParseRange("A1:C7")

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(c))

	// infinite axis sorts before any finite index
	cols, _ := ParseRange("A:C")
	assert.Equal(t, -1, cols.Compare(a))
}

func TestRangeOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"A1:C7", "B2:B3", true},
		{"A1:C7", "D1:D3", false},
		{"A1:C7", "C7:E9", true}, // shared corner cell
		{"A1:B2", "A3:B4", false},
		{"A1:C7", "A1:C7", true}, // identical by value
		{"A:C", "B2:B3", true},   // whole columns cover every row
		{"A:C", "D2:D3", false},
		{"2:4", "A1:C7", true}, // whole rows cover every column
		{"2:4", "A5:C7", false},
		{"A:C", "2:7", true}, // cross-shaped, always intersect
	}
	for _, tc := range tests {
		a, err := ParseRange(tc.a)
		require.NoError(t, err)
		b, err := ParseRange(tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, a.Overlaps(b), "%s vs %s", tc.a, tc.b)
		assert.Equal(t, tc.want, b.Overlaps(a), "%s vs %s (sym)", tc.b, tc.a)
	}
}

package xlsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStylesSeedsDefaults(t *testing.T) {
	s := NewStyles()
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 0, s.Index(DefaultStyleName))
	assert.Equal(t, 0, s.Index("default")) // case-insensitive

	// fill slots 0 and 1 are the reserved none + gray125 pair
	require.Len(t, s.fills, 2)
	assert.Equal(t, Fill{}, s.fills[0])
	assert.Equal(t, Fill{Pattern: PatternGray125}, s.fills[1])
}

func TestNewStylesSeedsPrimitiveTables(t *testing.T) {
	s := NewStyles()
	require.Equal(t, []Font{{}}, s.fonts)
	require.Equal(t, []Border{{}}, s.borders)
	require.Equal(t, []Fill{{}, {Pattern: PatternGray125}}, s.fills)

	// the default entry resolves to slot 0 of every primitive table
	def := s.entries[s.Index(DefaultStyleName)]
	assert.Equal(t, 0, def.fontID)
	assert.Equal(t, 0, def.fillID)
	assert.Equal(t, 0, def.borderID)
	assert.Equal(t, 1, s.entries[s.Index(gray125StyleName)].fillID)

	// a fill registered later cannot land in a reserved slot
	i, err := s.Add("hl", StyleDef{Fill: &Fill{Pattern: PatternSolid, Color: "FFFFFF00"}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.entries[i].fillID)
}

func TestStylesAddIdempotent(t *testing.T) {
	s := NewStyles()
	bold := &Font{Bold: true}

	i, err := s.Add("Header", StyleDef{Font: bold})
	require.NoError(t, err)
	j, err := s.Add("header", StyleDef{Font: &Font{Italic: true}})
	require.NoError(t, err)

	// the second registration is ignored, name identity wins
	assert.Equal(t, i, j)
	assert.Equal(t, i, s.Index("HEADER"))
	assert.Len(t, s.fonts, 2) // default + bold, the italic font was never added
}

func TestStylesDedupByValue(t *testing.T) {
	s := NewStyles()
	a, err := s.Add("A", StyleDef{Font: &Font{Bold: true}, NumberFormat: "0.00"})
	require.NoError(t, err)
	b, err := s.Add("B", StyleDef{Font: &Font{Bold: true}, NumberFormat: "0.00"})
	require.NoError(t, err)

	// distinct names, identical components: two entries, one font, one format
	assert.NotEqual(t, a, b)
	assert.Len(t, s.fonts, 2)
	assert.Len(t, s.numFmts, 1)
	assert.Equal(t, s.entries[a].fontID, s.entries[b].fontID)
	assert.Equal(t, s.entries[a].numFmtID, s.entries[b].numFmtID)
}

func TestStylesCustomNumFmtIDs(t *testing.T) {
	s := NewStyles()
	_, err := s.Add("money", StyleDef{NumberFormat: "#,##0.00"})
	require.NoError(t, err)
	_, err = s.Add("pct", StyleDef{NumberFormat: "0.0%"})
	require.NoError(t, err)

	require.Len(t, s.numFmts, 2)
	assert.Equal(t, 164, s.numFmts[0].id)
	assert.Equal(t, 165, s.numFmts[1].id)

	// the general format never allocates an id
	assert.Equal(t, 0, s.entries[s.Index(DefaultStyleName)].numFmtID)
}

func TestStylesAddErrors(t *testing.T) {
	s := NewStyles()

	_, err := s.Add("", StyleDef{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.AddRaw("raw", -1, 0, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.AddDifferential("empty", DiffDef{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStylesDifferential(t *testing.T) {
	s := NewStyles()
	i, err := s.AddDifferential("warn", DiffDef{Fill: &Fill{Pattern: PatternSolid, Color: "FFFFC7CE"}})
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, i, s.DifferentialIndex("WARN"))
	assert.Equal(t, 1, s.DifferentialCount())

	// differential number formats share the document format table
	_, err = s.AddDifferential("pct", DiffDef{NumberFormat: "0.0%"})
	require.NoError(t, err)
	require.Len(t, s.numFmts, 1)
	assert.Equal(t, 164, s.diffs[1].numFmtID)
}

func TestStylesIndexAbsent(t *testing.T) {
	s := NewStyles()
	assert.Equal(t, -1, s.Index("nope"))
	assert.Equal(t, -1, s.DifferentialIndex("nope"))
}

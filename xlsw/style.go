package xlsw

import (
	"fmt"
	"strings"
)

// Font holds font formatting properties, per the OpenXML font element
// (ECMA-376). The zero value is rendered with the default face and size.
type Font struct {
	Name          string // face name ("" = Calibri)
	Size          float64 // points (0 = 11)
	Color         string // ARGB hex, e.g. "FFFF0000" ("" = automatic)
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     UnderlineType
}

// UnderlineType is the underline style (ST_UnderlineValues).
type UnderlineType string

const (
	UnderlineNone             UnderlineType = ""
	UnderlineSingle           UnderlineType = "single"
	UnderlineDouble           UnderlineType = "double"
	UnderlineSingleAccounting UnderlineType = "singleAccounting"
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting"
)

// PatternType is the fill pattern (ST_PatternType).
type PatternType string

const (
	PatternNone    PatternType = "none"
	PatternGray125 PatternType = "gray125"
	PatternSolid   PatternType = "solid"
)

// Fill is a pattern fill. Color is the foreground ARGB hex, meaningful for
// solid fills.
type Fill struct {
	Pattern PatternType
	Color   string
}

// LineStyle is a border line style (ST_BorderStyle).
type LineStyle string

const (
	LineNone   LineStyle = ""
	LineThin   LineStyle = "thin"
	LineMedium LineStyle = "medium"
	LineThick  LineStyle = "thick"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
	LineDouble LineStyle = "double"
)

// BorderEdge is one side of a cell border.
type BorderEdge struct {
	Style LineStyle
	Color string
}

// Border describes all four sides plus the diagonal.
type Border struct {
	Left, Right, Top, Bottom, Diagonal BorderEdge
}

// Alignment holds cell content alignment.
type Alignment struct {
	Horizontal string // "left", "center", "right", ...
	Vertical   string // "top", "center", "bottom"
	WrapText   bool
}

// StyleDef is the composite definition passed to Styles.Add. Nil members
// fall back to the defaults (font 0, no fill, no border, general format).
type StyleDef struct {
	Font         *Font
	Fill         *Fill
	Border       *Border
	NumberFormat string // format code, "" = general
	Alignment    *Alignment
}

// DiffDef is a partial style override used by conditional formatting.
// At least one member must be set.
type DiffDef struct {
	Font         *Font
	Fill         *Fill
	Border       *Border
	NumberFormat string
	Alignment    *Alignment
}

// firstCustomNumFmtID is where caller-defined number format ids start;
// everything below is reserved for the built-in formats.
const firstCustomNumFmtID = 164

type numFmt struct {
	id   int
	code string
}

type styleEntry struct {
	name     string
	fontID   int
	fillID   int
	borderID int
	numFmtID int
	align    Alignment
	hasAlign bool
}

type diffEntry struct {
	name      string
	font      Font
	hasFont   bool
	fill      Fill
	hasFill   bool
	border    Border
	hasBorder bool
	numFmt    string
	numFmtID  int
	hasNumFmt bool
	align     Alignment
	hasAlign  bool
}

// Styles is the deduplicating style registry of a document. Fonts, fills,
// borders and number formats are keyed by value; named styles are keyed by
// name only, so two names may resolve to identical serialized formats.
type Styles struct {
	fonts   []Font
	fontIdx map[Font]int

	fills   []Fill
	fillIdx map[Fill]int

	borders   []Border
	borderIdx map[Border]int

	numFmts   []numFmt
	numFmtIdx map[string]int // code -> id

	entries []styleEntry
	names   map[string]int // lowercased name -> index into entries

	diffs     []diffEntry
	diffNames map[string]int
}

// DefaultStyleName is seeded at construction as style index 0.
const DefaultStyleName = "Default"

// gray125StyleName is seeded at construction so the second fill slot holds
// the gray125 pattern. The format reserves the first two fill slots; files
// whose fill table does not start with none+gray125 open with wrong fills.
const gray125StyleName = "DefaultGray125"

// NewStyles returns a registry pre-seeded with the default style and the
// reserved gray-pattern style.
func NewStyles() *Styles {
	s := &Styles{
		fontIdx:   map[Font]int{},
		fillIdx:   map[Fill]int{},
		borderIdx: map[Border]int{},
		numFmtIdx: map[string]int{},
		names:     map[string]int{},
		diffNames: map[string]int{},
	}
	// The primitive tables must not start empty: slot 0 of each is the
	// default every unset component resolves to, and fill slot 1 must hold
	// the gray125 pattern.
	s.fontID(&Font{})
	s.fillID(&Fill{})
	s.fillID(&Fill{Pattern: PatternGray125})
	s.borderID(&Border{})
	s.Add(DefaultStyleName, StyleDef{})
	s.Add(gray125StyleName, StyleDef{Fill: &Fill{Pattern: PatternGray125}})
	return s
}

func (s *Styles) fontID(f *Font) int {
	if f == nil {
		return 0
	}
	if i, ok := s.fontIdx[*f]; ok {
		return i
	}
	i := len(s.fonts)
	s.fonts = append(s.fonts, *f)
	s.fontIdx[*f] = i
	return i
}

func (s *Styles) fillID(f *Fill) int {
	if f == nil {
		return 0
	}
	if i, ok := s.fillIdx[*f]; ok {
		return i
	}
	i := len(s.fills)
	s.fills = append(s.fills, *f)
	s.fillIdx[*f] = i
	return i
}

func (s *Styles) borderID(b *Border) int {
	if b == nil {
		return 0
	}
	if i, ok := s.borderIdx[*b]; ok {
		return i
	}
	i := len(s.borders)
	s.borders = append(s.borders, *b)
	s.borderIdx[*b] = i
	return i
}

// numFmtID deduplicates a format code. The general format is id 0; custom
// codes get ids starting at 164 so they never collide with the built-ins.
func (s *Styles) numFmtID(code string) int {
	if code == "" {
		return 0
	}
	if id, ok := s.numFmtIdx[code]; ok {
		return id
	}
	id := firstCustomNumFmtID + len(s.numFmts)
	s.numFmts = append(s.numFmts, numFmt{id: id, code: code})
	s.numFmtIdx[code] = id
	return id
}

// Add registers a named composite style and returns its index. Registering
// an existing name again returns the existing index untouched.
func (s *Styles) Add(name string, def StyleDef) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: empty style name", ErrInvalidArgument)
	}
	key := strings.ToLower(name)
	if i, ok := s.names[key]; ok {
		return i, nil
	}
	e := styleEntry{
		name:     name,
		fontID:   s.fontID(def.Font),
		fillID:   s.fillID(def.Fill),
		borderID: s.borderID(def.Border),
		numFmtID: s.numFmtID(def.NumberFormat),
	}
	if def.Alignment != nil {
		e.align, e.hasAlign = *def.Alignment, true
	}
	i := len(s.entries)
	s.entries = append(s.entries, e)
	s.names[key] = i
	return i, nil
}

// AddRaw registers a named style from already-resolved component indices.
// Negative indices are rejected.
func (s *Styles) AddRaw(name string, fontID, fillID, borderID, numFmtID int, align *Alignment) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: empty style name", ErrInvalidArgument)
	}
	if fontID < 0 || fillID < 0 || borderID < 0 || numFmtID < 0 {
		return -1, fmt.Errorf("%w: negative style component index", ErrInvalidArgument)
	}
	key := strings.ToLower(name)
	if i, ok := s.names[key]; ok {
		return i, nil
	}
	e := styleEntry{
		name:     name,
		fontID:   fontID,
		fillID:   fillID,
		borderID: borderID,
		numFmtID: numFmtID,
	}
	if align != nil {
		e.align, e.hasAlign = *align, true
	}
	i := len(s.entries)
	s.entries = append(s.entries, e)
	s.names[key] = i
	return i, nil
}

// AddDifferential registers a named differential style, used only by
// conditional formatting. At least one override must be present.
func (s *Styles) AddDifferential(name string, def DiffDef) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: empty differential style name", ErrInvalidArgument)
	}
	if def.Font == nil && def.Fill == nil && def.Border == nil &&
		def.NumberFormat == "" && def.Alignment == nil {
		return -1, fmt.Errorf("%w: differential style needs at least one override", ErrInvalidArgument)
	}
	key := strings.ToLower(name)
	if i, ok := s.diffNames[key]; ok {
		return i, nil
	}
	e := diffEntry{name: name}
	if def.Font != nil {
		e.font, e.hasFont = *def.Font, true
	}
	if def.Fill != nil {
		e.fill, e.hasFill = *def.Fill, true
	}
	if def.Border != nil {
		e.border, e.hasBorder = *def.Border, true
	}
	if def.NumberFormat != "" {
		e.numFmt, e.hasNumFmt = def.NumberFormat, true
		e.numFmtID = s.numFmtID(def.NumberFormat)
	}
	if def.Alignment != nil {
		e.align, e.hasAlign = *def.Alignment, true
	}
	i := len(s.diffs)
	s.diffs = append(s.diffs, e)
	s.diffNames[key] = i
	return i, nil
}

// Index looks a named style up case-insensitively; -1 when absent.
func (s *Styles) Index(name string) int {
	if i, ok := s.names[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// DifferentialIndex looks a named differential style up case-insensitively;
// -1 when absent.
func (s *Styles) DifferentialIndex(name string) int {
	if i, ok := s.diffNames[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// Count returns the number of registered named styles.
func (s *Styles) Count() int { return len(s.entries) }

// DifferentialCount returns the number of registered differential styles.
func (s *Styles) DifferentialCount() int { return len(s.diffs) }

package xlsw

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a rectangular cell area, optionally qualified with a sheet name.
// A zero row pair means the range spans whole columns ("A:C"); a zero column
// pair means it spans whole rows ("2:7"). A range is never infinite on both
// axes. Fixed flags carry the "$" anchors of the textual form.
type Range struct {
	Sheet string

	StartCol, StartRow int // 1-based, 0 = infinite on that axis
	EndCol, EndRow     int

	StartColFixed, StartRowFixed bool
	EndColFixed, EndRowFixed     bool
}

const badSheetChars = `\/*[]:?`

// ParseRange parses an A1-style range string such as "B2", "A1:C7",
// "$A$1:$C7", "A:C", "2:7" or "Data!A1:B2". Reversed bounds ("C7:A1") are
// normalized so start <= end on each axis, anchors following their values.
// All malformed inputs report ErrInvalidRange.
func ParseRange(s string) (Range, error) {
	var r Range

	rest := s
	if i := strings.IndexByte(rest, '!'); i >= 0 {
		sheet := rest[:i]
		rest = rest[i+1:]
		if sheet == "" {
			return r, fmt.Errorf("%w: %q: empty sheet name", ErrInvalidRange, s)
		}
		if strings.ContainsAny(sheet, badSheetChars) {
			return r, fmt.Errorf("%w: %q: bad character in sheet name", ErrInvalidRange, s)
		}
		r.Sheet = sheet
	}

	first, second, hasSecond := strings.Cut(rest, ":")
	c1, err := parseComponent(first)
	if err != nil {
		return r, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}
	c2 := c1
	if hasSecond {
		c2, err = parseComponent(second)
		if err != nil {
			return r, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
		}
		if (c1.col == 0) != (c2.col == 0) || (c1.row == 0) != (c2.row == 0) {
			return r, fmt.Errorf("%w: %q: start and end differ in shape", ErrInvalidRange, s)
		}
	}

	r.StartCol, r.StartRow = c1.col, c1.row
	r.StartColFixed, r.StartRowFixed = c1.colFixed, c1.rowFixed
	r.EndCol, r.EndRow = c2.col, c2.row
	r.EndColFixed, r.EndRowFixed = c2.colFixed, c2.rowFixed
	// both ends share the same shape, so start > end only happens on a
	// finite axis
	if r.StartCol > r.EndCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
		r.StartColFixed, r.EndColFixed = r.EndColFixed, r.StartColFixed
	}
	if r.StartRow > r.EndRow {
		r.StartRow, r.EndRow = r.EndRow, r.StartRow
		r.StartRowFixed, r.EndRowFixed = r.EndRowFixed, r.StartRowFixed
	}
	return r, nil
}

type rangeComponent struct {
	col, row           int
	colFixed, rowFixed bool
}

// parseComponent decodes "[$]letters[$]digits" where either the letters or
// the digits (but not both) may be absent.
func parseComponent(s string) (rangeComponent, error) {
	var c rangeComponent
	if s == "" {
		return c, fmt.Errorf("empty component")
	}

	i := 0
	if s[i] == '$' {
		c.colFixed = true
		i++
	}
	j := i
	for j < len(s) && (s[j] >= 'A' && s[j] <= 'Z' || s[j] >= 'a' && s[j] <= 'z') {
		j++
	}
	letters := s[i:j]
	if c.colFixed && letters == "" {
		return c, fmt.Errorf("%q: '$' without column letters", s)
	}

	i = j
	if i < len(s) && s[i] == '$' {
		c.rowFixed = true
		i++
	}
	j = i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	digits := s[i:j]
	if c.rowFixed && digits == "" {
		return c, fmt.Errorf("%q: '$' without row number", s)
	}
	if j != len(s) {
		return c, fmt.Errorf("%q: trailing garbage", s)
	}
	if letters == "" && digits == "" {
		return c, fmt.Errorf("%q: neither column nor row", s)
	}

	if letters != "" {
		c.col = ColumnNumber(letters)
		if c.col < 1 {
			return c, fmt.Errorf("%q: bad column letters", s)
		}
	}
	if digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 {
			return c, fmt.Errorf("%q: bad row number", s)
		}
		c.row = n
	}
	return c, nil
}

// SingleCell reports whether the range denotes one finite cell.
func (r Range) SingleCell() bool {
	return r.StartCol > 0 && r.StartRow > 0 &&
		r.StartCol == r.EndCol && r.StartRow == r.EndRow &&
		r.StartColFixed == r.EndColFixed && r.StartRowFixed == r.EndRowFixed
}

// String serializes the range back to its textual form, keeping the "$"
// anchors and collapsing a single finite cell to one component.
func (r Range) String() string {
	var sb strings.Builder
	if r.Sheet != "" {
		sb.WriteString(r.Sheet)
		sb.WriteByte('!')
	}
	writeComponent(&sb, r.StartCol, r.StartRow, r.StartColFixed, r.StartRowFixed)
	if !r.SingleCell() {
		sb.WriteByte(':')
		writeComponent(&sb, r.EndCol, r.EndRow, r.EndColFixed, r.EndRowFixed)
	}
	return sb.String()
}

// Ref is the plain cell reference without sheet qualifier or anchors, as
// used in worksheet attributes (mergeCell ref, autoFilter ref, sqref).
func (r Range) Ref() string {
	var sb strings.Builder
	writeComponent(&sb, r.StartCol, r.StartRow, false, false)
	if !r.SingleCell() {
		sb.WriteByte(':')
		writeComponent(&sb, r.EndCol, r.EndRow, false, false)
	}
	return sb.String()
}

func writeComponent(sb *strings.Builder, col, row int, colFixed, rowFixed bool) {
	if col > 0 {
		if colFixed {
			sb.WriteByte('$')
		}
		sb.WriteString(ColumnLetters(col))
	}
	if row > 0 {
		if rowFixed {
			sb.WriteByte('$')
		}
		sb.WriteString(strconv.Itoa(row))
	}
}

// Compare orders ranges by start row, start column, end row, end column.
// An infinite axis (0) sorts before any finite index.
func (r Range) Compare(o Range) int {
	for _, p := range [4][2]int{
		{r.StartRow, o.StartRow},
		{r.StartCol, o.StartCol},
		{r.EndRow, o.EndRow},
		{r.EndCol, o.EndCol},
	} {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Overlaps reports whether the two ranges share at least one cell. Ranges
// that are identical by value always overlap; otherwise the projections on
// both axes must intersect, where an infinite axis covers everything.
func (r Range) Overlaps(o Range) bool {
	if r == o {
		return true
	}
	return axisOverlap(r.StartRow, r.EndRow, o.StartRow, o.EndRow) &&
		axisOverlap(r.StartCol, r.EndCol, o.StartCol, o.EndCol)
}

func axisOverlap(a1, a2, b1, b2 int) bool {
	if a1 == 0 || b1 == 0 {
		// infinite on this axis, covers the whole of the other
		return true
	}
	return a1 <= b2 && b1 <= a2
}

package xlsw

import (
	"strconv"
	"strings"
)

// MaxColumns is the column capacity of a worksheet (column XFD).
const MaxColumns = 16384

// MaxRows is the row capacity of a worksheet.
const MaxRows = 1_048_576

// ColumnLetters converts a 1-based column number to its letter name
// (1 -> "A", 26 -> "Z", 27 -> "AA"). The encoding is bijective base-26:
// there is no zero digit.
func ColumnLetters(n int) string {
	if n < 1 {
		return ""
	}
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+'A')) + s
		n = (n - 1) / 26
	}
	return s
}

// ColumnNumber converts column letters back to the 1-based column number.
// It accepts lower and upper case and returns 0 for empty or blank input.
func ColumnNumber(letters string) int {
	letters = strings.TrimSpace(letters)
	n := 0
	for _, r := range letters {
		switch {
		case r >= 'A' && r <= 'Z':
			n = n*26 + int(r-'A') + 1
		case r >= 'a' && r <= 'z':
			n = n*26 + int(r-'a') + 1
		default:
			return 0
		}
	}
	return n
}

// CellCoord builds an A1-style coordinate from a 1-based column and row.
func CellCoord(col, row int) string {
	return ColumnLetters(col) + strconv.Itoa(row)
}

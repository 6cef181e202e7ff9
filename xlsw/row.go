package xlsw

import (
	"fmt"
	"time"
)

type rowConfig struct {
	index  int // 0 = next
	hidden bool
	height float64
}

// RowOption configures BeginRow.
type RowOption func(*rowConfig)

// AtRow starts the row at an explicit 1-based index. The index must be
// greater than every row already written to the sheet; rows in between stay
// empty.
func AtRow(index int) RowOption {
	return func(c *rowConfig) { c.index = index }
}

// RowHidden hides the row.
func RowHidden() RowOption {
	return func(c *rowConfig) { c.hidden = true }
}

// RowHeight sets a custom row height in points.
func RowHeight(pts float64) RowOption {
	return func(c *rowConfig) { c.height = pts }
}

// BeginRow opens the next row. Rows are strictly monotonic: an index at or
// below the last written row is rejected, there is no backfilling.
func (d *Document) BeginRow(opts ...RowOption) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	if sh.rowOpen {
		return fmt.Errorf("%w: row %d", ErrRowAlreadyOpen, sh.rowIndex)
	}

	cfg := rowConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	index := cfg.index
	if index == 0 {
		index = sh.lastRow + 1
	}
	if index < 1 || index > MaxRows {
		return fmt.Errorf("%w: row index %d", ErrInvalidArgument, index)
	}
	if index <= sh.lastRow {
		return fmt.Errorf("%w: row %d after row %d", ErrRowOutOfOrder, index, sh.lastRow)
	}

	x := sh.xw
	x.OTag("+row").Attr("r", index)
	if cfg.hidden {
		x.Attr("hidden", 1)
	}
	if cfg.height > 0 {
		x.Attr("ht", cfg.height).Attr("customHeight", 1)
	}

	sh.rowOpen = true
	sh.rowIndex = index
	sh.nextCol = 1
	sh.rowMaxCol = 0
	return nil
}

// EndRow closes the open row and folds its extent into the sheet dimension.
func (d *Document) EndRow() error {
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	return d.endRowLocked(sh)
}

func (d *Document) endRowLocked(sh *sheetState) error {
	sh.xw.CTag() // row
	sh.rowOpen = false
	sh.lastRow = sh.rowIndex
	sh.maxRow = sh.rowIndex
	if sh.rowMaxCol > sh.maxCol {
		sh.maxCol = sh.rowMaxCol
	}
	return nil
}

// AppendRow writes one whole row from plain Go values: strings become
// shared-string cells, numbers numeric cells, nil an empty position. It is
// the convenience path for record-shaped data such as CSV rows.
func (d *Document) AppendRow(values ...any) error {
	if err := d.BeginRow(); err != nil {
		return err
	}
	for i, v := range values {
		var err error
		switch x := v.(type) {
		case nil:
			err = d.Skip(1)
		case string:
			err = d.WriteString(x)
		case float64:
			err = d.WriteNumber(x)
		case float32:
			err = d.WriteNumber(float64(x))
		case int:
			err = d.WriteInt(int64(x))
		case int32:
			err = d.WriteInt(int64(x))
		case int64:
			err = d.WriteInt(x)
		case bool:
			err = d.WriteBool(x)
		case time.Time:
			if x.IsZero() {
				err = d.Skip(1)
			} else {
				err = d.WriteString(x.Format("2006-01-02"))
			}
		case fmt.Stringer:
			err = d.WriteString(x.String())
		default:
			err = d.WriteString(fmt.Sprint(x))
		}
		if err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	return d.EndRow()
}

package xlsw

import (
	"fmt"
	"strconv"
	"strings"
)

type cellConfig struct {
	style int
}

// CellOption configures a single cell write.
type CellOption func(*cellConfig)

// WithCellStyle applies a registered named style index to the cell.
func WithCellStyle(style int) CellOption {
	return func(c *cellConfig) { c.style = style }
}

// WriteString writes a text cell through the shared-string table, so
// repeated values are stored once. With SkipEmptyCells an empty string only
// advances the cursor.
func (d *Document) WriteString(s string, opts ...CellOption) error {
	if d.skipEmpty && s == "" {
		return d.Skip(1)
	}
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	cfg, err := cellOpts(opts)
	if err != nil {
		return err
	}
	d.openCell(sh, cfg)
	sh.xw.Attr("t", "s")
	sh.xw.OTag("v").Write(d.shared.Intern(s)).CTag()
	d.closeCell(sh)
	return nil
}

// WriteInlineString writes the text into the cell itself, bypassing the
// shared-string table.
func (d *Document) WriteInlineString(s string, opts ...CellOption) error {
	if d.skipEmpty && s == "" {
		return d.Skip(1)
	}
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	cfg, err := cellOpts(opts)
	if err != nil {
		return err
	}
	d.openCell(sh, cfg)
	sh.xw.Attr("t", "inlineStr")
	sh.xw.OTag("is")
	sh.xw.OTag("t").Write(s).CTag()
	sh.xw.CTag()
	d.closeCell(sh)
	return nil
}

// WriteNumber writes a numeric cell. The value is rendered
// locale-invariantly.
func (d *Document) WriteNumber(v float64, opts ...CellOption) error {
	return d.writeNumeric(strconv.FormatFloat(v, 'f', -1, 64), opts)
}

// WriteInt writes an integer cell.
func (d *Document) WriteInt(v int64, opts ...CellOption) error {
	return d.writeNumeric(strconv.FormatInt(v, 10), opts)
}

func (d *Document) writeNumeric(text string, opts []CellOption) error {
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	cfg, err := cellOpts(opts)
	if err != nil {
		return err
	}
	d.openCell(sh, cfg)
	sh.xw.Attr("t", "n")
	sh.xw.OTag("v").Write(text).CTag()
	d.closeCell(sh)
	return nil
}

// WriteBool writes a boolean cell.
func (d *Document) WriteBool(v bool, opts ...CellOption) error {
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	cfg, err := cellOpts(opts)
	if err != nil {
		return err
	}
	d.openCell(sh, cfg)
	sh.xw.Attr("t", "b")
	sh.xw.OTag("v").Write(boolAttr(v)).CTag()
	d.closeCell(sh)
	return nil
}

// WriteFormula writes a formula cell. The expression is stored verbatim,
// without a leading "=".
func (d *Document) WriteFormula(expr string, opts ...CellOption) error {
	if expr == "" {
		return fmt.Errorf("%w: empty formula", ErrInvalidArgument)
	}
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	cfg, err := cellOpts(opts)
	if err != nil {
		return err
	}
	d.openCell(sh, cfg)
	sh.xw.OTag("f").Write(expr).CTag()
	d.closeCell(sh)
	return nil
}

// WritePicture embeds an image in the cell as a local-image rich value.
// Identical blobs are stored once. Supported extensions: .png, .jpg/.jpeg.
func (d *Document) WritePicture(ext string, blob []byte, opts ...CellOption) error {
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	cfg, err := cellOpts(opts)
	if err != nil {
		return err
	}
	if len(blob) == 0 {
		return fmt.Errorf("%w: empty picture data", ErrInvalidArgument)
	}
	ext = strings.ToLower(ext)
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	switch ext {
	case ".jpeg":
		d.defaultTypes["jpeg"] = "image/jpeg"
	case ".png":
		d.defaultTypes["png"] = "image/png"
	default:
		return fmt.Errorf("%w: unsupported image extension %q", ErrInvalidArgument, ext)
	}
	info := d.media.add(ext, blob, d.nextRichDataRID)

	d.openCell(sh, cfg)
	sh.xw.Attr("t", "e").Attr("vm", info.iid+1)
	sh.xw.OTag("v").Write("#VALUE!").CTag()
	d.closeCell(sh)
	return nil
}

// Skip advances the cell cursor by n columns without emitting anything.
func (d *Document) Skip(n int) error {
	sh, err := d.openRow()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: skip count %d", ErrInvalidArgument, n)
	}
	sh.nextCol += n
	return nil
}

func cellOpts(opts []CellOption) (cellConfig, error) {
	cfg := cellConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.style < 0 {
		return cfg, fmt.Errorf("%w: negative style index %d", ErrInvalidArgument, cfg.style)
	}
	return cfg, nil
}

// openCell emits the cell open tag at the cursor position and advances the
// cursor.
func (d *Document) openCell(sh *sheetState, cfg cellConfig) {
	sh.xw.OTag("+c").Attr("r", CellCoord(sh.nextCol, sh.rowIndex))
	if cfg.style > 0 {
		sh.xw.Attr("s", cfg.style)
	}
	sh.rowMaxCol = sh.nextCol
	sh.nextCol++
}

func (d *Document) closeCell(sh *sheetState) {
	sh.xw.CTag() // c
}

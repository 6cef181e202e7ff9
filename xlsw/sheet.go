package xlsw

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/adnsv/srw/xml"
)

// Column describes one worksheet column, applied from the sheet's first
// column onward.
type Column struct {
	Width  float64 // characters; 0 = default width
	Hidden bool
	Style  int // named style index applied to the whole column
}

// pageFlags are the per-sheet view and print toggles. Each sheet starts
// from the same defaults; only deviations are serialized.
type pageFlags struct {
	showGridLines  bool
	showHeadings   bool
	printGridLines bool
	printHeadings  bool
}

func defaultPageFlags() pageFlags {
	return pageFlags{showGridLines: true, showHeadings: true}
}

type sheetState struct {
	info SheetInfo
	xw   *xml.Writer

	lastRow   int // last closed row index
	rowOpen   bool
	rowIndex  int
	nextCol   int // 1-based cursor within the open row
	rowMaxCol int // rightmost emitted cell in the open row
	maxRow    int
	maxCol    int

	autoFilter  *Range
	merges      []Range
	cfRules     []cfRule
	validations []validation
	view        pageFlags
}

type sheetConfig struct {
	columns    []Column
	visibility Visibility
}

// SheetOption configures OpenSheet.
type SheetOption func(*sheetConfig)

// WithColumns sets fixed column definitions, first column onward.
func WithColumns(cols []Column) SheetOption {
	return func(c *sheetConfig) { c.columns = cols }
}

// WithVisibility sets the sheet visibility state (default Visible).
func WithVisibility(v Visibility) SheetOption {
	return func(c *sheetConfig) { c.visibility = v }
}

// validateSheetName enforces the format's sheet naming rules.
func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return fmt.Errorf("%w: empty name", ErrSheetName)
	}
	if n > 31 {
		return fmt.Errorf("%w: %q: longer than 31 characters", ErrSheetName, s)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return fmt.Errorf("%w: %q: cannot start or end with a single quote", ErrSheetName, s)
	}
	if strings.ContainsAny(s, `:\/?*[]`) {
		return fmt.Errorf(`%w: %q: cannot contain any of :\/?*[]`, ErrSheetName, s)
	}
	return nil
}

// OpenSheet begins a new sheet and streams its worksheet header. Sheet
// names must be unique case-insensitively across the document.
func (d *Document) OpenSheet(name string, opts ...SheetOption) error {
	if d == nil || d.closed {
		return ErrClosed
	}
	if d.cur != nil {
		return fmt.Errorf("%w: %q", ErrSheetAlreadyOpen, d.cur.info.Name)
	}
	if err := validateSheetName(name); err != nil {
		return err
	}
	key := strings.ToLower(name)
	if _, dup := d.sheetNames[key]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateSheetName, name)
	}

	cfg := sheetConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	d.lastSheetID++
	sh := &sheetState{
		info: SheetInfo{
			Name:       name,
			ID:         d.lastSheetID,
			Visibility: cfg.visibility,
			rid:        d.nextWorkbookRID(),
		},
		nextCol: 1,
		view:    defaultPageFlags(),
	}

	relpath := fmt.Sprintf("worksheets/sheet%d.xml", sh.info.ID)
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	d.workbookRels[sh.info.rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		target: relpath,
	}

	part, err := d.out.CreatePart(abspath)
	if err != nil {
		return fmt.Errorf("create worksheet part: %w", err)
	}
	x := xml.NewWriter(part, xml.WriterConfig{})
	x.XmlStandaloneDecl()
	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	if len(cfg.columns) > 0 {
		x.OTag("+cols")
		for i, c := range cfg.columns {
			x.OTag("+col").Attr("min", i+1).Attr("max", i+1)
			if c.Width > 0 {
				x.Attr("width", c.Width).Attr("customWidth", 1)
			}
			if c.Hidden {
				x.Attr("hidden", 1)
			}
			if c.Style > 0 {
				x.Attr("style", c.Style)
			}
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+sheetData")

	sh.xw = x
	d.cur = sh
	d.sheetNames[key] = struct{}{}
	return nil
}

// MergeCells queues a merged range on the open sheet. The range must be
// finite and must not overlap any range already merged on this sheet; a
// rejected merge leaves the queue untouched.
func (d *Document) MergeCells(ref string) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if rng.StartRow == 0 || rng.StartCol == 0 {
		return fmt.Errorf("%w: %q: merged range must be finite", ErrInvalidRange, ref)
	}
	for _, m := range sh.merges {
		if m.Overlaps(rng) {
			return fmt.Errorf("%w: %s overlaps %s", ErrOverlappingRange, rng.Ref(), m.Ref())
		}
	}
	sh.merges = append(sh.merges, rng)
	return nil
}

// SetAutoFilter puts a filter dropdown on the given range. A sheet holds at
// most one; a second call replaces the first.
func (d *Document) SetAutoFilter(ref string) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	sh.autoFilter = &rng
	return nil
}

// SetShowGridLines toggles gridline display (default on). Like the other
// page-layout flags it is only accessible while a sheet is open and resets
// when the next sheet opens.
func (d *Document) SetShowGridLines(v bool) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	sh.view.showGridLines = v
	return nil
}

// SetShowHeadings toggles row/column heading display (default on).
func (d *Document) SetShowHeadings(v bool) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	sh.view.showHeadings = v
	return nil
}

// SetPrintGridLines toggles gridline printing (default off).
func (d *Document) SetPrintGridLines(v bool) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	sh.view.printGridLines = v
	return nil
}

// SetPrintHeadings toggles heading printing (default off).
func (d *Document) SetPrintHeadings(v bool) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	sh.view.printHeadings = v
	return nil
}

// ShowGridLines reports the open sheet's gridline display flag.
func (d *Document) ShowGridLines() (bool, error) {
	sh, err := d.openSheet()
	if err != nil {
		return false, err
	}
	return sh.view.showGridLines, nil
}

// ShowHeadings reports the open sheet's heading display flag.
func (d *Document) ShowHeadings() (bool, error) {
	sh, err := d.openSheet()
	if err != nil {
		return false, err
	}
	return sh.view.showHeadings, nil
}

// PrintGridLines reports the open sheet's gridline print flag.
func (d *Document) PrintGridLines() (bool, error) {
	sh, err := d.openSheet()
	if err != nil {
		return false, err
	}
	return sh.view.printGridLines, nil
}

// PrintHeadings reports the open sheet's heading print flag.
func (d *Document) PrintHeadings() (bool, error) {
	sh, err := d.openSheet()
	if err != nil {
		return false, err
	}
	return sh.view.printHeadings, nil
}

// CloseSheet seals the open sheet. Auxiliary sections are flushed in the
// fixed order the worksheet schema demands, regardless of the order their
// Add/Set calls happened in: autoFilter, mergeCells, conditionalFormatting,
// dataValidations, printOptions, sheetViews. An open row must be ended
// first.
func (d *Document) CloseSheet() error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	if sh.rowOpen {
		return fmt.Errorf("%w: row %d must be ended before closing sheet %q",
			ErrRowAlreadyOpen, sh.rowIndex, sh.info.Name)
	}
	return d.closeSheetLocked(sh)
}

func (d *Document) closeSheetLocked(sh *sheetState) error {
	x := sh.xw
	x.CTag() // sheetData

	if sh.autoFilter != nil {
		x.OTag("+autoFilter").Attr("ref", sh.autoFilter.Ref()).CTag()
	}

	if len(sh.merges) > 0 {
		x.OTag("+mergeCells").Attr("count", len(sh.merges))
		for _, m := range sh.merges {
			x.OTag("+mergeCell").Attr("ref", m.Ref()).CTag()
		}
		x.CTag()
	}

	for _, r := range sh.cfRules {
		x.OTag("+conditionalFormatting").Attr("sqref", r.rng.Ref())
		x.OTag("+cfRule")
		switch r.kind {
		case cfFormula:
			x.Attr("type", "expression")
		case cfCellIs:
			x.Attr("type", "cellIs").Attr("operator", string(r.op))
		case cfDuplicateValues:
			x.Attr("type", "duplicateValues")
		}
		x.Attr("dxfId", r.diffID).Attr("priority", r.priority)
		for _, f := range r.operands {
			x.OTag("+formula").Write(f).CTag()
		}
		x.CTag() // cfRule
		x.CTag() // conditionalFormatting
	}

	if len(sh.validations) > 0 {
		x.OTag("+dataValidations").Attr("count", len(sh.validations))
		for _, v := range sh.validations {
			x.OTag("+dataValidation").Attr("type", v.kind.attr())
			if v.kind != validateList {
				x.Attr("operator", string(v.op))
			}
			x.Attr("allowBlank", boolAttr(v.allowBlank))
			x.Attr("showInputMessage", boolAttr(v.showInput))
			x.Attr("showErrorMessage", boolAttr(v.showError))
			if v.promptTitle != "" {
				x.Attr("promptTitle", v.promptTitle)
			}
			if v.prompt != "" {
				x.Attr("prompt", v.prompt)
			}
			if v.errorTitle != "" {
				x.Attr("errorTitle", v.errorTitle)
			}
			if v.errorMessage != "" {
				x.Attr("error", v.errorMessage)
			}
			x.Attr("sqref", v.rng.Ref())
			x.OTag("+formula1").Write(v.operands[0]).CTag()
			if len(v.operands) > 1 {
				x.OTag("+formula2").Write(v.operands[1]).CTag()
			}
			x.CTag()
		}
		x.CTag()
	}

	if sh.view.printGridLines || sh.view.printHeadings {
		x.OTag("+printOptions")
		if sh.view.printGridLines {
			x.Attr("gridLines", 1)
		}
		if sh.view.printHeadings {
			x.Attr("headings", 1)
		}
		x.CTag()
	}

	if !sh.view.showGridLines || !sh.view.showHeadings {
		x.OTag("+sheetViews")
		x.OTag("+sheetView").Attr("workbookViewId", 0)
		if !sh.view.showGridLines {
			x.Attr("showGridLines", 0)
		}
		if !sh.view.showHeadings {
			x.Attr("showRowColHeaders", 0)
		}
		x.CTag()
		x.CTag()
	}

	x.CTag() // worksheet

	if sh.maxRow > 0 {
		maxCol := sh.maxCol
		if maxCol < 1 {
			maxCol = 1
		}
		sh.info.Dimension = "A1:" + CellCoord(maxCol, sh.maxRow)
	}
	d.sheets = append(d.sheets, sh.info)
	d.cur = nil
	return nil
}

func boolAttr(v bool) int {
	if v {
		return 1
	}
	return 0
}

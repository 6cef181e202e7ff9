package xlsw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Kind selects the package subtype the document is written as.
type Kind int

const (
	// Workbook is a general workbook (.xlsx), the default.
	Workbook Kind = iota
	// Template is a workbook template (.xltx).
	Template
	// MacroWorkbook is a macro-enabled workbook (.xlsm).
	MacroWorkbook
	// MacroTemplate is a macro-enabled template (.xltm).
	MacroTemplate
	// AddIn (.xlam) is recognized but not supported; constructing a document
	// with it fails before anything is written.
	AddIn
)

// contentType returns the main-part content type for the kind, or "" when
// the kind is not writable.
func (k Kind) contentType() string {
	switch k {
	case Workbook:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	case Template:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.template.main+xml"
	case MacroWorkbook:
		return "application/vnd.ms-excel.sheet.macroEnabled.main+xml"
	case MacroTemplate:
		return "application/vnd.ms-excel.template.macroEnabled.main+xml"
	}
	return ""
}

// Visibility is the sheet visibility state.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
	// VeryHidden sheets can only be re-shown programmatically.
	VeryHidden
)

func (v Visibility) stateAttr() string {
	switch v {
	case Hidden:
		return "hidden"
	case VeryHidden:
		return "veryHidden"
	}
	return ""
}

// SheetInfo summarizes a closed sheet.
type SheetInfo struct {
	Name       string
	ID         int
	Visibility Visibility
	// Dimension is the used-area reference ("A1:D3"), empty for a sheet
	// without rows.
	Dimension string

	rid string
}

type relInfo struct {
	typ    string // schema type url
	target string // relative path
}

// Document is a streaming workbook writer. Rows are emitted as they are
// produced; the write order is enforced by a document -> sheet -> row state
// machine so that a misused writer fails fast instead of producing a corrupt
// package. A Document is not safe for concurrent use.
type Document struct {
	out  Storage
	file *os.File      // owned when constructed via Create
	buf  *bytes.Buffer // in-memory destination, nil otherwise

	kind      Kind
	appName   string
	skipEmpty bool

	styles *Styles
	shared *sharedStrings
	media  mediaTable

	globalRels     map[string]relInfo
	workbookRels   map[string]relInfo
	richDataRels   map[string]relInfo
	defaultTypes   map[string]string
	partTypes      map[string]string
	lastGlobalID   int
	lastWorkbookID int
	lastRichDataID int

	sheets     []SheetInfo
	sheetNames map[string]struct{} // lowercased
	lastSheetID int

	cur    *sheetState
	closed bool
}

type config struct {
	kind      Kind
	appName   string
	skipEmpty bool
	styles    *Styles
}

// Option configures a document at construction time.
type Option func(*config)

// WithKind selects the package subtype (default Workbook).
func WithKind(k Kind) Option { return func(c *config) { c.kind = k } }

// WithAppName sets the producing application name recorded in the package
// properties.
func WithAppName(name string) Option { return func(c *config) { c.appName = name } }

// SkipEmptyCells makes writes of empty text advance the cell cursor without
// emitting a cell.
func SkipEmptyCells() Option { return func(c *config) { c.skipEmpty = true } }

// WithStyles supplies a pre-populated style registry instead of the default
// seeded one.
func WithStyles(s *Styles) Option { return func(c *config) { c.styles = s } }

// NewWithStorage opens a document over an explicit part storage.
func NewWithStorage(out Storage, opts ...Option) (*Document, error) {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.kind.contentType() == "" {
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedKind, int(cfg.kind))
	}
	if cfg.styles == nil {
		cfg.styles = NewStyles()
	}
	d := &Document{
		out:       out,
		kind:      cfg.kind,
		appName:   cfg.appName,
		skipEmpty: cfg.skipEmpty,
		styles:    cfg.styles,
		shared:    newSharedStrings(),

		globalRels:   map[string]relInfo{},
		workbookRels: map[string]relInfo{},
		richDataRels: map[string]relInfo{},
		defaultTypes: map[string]string{},
		partTypes:    map[string]string{},

		sheetNames: map[string]struct{}{},
	}
	d.defaultTypes["xml"] = "application/xml"
	d.defaultTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"
	return d, nil
}

// New opens a document streaming a zip package to out.
func New(out io.Writer, opts ...Option) (*Document, error) {
	return NewWithStorage(NewZipStorage(out), opts...)
}

// Create opens a document writing to the file at path. An unsupported kind
// is rejected before the file is created.
func Create(path string, opts ...Option) (*Document, error) {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.kind.contentType() == "" {
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedKind, int(cfg.kind))
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	d, err := New(f, opts...)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	d.file = f
	return d, nil
}

// NewBuffer opens a document writing to an in-memory buffer, retrievable
// with Bytes or Reader after Close.
func NewBuffer(opts ...Option) (*Document, error) {
	buf := &bytes.Buffer{}
	d, err := New(buf, opts...)
	if err != nil {
		return nil, err
	}
	d.buf = buf
	return d, nil
}

// Bytes returns the finished package when the document was opened with
// NewBuffer and has been closed.
func (d *Document) Bytes() []byte {
	if d.buf == nil {
		return nil
	}
	return d.buf.Bytes()
}

// Reader returns the finished package positioned at the start. Only valid
// after Close on a NewBuffer document.
func (d *Document) Reader() io.Reader {
	return bytes.NewReader(d.Bytes())
}

// Styles exposes the document's style registry.
func (d *Document) Styles() *Styles { return d.styles }

// Sheets lists the sheets closed so far, in close order.
func (d *Document) Sheets() []SheetInfo {
	return append([]SheetInfo(nil), d.sheets...)
}

func (d *Document) nextGlobalRID() string {
	d.lastGlobalID++
	return fmt.Sprintf("rId%d", d.lastGlobalID)
}

func (d *Document) nextWorkbookRID() string {
	d.lastWorkbookID++
	return fmt.Sprintf("rId%d", d.lastWorkbookID)
}

func (d *Document) nextRichDataRID() string {
	d.lastRichDataID++
	return fmt.Sprintf("rId%d", d.lastRichDataID)
}

// openSheet returns the current sheet state, guarding sheet-scoped calls.
func (d *Document) openSheet() (*sheetState, error) {
	if d == nil || d.closed {
		return nil, ErrClosed
	}
	if d.cur == nil {
		return nil, ErrNoOpenSheet
	}
	return d.cur, nil
}

// openRow returns the current sheet state with an open row, guarding
// row-scoped calls.
func (d *Document) openRow() (*sheetState, error) {
	sh, err := d.openSheet()
	if err != nil {
		return nil, err
	}
	if !sh.rowOpen {
		return nil, ErrNoOpenRow
	}
	return sh, nil
}

// Close finalizes the document: any open row and sheet are ended, the
// shared-string, style, media and workbook parts are written, and the
// destination is released. Close is idempotent; a second call is a no-op.
// Even when finalization fails the destination is still released.
func (d *Document) Close() error {
	if d == nil || d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.cur != nil {
		if d.cur.rowOpen {
			if err := d.endRowLocked(d.cur); err != nil {
				errs = append(errs, err)
			}
		}
		if err := d.closeSheetLocked(d.cur); err != nil {
			errs = append(errs, err)
		}
		d.cur = nil
	}

	if err := d.writeTrailingParts(); err != nil {
		errs = append(errs, err)
	}

	if err := d.out.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		d.file = nil
	}
	return errors.Join(errs...)
}

// writeTrailingParts emits every part that depends on the full document:
// shared strings, styles, media and rich-value data, document properties,
// the workbook with its sheet index, relationships and content types.
func (d *Document) writeTrailingParts() error {
	if d.shared.Len() > 0 {
		if err := d.writeSharedStringsPart(); err != nil {
			return err
		}
	}
	if err := d.writeStylesPart(); err != nil {
		return err
	}
	if len(d.media.list) > 0 {
		if err := d.writeMediaParts(); err != nil {
			return err
		}
	}
	if err := d.writeCoreProperties(); err != nil {
		return err
	}
	if err := d.writeExtendedProperties(); err != nil {
		return err
	}
	if err := d.writeWorkbookPart(); err != nil {
		return err
	}
	if err := d.writeRels("/xl/_rels/workbook.xml.rels", d.workbookRels); err != nil {
		return err
	}
	if err := d.writeRels("/_rels/.rels", d.globalRels); err != nil {
		return err
	}
	return d.writeContentTypes()
}

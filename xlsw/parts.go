package xlsw

import (
	"bytes"
	"time"

	"github.com/adnsv/srw/xml"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// blobPart starts a buffered XML part; the returned func seals it into the
// storage. Used for the small trailing parts — worksheets stream directly.
func (d *Document) blobPart(abspath string) (*xml.Writer, func() error) {
	bb := &bytes.Buffer{}
	x := xml.NewWriter(bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()
	return x, func() error {
		return d.out.WriteBlob(abspath, bb.Bytes())
	}
}

func (d *Document) writeCoreProperties() error {
	rid := d.nextGlobalRID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath
	d.partTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	d.globalRels[rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(time.Now().UTC().Format(time.RFC3339))
	x.CTag()

	x.CTag()
	return done()
}

func (d *Document) writeExtendedProperties() error {
	rid := d.nextGlobalRID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath
	d.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	d.globalRels[rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")
	if d.appName != "" {
		x.OTag("+Application").String(d.appName).CTag()
	}
	x.CTag()
	return done()
}

// writeWorkbookPart emits the workbook with its sheet index, in close
// order. The part's content type carries the document kind.
func (d *Document) writeWorkbookPart() error {
	rid := d.nextGlobalRID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath
	d.partTypes[abspath] = d.kind.contentType()
	d.globalRels[rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+sheets")
	for _, sh := range d.sheets {
		x.OTag("+sheet")
		x.Attr("name", sh.Name)
		x.Attr("sheetId", sh.ID)
		if st := sh.Visibility.stateAttr(); st != "" {
			x.Attr("state", st)
		}
		x.Attr("r:id", sh.rid)
		x.CTag()
	}
	x.CTag()

	x.CTag()
	return done()
}

func (d *Document) writeSharedStringsPart() error {
	rid := d.nextWorkbookRID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	d.workbookRels[rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("sst")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("count", d.shared.Len())
	x.Attr("uniqueCount", d.shared.Len())
	for _, s := range d.shared.list {
		x.OTag("+si")
		x.OTag("t").Write(s).CTag()
		x.CTag()
	}
	x.CTag()
	return done()
}

// writeStylesPart serializes the style registry: the four primitive tables,
// the named cell formats and the differential formats. Entries are emitted
// from value copies, so registry mutation after this point cannot bleed
// into the part.
func (d *Document) writeStylesPart() error {
	rid := d.nextWorkbookRID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	d.workbookRels[rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		target: relpath,
	}

	s := d.styles
	x, done := d.blobPart(abspath)
	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(s.numFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(s.numFmts))
		for _, nf := range s.numFmts {
			x.OTag("+numFmt").Attr("numFmtId", nf.id).Attr("formatCode", nf.code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(s.fonts))
	for _, f := range s.fonts {
		writeFont(x, f)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", len(s.fills))
	for _, f := range s.fills {
		writeFill(x, f)
	}
	x.CTag()

	x.OTag("+borders").Attr("count", len(s.borders))
	for _, b := range s.borders {
		writeBorder(x, b)
	}
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(s.entries))
	for _, e := range s.entries {
		x.OTag("+xf")
		x.Attr("numFmtId", e.numFmtID)
		x.Attr("fontId", e.fontID)
		x.Attr("fillId", e.fillID)
		x.Attr("borderId", e.borderID)
		x.Attr("xfId", 0)
		if e.numFmtID > 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if e.fontID > 0 {
			x.Attr("applyFont", 1)
		}
		if e.fillID > 0 {
			x.Attr("applyFill", 1)
		}
		if e.borderID > 0 {
			x.Attr("applyBorder", 1)
		}
		if e.hasAlign {
			x.Attr("applyAlignment", 1)
			writeAlignment(x, e.align)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+dxfs").Attr("count", len(s.diffs))
	for _, e := range s.diffs {
		x.OTag("+dxf")
		if e.hasFont {
			writeFont(x, e.font)
		}
		if e.hasNumFmt {
			x.OTag("+numFmt").Attr("numFmtId", e.numFmtID).Attr("formatCode", e.numFmt).CTag()
		}
		if e.hasFill {
			writeFill(x, e.fill)
		}
		if e.hasAlign {
			writeAlignment(x, e.align)
		}
		if e.hasBorder {
			writeBorder(x, e.border)
		}
		x.CTag()
	}
	x.CTag()

	x.CTag() // styleSheet
	return done()
}

func writeFont(x *xml.Writer, f Font) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("+b").CTag()
	}
	if f.Italic {
		x.OTag("+i").CTag()
	}
	if f.Strikethrough {
		x.OTag("+strike").CTag()
	}
	if f.Underline != UnderlineNone {
		x.OTag("+u").Attr("val", string(f.Underline)).CTag()
	}
	size := f.Size
	if size == 0 {
		size = 11
	}
	x.OTag("+sz").Attr("val", size).CTag()
	if f.Color != "" {
		x.OTag("+color").Attr("rgb", f.Color).CTag()
	}
	name := f.Name
	if name == "" {
		name = "Calibri"
	}
	x.OTag("+name").Attr("val", name).CTag()
	x.CTag()
}

func writeFill(x *xml.Writer, f Fill) {
	pattern := f.Pattern
	if pattern == "" {
		pattern = PatternNone
	}
	x.OTag("+fill")
	x.OTag("+patternFill").Attr("patternType", string(pattern))
	if f.Color != "" {
		x.OTag("+fgColor").Attr("rgb", f.Color).CTag()
	}
	x.CTag()
	x.CTag()
}

func writeBorder(x *xml.Writer, b Border) {
	edge := func(e BorderEdge) {
		if e.Style != LineNone {
			x.Attr("style", string(e.Style))
		}
		if e.Color != "" {
			x.OTag("+color").Attr("rgb", e.Color).CTag()
		}
	}
	x.OTag("+border")
	x.OTag("+left")
	edge(b.Left)
	x.CTag()
	x.OTag("+right")
	edge(b.Right)
	x.CTag()
	x.OTag("+top")
	edge(b.Top)
	x.CTag()
	x.OTag("+bottom")
	edge(b.Bottom)
	x.CTag()
	x.OTag("+diagonal")
	edge(b.Diagonal)
	x.CTag()
	x.CTag()
}

func writeAlignment(x *xml.Writer, a Alignment) {
	x.OTag("+alignment")
	if a.Horizontal != "" {
		x.Attr("horizontal", a.Horizontal)
	}
	if a.Vertical != "" {
		x.Attr("vertical", a.Vertical)
	}
	if a.WrapText {
		x.Attr("wrapText", 1)
	}
	x.CTag()
}

func (d *Document) writeContentTypes() error {
	x, done := d.blobPart("[Content_Types].xml")
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(d.defaultTypes, func(ext, ctype string) {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
	})
	enumerate(d.partTypes, func(abspath, ctype string) {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
	})
	x.CTag()
	return done()
}

func (d *Document) writeRels(path string, rels map[string]relInfo) error {
	x, done := d.blobPart(path)
	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	enumerate(rels, func(rid string, info relInfo) {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.typ).Attr("Target", info.target)
		x.CTag()
	})
	x.CTag()
	return done()
}

// enumerate visits a map in sorted key order, keeping the emitted parts
// deterministic.
func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V)) {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		callback(k, m[k])
	}
}

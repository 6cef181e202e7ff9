package xlsw

import (
	"fmt"
	"hash/fnv"

	"github.com/adnsv/srw/xml"
	"github.com/google/uuid"
)

// mediaInfo is one deduplicated image blob referenced from picture cells.
type mediaInfo struct {
	name string // content hash + extension
	blob []byte
	iid  int
	rid  string
}

type mediaTable struct {
	list   []*mediaInfo
	byName map[string]*mediaInfo
}

// blobHash folds the blob into a uuid-shaped content id, keeping media part
// names stable across identical inputs.
func blobHash(blob []byte) uuid.UUID {
	h := fnv.New128()
	h.Write(blob)
	uid, _ := uuid.FromBytes(h.Sum(nil))
	return uid
}

// add registers a blob, reusing the entry when the same content was already
// added. nextRID mints a rich-data relationship id for new entries.
func (t *mediaTable) add(ext string, blob []byte, nextRID func() string) *mediaInfo {
	n := fmt.Sprintf("%.16x%s", blobHash(blob), ext)
	if info, ok := t.byName[n]; ok {
		return info
	}
	info := &mediaInfo{
		name: n,
		blob: blob,
		iid:  len(t.list),
		rid:  nextRID(),
	}
	if t.byName == nil {
		t.byName = map[string]*mediaInfo{}
	}
	t.byName[n] = info
	t.list = append(t.list, info)
	return info
}

// writeMediaParts emits the image blobs and the rich-value parts that bind
// picture cells to them. Called from finalize only when pictures were
// written.
func (d *Document) writeMediaParts() error {
	for _, m := range d.media.list {
		if err := d.out.WriteBlob("/xl/media/"+m.name, m.blob); err != nil {
			return err
		}
		d.richDataRels[m.rid] = relInfo{
			typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
			target: "../media/" + m.name,
		}
	}
	if err := d.writeRichValueRel(); err != nil {
		return err
	}
	if err := d.writeRels("/xl/richData/_rels/richValueRel.xml.rels", d.richDataRels); err != nil {
		return err
	}
	if err := d.writeRichValueStructure(); err != nil {
		return err
	}
	if err := d.writeRichValueData(); err != nil {
		return err
	}
	return d.writeValueMetadata()
}

func (d *Document) writeRichValueRel() error {
	rid := d.nextWorkbookRID()

	relpath := "richData/richValueRel.xml"
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.ms-excel.richvaluerel+xml"
	d.workbookRels[rid] = relInfo{
		typ:    "http://schemas.microsoft.com/office/2022/10/relationships/richValueRel",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("richValueRels")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2022/richvaluerel")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	for _, m := range d.media.list {
		x.OTag("+rel").Attr("r:id", m.rid).CTag()
	}
	x.CTag()
	return done()
}

func (d *Document) writeRichValueStructure() error {
	rid := d.nextWorkbookRID()

	relpath := "richData/rdrichvaluestructure.xml"
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.ms-excel.rdrichvaluestructure+xml"
	d.workbookRels[rid] = relInfo{
		typ:    "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValueStructure",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("rvStructures")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")
	x.Attr("count", 1)

	// _localImage{Id, CalcOrigin}
	x.OTag("+s").Attr("t", "_localImage")
	x.OTag("+k").Attr("n", "_rvRel:LocalImageIdentifier").Attr("t", "i").CTag()
	x.OTag("+k").Attr("n", "CalcOrigin").Attr("t", "i").CTag()
	x.CTag()

	x.CTag()
	return done()
}

func (d *Document) writeRichValueData() error {
	rid := d.nextWorkbookRID()

	relpath := "richData/rdrichvalue.xml"
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.ms-excel.rdrichvalue+xml"
	d.workbookRels[rid] = relInfo{
		typ:    "http://schemas.microsoft.com/office/2017/06/relationships/rdRichValue",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("rvData")
	x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")
	x.Attr("count", len(d.media.list))
	for _, m := range d.media.list {
		x.OTag("+rv").Attr("s", 0)
		x.OTag("v").Write(m.iid).CTag()
		x.OTag("v").Write(5).CTag()
		x.CTag()
	}
	x.CTag()
	return done()
}

// writeValueMetadata binds cell vm indices to the rich values.
func (d *Document) writeValueMetadata() error {
	rid := d.nextWorkbookRID()

	relpath := "metadata.xml"
	abspath := "/xl/" + relpath
	d.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheetMetadata+xml"
	d.workbookRels[rid] = relInfo{
		typ:    "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sheetMetadata",
		target: relpath,
	}

	x, done := d.blobPart(abspath)
	x.OTag("metadata")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:xlrd", "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata")

	x.OTag("+metadataTypes").Attr("count", 1)
	x.OTag("+metadataType")
	x.Attr("name", "XLRICHVALUE")
	x.Attr("minSupportedVersion", "120000")
	for _, s := range []xml.NameString{"copy", "pasteAll", "pasteValues",
		"merge", "splitFirst", "rowColShift", "clearFormats",
		"clearComments", "assign", "coerce"} {
		x.Attr(s, 1)
	}
	x.CTag()
	x.CTag()

	x.OTag("futureMetadata").Attr("name", "XLRICHVALUE").Attr("count", len(d.media.list))
	for _, m := range d.media.list {
		x.OTag("+bk")
		x.OTag("extLst")
		x.OTag("ext").Attr("uri", "{3e2802c4-a4d2-4d8b-9148-e3be6c30e623}")
		x.OTag("xlrd:rvb").Attr("i", m.iid).CTag()
		x.CTag()
		x.CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("valueMetadata").Attr("count", len(d.media.list))
	for _, m := range d.media.list {
		x.OTag("+bk")
		x.OTag("rc").Attr("t", 1).Attr("v", m.iid).CTag()
		x.CTag()
	}
	x.CTag()

	x.CTag()
	return done()
}

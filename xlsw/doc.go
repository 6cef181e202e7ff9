// Package xlsw writes spreadsheet packages as a forward-only stream. Rows
// are emitted the moment they are produced, so a workbook of any length can
// be written in constant memory; the price is a strict write order, enforced
// as a document -> sheet -> row state machine.
//
// A minimal session:
//
//	d, err := xlsw.Create("report.xlsx")
//	if err != nil {
//		return err
//	}
//	d.OpenSheet("Data")
//	d.AppendRow("name", "count")
//	d.AppendRow("widgets", 42)
//	d.CloseSheet()
//	return d.Close()
//
// Styles, shared strings, conditional formatting and data validations are
// collected while writing and flushed into their parts when the document is
// closed.
package xlsw

// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package ods

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/quicktemplate"
	"github.com/xuri/excelize/v2"
)

const contentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
	` xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"` +
	` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
	` xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"` +
	` xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"` +
	` xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"` +
	` xmlns:xlink="http://www.w3.org/1999/xlink"` +
	` xmlns:number="urn:oasis:names:tc:opendocument:xmlns:datastyle:1.0"` +
	` xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"` +
	` office:version="1.2">
<office:automatic-styles>
<number:percentage-style style:name="N0P"><number:number number:decimal-places="0" number:min-integer-digits="1"/><number:text>%</number:text></number:percentage-style>
<number:date-style style:name="N0D"><number:year number:style="long"/><number:text>-</number:text><number:month number:style="long"/><number:text>-</number:text><number:day number:style="long"/></number:date-style>
<style:style style:name="ceB" style:family="table-cell"><style:text-properties fo:font-weight="bold"/></style:style>
<style:style style:name="ceP" style:family="table-cell" style:data-style-name="N0P"/>
<style:style style:name="ceD" style:family="table-cell" style:data-style-name="N0D"/>
<style:style style:name="ceBP" style:family="table-cell" style:data-style-name="N0P"><style:text-properties fo:font-weight="bold"/></style:style>
<style:style style:name="ceBD" style:family="table-cell" style:data-style-name="N0D"><style:text-properties fo:font-weight="bold"/></style:style>
`

// cell kinds
const (
	kindString = iota
	kindFloat
	kindPercent
	kindDate
	kindBool
)

type cell struct {
	text  string
	value string
	kind  int
	bold  bool
}

type sheetData struct {
	name   string
	rows   [][]cell
	widths []float64
	spans  map[[2]int]int
	cover  map[[2]int]bool
	pics   map[[2]int][]picture
}

func writeContent(w io.Writer, xl *excelize.File, pictures map[string][]picture) error {
	var sheets []sheetData
	for _, name := range xl.GetSheetList() {
		sd, err := readSheet(xl, name, pictures[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sheets = append(sheets, sd)
	}

	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	n, e := qw.N(), qw.E()
	n.S(contentHeader)
	for i, sd := range sheets {
		for j, wd := range sd.widths {
			n.S(`<style:style style:name="co`)
			n.D(i)
			n.S("_")
			n.D(j)
			n.S(`" style:family="table-column"><style:table-column-properties style:column-width="`)
			n.FPrec(wd, 3)
			n.S("cm\"/></style:style>\n")
		}
	}
	n.S("</office:automatic-styles>\n<office:body>\n<office:spreadsheet>\n")
	for i, sd := range sheets {
		n.S(`<table:table table:name="`)
		e.S(sd.name)
		n.S("\">\n")
		for j := range sd.widths {
			n.S(`<table:table-column table:style-name="co`)
			n.D(i)
			n.S("_")
			n.D(j)
			n.S("\"/>\n")
		}
		for r, row := range sd.rows {
			n.S("<table:table-row>")
			for c, cl := range row {
				k := [2]int{r, c}
				if sd.cover[k] {
					n.S("<table:covered-table-cell/>")
					continue
				}
				writeCell(n, e, cl, sd.spans[k], sd.pics[k])
			}
			n.S("</table:table-row>\n")
		}
		n.S("</table:table>\n")
	}
	n.S("</office:spreadsheet>\n</office:body>\n</office:document-content>\n")
	return nil
}

func writeCell(n, e *quicktemplate.QWriter, cl cell, span int, pics []picture) {
	n.S("<table:table-cell")
	if style := cellStyle(cl); style != "" {
		n.S(` table:style-name="`)
		n.S(style)
		n.S(`"`)
	}
	if span > 1 {
		n.S(` table:number-columns-spanned="`)
		n.D(span)
		n.S(`" table:number-rows-spanned="1"`)
	}
	switch cl.kind {
	case kindFloat, kindPercent:
		if cl.kind == kindFloat {
			n.S(` office:value-type="float" office:value="`)
		} else {
			n.S(` office:value-type="percentage" office:value="`)
		}
		e.S(cl.value)
		n.S(`"`)
	case kindDate:
		n.S(` office:value-type="date" office:date-value="`)
		e.S(cl.value)
		n.S(`"`)
	case kindBool:
		n.S(` office:value-type="boolean" office:boolean-value="`)
		e.S(cl.value)
		n.S(`"`)
	default:
		if cl.text != "" {
			n.S(` office:value-type="string"`)
		}
	}
	if cl.text == "" && len(pics) == 0 {
		n.S("/>")
		return
	}
	n.S(">")
	for _, p := range pics {
		n.S(`<draw:frame draw:z-index="0" svg:x="0cm" svg:y="0cm" svg:width="`)
		n.FPrec(pxToCm(float64(p.Width)), 3)
		n.S(`cm" svg:height="`)
		n.FPrec(pxToCm(float64(p.Height)), 3)
		n.S(`cm"><draw:image xlink:href="`)
		e.S(p.href)
		n.S(`" xlink:type="simple" xlink:show="embed" xlink:actuate="onLoad"/></draw:frame>`)
	}
	if cl.text != "" {
		n.S("<text:p>")
		e.S(cl.text)
		n.S("</text:p>")
	}
	n.S("</table:table-cell>")
}

func cellStyle(cl cell) string {
	var s string
	switch cl.kind {
	case kindPercent:
		s = "P"
	case kindDate:
		s = "D"
	}
	if cl.bold {
		s = "B" + s
	}
	if s == "" {
		return ""
	}
	return "ce" + s
}

func pxToCm(px float64) float64 { return px / 96 * 2.54 }

// widthToCm converts an Excel column width (in characters) to centimeters.
func widthToCm(w float64) float64 { return pxToCm(w*7 + 5) }

// readSheet collects the cells, merges, column widths and pictures of the sheet.
func readSheet(xl *excelize.File, name string, pics []picture) (sheetData, error) {
	sd := sheetData{
		name:  name,
		spans: make(map[[2]int]int),
		cover: make(map[[2]int]bool),
		pics:  make(map[[2]int][]picture),
	}
	texts, err := xl.GetRows(name)
	if err != nil {
		return sd, err
	}
	nRows, nCols := len(texts), 0
	for _, row := range texts {
		nCols = max(nCols, len(row))
	}
	for _, p := range pics {
		sd.pics[[2]int{p.row - 1, p.col - 1}] = append(sd.pics[[2]int{p.row - 1, p.col - 1}], p)
		nRows, nCols = max(nRows, p.row), max(nCols, p.col)
	}
	merges, err := xl.GetMergeCells(name)
	if err != nil {
		return sd, err
	}
	for _, m := range merges {
		c0, r0, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			return sd, err
		}
		c1, r1, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			return sd, err
		}
		// only horizontal merges are produced
		sd.spans[[2]int{r0 - 1, c0 - 1}] = c1 - c0 + 1
		for c := c0 + 1; c <= c1; c++ {
			sd.cover[[2]int{r0 - 1, c - 1}] = true
		}
		for r := r0 + 1; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				sd.cover[[2]int{r - 1, c - 1}] = true
			}
		}
		nRows, nCols = max(nRows, r1), max(nCols, c1)
	}

	sd.widths = make([]float64, nCols)
	for c := range sd.widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return sd, err
		}
		wd, err := xl.GetColWidth(name, col)
		if err != nil {
			return sd, err
		}
		sd.widths[c] = widthToCm(wd)
	}

	formats := make(map[int]styleInfo)
	sd.rows = make([][]cell, nRows)
	for r := range sd.rows {
		sd.rows[r] = make([]cell, nCols)
		for c := range sd.rows[r] {
			var text string
			if r < len(texts) && c < len(texts[r]) {
				text = texts[r][c]
			}
			if sd.cover[[2]int{r, c}] {
				continue
			}
			if sd.rows[r][c], err = readCell(xl, name, r, c, text, formats); err != nil {
				return sd, err
			}
		}
	}
	return sd, nil
}

type styleInfo struct {
	bold, date, percent bool
}

func readCell(xl *excelize.File, sheet string, r, c int, text string, formats map[int]styleInfo) (cell, error) {
	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return cell{}, err
	}
	id, err := xl.GetCellStyle(sheet, axis)
	if err != nil {
		return cell{}, err
	}
	si, ok := formats[id]
	if !ok {
		if si, err = getStyleInfo(xl, id); err != nil {
			return cell{}, err
		}
		formats[id] = si
	}
	cl := cell{text: text, bold: si.bold}
	if text == "" {
		return cl, nil
	}
	typ, err := xl.GetCellType(sheet, axis)
	if err != nil {
		return cl, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return cl, nil
	case excelize.CellTypeBool:
		raw, err := xl.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return cl, err
		}
		cl.kind, cl.value = kindBool, strconv.FormatBool(raw == "1" || strings.EqualFold(raw, "true"))
		return cl, nil
	}
	raw, err := xl.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return cl, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return cl, nil
	}
	switch {
	case si.date:
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return cl, nil
		}
		cl.kind, cl.value = kindDate, t.Format("2006-01-02T15:04:05")
	case si.percent:
		cl.kind, cl.value = kindPercent, raw
	default:
		cl.kind, cl.value = kindFloat, raw
	}
	return cl, nil
}

func getStyleInfo(xl *excelize.File, id int) (styleInfo, error) {
	var si styleInfo
	if id == 0 {
		return si, nil
	}
	st, err := xl.GetStyle(id)
	if err != nil {
		return si, err
	}
	si.bold = st.Font != nil && st.Font.Bold
	switch {
	case st.CustomNumFmt != nil && *st.CustomNumFmt != "":
		f := strings.ToLower(*st.CustomNumFmt)
		si.percent = strings.Contains(f, "%")
		si.date = !si.percent && (strings.Contains(f, "yy") || strings.Contains(f, "dd") || strings.Contains(f, "mmm"))
	case st.NumFmt == 9 || st.NumFmt == 10:
		si.percent = true
	case 14 <= st.NumFmt && st.NumFmt <= 22, 45 <= st.NumFmt && st.NumFmt <= 47:
		si.date = true
	}
	return si, nil
}

// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/xlreport"
)

func cellRange(col0, row0, col1, row1 int) (string, string, error) {
	first, err := excelize.CoordinatesToCellName(col0, row0)
	if err != nil {
		return "", "", err
	}
	last, err := excelize.CoordinatesToCellName(col1, row1)
	return first, last, err
}

// WriteTable writes the title at startRow (merged over the table's columns),
// the header below it and the rows after, and returns the next free row,
// leaving Options.Padding blank rows.
func (w *Workbook) WriteTable(sheet string, t xlreport.Table, title string, startRow int) (int, error) {
	if startRow < 1 {
		return startRow, fmt.Errorf("%s: start row %d is less than 1", sheet, startRow)
	}
	if _, err := t.Validate(); err != nil {
		return startRow, fmt.Errorf("%s/%s: %w", sheet, title, err)
	}
	headerRow := startRow + 1
	lastRow := headerRow + len(t.Rows)
	if lastRow > MaxRowCount {
		return startRow, fmt.Errorf("%s/%s: %w", sheet, title, xlreport.ErrTooManyRows)
	}
	n := len(t.Columns)

	titleAxis, titleEnd, err := cellRange(1, startRow, n, startRow)
	if err != nil {
		return startRow, fmt.Errorf("%s/%s: %w", sheet, title, err)
	}
	if err = w.xl.SetCellStr(sheet, titleAxis, title); err != nil {
		return startRow, fmt.Errorf("%s[%s]: %w", sheet, titleAxis, err)
	}
	s, err := w.getStyle(cellStyle{Bold: true, Size: w.opts.TitleSize})
	if err != nil {
		return startRow, err
	}
	if err = w.xl.SetCellStyle(sheet, titleAxis, titleAxis, s); err != nil {
		return startRow, err
	}
	if n > 1 {
		if err = w.xl.MergeCell(sheet, titleAxis, titleEnd); err != nil {
			return startRow, fmt.Errorf("%s: merge title: %w", sheet, err)
		}
	}

	// every coordinate below is within the checked title and row bounds
	widths := w.columnWidths(sheet, n)
	for i, c := range t.Columns {
		axis, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err = w.xl.SetCellStr(sheet, axis, c.Name); err != nil {
			return startRow, fmt.Errorf("%s[%s]: %w", sheet, axis, err)
		}
		if s, err = w.getStyle(cellStyle{
			Format: c.Header.Format, Bold: true, Fill: headerFill, Border: true,
		}); err != nil {
			return startRow, err
		}
		if err = w.xl.SetCellStyle(sheet, axis, axis, s); err != nil {
			return startRow, err
		}
		widths[i] = max(widths[i], displayWidth(c.Name))
	}

	type dateCell struct {
		axis string
		col  int
	}
	var dates []dateCell
	for r, row := range t.Rows {
		for i, v := range row {
			v, _ = xlreport.CellValue(v)
			if v == nil {
				continue
			}
			axis, _ := excelize.CoordinatesToCellName(i+1, headerRow+1+r)
			if err = w.xl.SetCellValue(sheet, axis, v); err != nil {
				return startRow, fmt.Errorf("%s[%s]: %w", sheet, axis, err)
			}
			if _, ok := v.(time.Time); ok {
				dates = append(dates, dateCell{axis: axis, col: i})
			}
			widths[i] = max(widths[i], displayWidth(v))
		}
	}

	if len(t.Rows) != 0 {
		for i, c := range t.Columns {
			if s, err = w.getStyle(cellStyle{
				Format: c.DataFormat(), Bold: c.Column.FontBold, Border: true,
			}); err != nil {
				return startRow, err
			}
			first, last, _ := cellRange(i+1, headerRow+1, i+1, lastRow)
			if err = w.xl.SetCellStyle(sheet, first, last, s); err != nil {
				return startRow, err
			}
		}
		for _, d := range dates {
			c := t.Columns[d.col]
			format := c.Column.Format
			if format == "" {
				format = w.opts.DateFormat
			}
			if s, err = w.getStyle(cellStyle{Format: format, Bold: c.Column.FontBold, Border: true}); err != nil {
				return startRow, err
			}
			if err = w.xl.SetCellStyle(sheet, d.axis, d.axis, s); err != nil {
				return startRow, err
			}
		}
		w.addTable(sheet, t, title, headerRow, lastRow)
	}

	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err = w.xl.SetColWidth(sheet, col, col, min(wd+2, w.opts.MaxColumnWidth)); err != nil {
			return startRow, err
		}
	}

	return lastRow + 1 + w.opts.Padding, nil
}

// addTable adds an Excel table object over the header and data rows.
// Tables need unique, non-empty header names, others are left as plain ranges.
func (w *Workbook) addTable(sheet string, t xlreport.Table, title string, headerRow, lastRow int) {
	if w.opts.TableStyle == NoTableStyle {
		return
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		k := strings.ToLower(strings.TrimSpace(c.Name))
		if _, ok := seen[k]; ok || k == "" {
			return
		}
		seen[k] = struct{}{}
	}
	first, last, err := cellRange(1, headerRow, len(t.Columns), lastRow)
	if err != nil {
		w.logger.Warn("add table", "sheet", sheet, "table", title, "error", err)
		return
	}
	w.tableSeq++
	tbl := excelize.Table{
		Range:     first + ":" + last,
		Name:      "Table" + strconv.Itoa(w.tableSeq),
		StyleName: w.opts.TableStyle,
	}
	if err := w.xl.AddTable(sheet, &tbl); err != nil {
		w.logger.Warn("add table", "sheet", sheet, "table", title, "range", tbl.Range, "error", err)
	}
}

// columnWidths returns the sheet's column width tracker, grown to n columns.
func (w *Workbook) columnWidths(sheet string, n int) []float64 {
	widths := w.widths[sheet]
	if len(widths) < n {
		widths = append(widths, make([]float64, n-len(widths))...)
		w.widths[sheet] = widths
	}
	return widths
}

// displayWidth is the width of the value's string form, wide runes counting double.
func displayWidth(v any) float64 {
	return float64(runewidth.StringWidth(xlreport.FormatValue(v)))
}

// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlreport describes multi-sheet reports: named tables of
// heterogeneous cells per sheet, an introduction text and optional charts
// to embed after each table.
//
// The workbook itself is written by the xlsx package.
package xlreport

import (
	"io"
)

// Style is a style for a column/row/cell.
type Style struct {
	// Format is the number format
	Format string
	// FontBold is true if the font is bold
	FontBold bool
}

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column Style
}

// Number is a string that contains a number.
type Number string

// Table is a header and its rows.
// Each row must have exactly len(Columns) cells.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// NewTable returns a Table with the given column names and no rows.
func NewTable(names ...string) Table {
	cols := make([]Column, len(names))
	for i, nm := range names {
		cols[i].Name = nm
	}
	return Table{Columns: cols}
}

// AppendRow appends a row to the table.
func (t *Table) AppendRow(values ...any) { t.Rows = append(t.Rows, values) }

// ColumnNames returns the names of the columns, in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NamedTable is a Table with the title written above it.
type NamedTable struct {
	Title string
	Table Table
}

// Sheet is one page of the report, with its tables in display order.
type Sheet struct {
	Name   string
	Tables []NamedTable
}

// AddTable appends a table to the sheet.
func (s *Sheet) AddTable(title string, t Table) *Sheet {
	s.Tables = append(s.Tables, NamedTable{Title: title, Table: t})
	return s
}

// Report is the ordered list of sheets.
type Report struct {
	Sheets []*Sheet
}

// AddSheet appends a new, empty sheet and returns it.
func (r *Report) AddSheet(name string) *Sheet {
	s := &Sheet{Name: name}
	r.Sheets = append(r.Sheets, s)
	return s
}

// Sheet returns the sheet with the given name, or nil.
func (r *Report) Sheet(name string) *Sheet {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Chart is an in-memory renderable plot.
type Chart interface {
	// RenderPNG renders the chart as a width x height pixels PNG.
	RenderPNG(w io.Writer, width, height int) error
}

// Image is the source of an embedded picture: a ChartImage or a FileImage.
type Image interface {
	imageSource()
}

// ChartImage is an Image rendered from a Chart.
type ChartImage struct {
	Chart Chart
}

// FileImage is an Image read from the named file.
type FileImage string

func (ChartImage) imageSource() {}
func (FileImage) imageSource()  {}

// ImageFunc returns the images to be placed after the table.
//
// nil elements of the returned slice are skipped.
type ImageFunc func(t Table, title string) ([]Image, error)

// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/xlreport"
)

func TestWriteTable(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")

	next, err := w.WriteTable("S", numbersTable(3), "Numbers", 1)
	require.NoError(t, err)
	assert.Equal(t, 1+2+3+1, next)

	assert.Equal(t, "Numbers", cellValue(t, w, "S", "A1"))
	rows, err := w.xl.GetRows("S")
	require.NoError(t, err)
	assert.Equal(t, []string{"N", "Square", "Name"}, rows[1])
	assert.Equal(t, []string{"2", "4", "row"}, rows[4])

	merges, err := w.xl.GetMergeCells("S")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1", merges[0].GetStartAxis())
	assert.Equal(t, "C1", merges[0].GetEndAxis())

	tables, err := w.xl.GetTables("S")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Table1", tables[0].Name)
	assert.Equal(t, "A2:C5", tables[0].Range)

	id, err := w.xl.GetCellStyle("S", "B2")
	require.NoError(t, err)
	st, err := w.xl.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Bold)
	assert.NotEmpty(t, st.Border)
}

func TestWriteTableEmpty(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")

	next, err := w.WriteTable("S", xlreport.NewTable("A", "B"), "Empty", 4)
	require.NoError(t, err)
	assert.Greater(t, next, 4)
	assert.Equal(t, 4+2+1, next)
	assert.Equal(t, "Empty", cellValue(t, w, "S", "A4"))
	assert.Equal(t, "A", cellValue(t, w, "S", "A5"))
	assert.Equal(t, "B", cellValue(t, w, "S", "B5"))

	tables, err := w.xl.GetTables("S")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestWriteTableSingleColumn(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	tbl := xlreport.NewTable("Only")
	tbl.AppendRow("x")
	_, err := w.WriteTable("S", tbl, "One", 1)
	require.NoError(t, err)
	merges, err := w.xl.GetMergeCells("S")
	require.NoError(t, err)
	assert.Empty(t, merges)
}

func TestWriteTableRoundTrip(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tbl := xlreport.NewTable("Int", "Float", "Text", "Date", "Missing")
	const n = 25
	for i := 0; i < n; i++ {
		tbl.AppendRow(i, float64(i)+0.5, "t"+strconv.Itoa(i), day.AddDate(0, 0, i), nil)
	}
	next, err := w.WriteTable("S", tbl, "Round trip", 3)
	require.NoError(t, err)
	assert.Equal(t, 3+2+n+1, next)

	for i := 0; i < n; i++ {
		r := 3 + 2 + i
		for j, want := range []string{
			strconv.Itoa(i),
			strconv.FormatFloat(float64(i)+0.5, 'f', -1, 64),
			"t" + strconv.Itoa(i),
			day.AddDate(0, 0, i).Format("2006-01-02"),
			"",
		} {
			axis, err := excelize.CoordinatesToCellName(j+1, r)
			require.NoError(t, err)
			assert.Equal(t, want, cellValue(t, w, "S", axis), axis)
		}
	}
}

func TestWriteTableTypes(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	tbl := xlreport.NewTable("Bool", "Success Rate", "Number")
	tbl.AppendRow(true, 0.25, xlreport.Number("12.5"))
	_, err := w.WriteTable("S", tbl, "Types", 1)
	require.NoError(t, err)

	typ, err := w.xl.GetCellType("S", "A3")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeBool, typ)
	assert.Equal(t, "25%", cellValue(t, w, "S", "B3"))
	assert.Equal(t, "12.5", cellValue(t, w, "S", "C3"))
}

func TestWriteTableColumnWidth(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	tbl := xlreport.NewTable("Name", "Long")
	tbl.AppendRow("abcdefghij", strings.Repeat("x", 80))
	_, err := w.WriteTable("S", tbl, "A title that is not measured at all", 1)
	require.NoError(t, err)

	width, err := w.xl.GetColWidth("S", "A")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)
	width, err = w.xl.GetColWidth("S", "B")
	require.NoError(t, err)
	assert.Equal(t, 50.0, width)

	// widths only grow
	tbl = xlreport.NewTable("N")
	tbl.AppendRow("ab")
	_, err = w.WriteTable("S", tbl, "Second", 10)
	require.NoError(t, err)
	width, err = w.xl.GetColWidth("S", "A")
	require.NoError(t, err)
	assert.Equal(t, 12.0, width)
}

func TestWriteTableMaxColumnWidthClamped(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{MaxColumnWidth: 1000}, "S")
	tbl := xlreport.NewTable("Long")
	tbl.AppendRow(strings.Repeat("x", 300))
	_, err := w.WriteTable("S", tbl, "Long", 1)
	require.NoError(t, err)
	width, err := w.xl.GetColWidth("S", "A")
	require.NoError(t, err)
	assert.Equal(t, 255.0, width)
}

func TestWriteTableTooManyColumns(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	names := make([]string, excelize.MaxColumns+1)
	for i := range names {
		names[i] = "c" + strconv.Itoa(i)
	}
	next, err := w.WriteTable("S", xlreport.NewTable(names...), "Wide", 1)
	assert.ErrorIs(t, err, xlreport.ErrTooManyColumns)
	assert.Equal(t, 1, next)
	assert.Equal(t, "", cellValue(t, w, "S", "A1"))
}

func TestWriteTableWideRunes(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{MaxColumnWidth: 100}, "S")
	tbl := xlreport.NewTable("名前")
	tbl.AppendRow("東京都")
	_, err := w.WriteTable("S", tbl, "Wide", 1)
	require.NoError(t, err)
	width, err := w.xl.GetColWidth("S", "A")
	require.NoError(t, err)
	assert.Equal(t, 8.0, width)
}

func TestWriteTableDuplicateHeaders(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	tbl := xlreport.NewTable("x", "X")
	tbl.AppendRow(1, 2)
	_, err := w.WriteTable("S", tbl, "Dup", 1)
	require.NoError(t, err)
	tables, err := w.xl.GetTables("S")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestWriteTableNoTableStyle(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{TableStyle: NoTableStyle, Padding: -1}, "S")
	next, err := w.WriteTable("S", numbersTable(2), "Plain", 1)
	require.NoError(t, err)
	assert.Equal(t, 1+2+2, next)
	tables, err := w.xl.GetTables("S")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestWriteTableInvalid(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	_, err := w.WriteTable("S", xlreport.Table{}, "none", 1)
	assert.ErrorIs(t, err, xlreport.ErrNoColumns)
	_, err = w.WriteTable("S", numbersTable(1), "zero", 0)
	assert.Error(t, err)
	_, err = w.WriteTable("S", numbersTable(1), "too far", MaxRowCount)
	assert.ErrorIs(t, err, xlreport.ErrTooManyRows)
}

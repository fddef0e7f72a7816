// Copyright 2026 Tamás Gulácsi. All rights reserved.

package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/xlreport"
)

func TestParseArg(t *testing.T) {
	for _, tc := range []struct {
		arg                  string
		sheet, title, fileNm string
	}{
		{"data/sales.csv", "sales", "sales", "data/sales.csv"},
		{"Report:sales.csv", "Report", "sales", "sales.csv"},
		{"Report:Monthly sales=sales.csv", "Report", "Monthly sales", "sales.csv"},
		{"Monthly=sales.csv", "sales", "Monthly", "sales.csv"},
		{"-", "Sheet1", "Sheet1", "-"},
	} {
		sheet, title, fn := parseArg(tc.arg)
		assert.Equal(t, tc.sheet, sheet, tc.arg)
		assert.Equal(t, tc.title, title, tc.arg)
		assert.Equal(t, tc.fileNm, fn, tc.arg)
	}
}

func TestReadLines(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "intro.txt")
	require.NoError(t, os.WriteFile(fn, []byte("line1\nline2\n"), 0o644))
	lines, err := readLines(fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"line1", "line2"}, lines)
}

func TestBarChart(t *testing.T) {
	tbl := xlreport.NewTable("Month", "Sales")
	tbl.AppendRow("Jan", int64(100))
	images, err := barChart("Month", "Sales")(tbl, "Sales")
	require.NoError(t, err)
	require.Len(t, images, 1)
	_, err = barChart("Month", "Nope")(tbl, "Sales")
	assert.Error(t, err)
}

func writeInputs(t *testing.T) (dir, sales, costs, intro string) {
	t.Helper()
	dir = t.TempDir()
	sales = filepath.Join(dir, "sales.csv")
	costs = filepath.Join(dir, "costs.csv")
	intro = filepath.Join(dir, "intro.txt")
	require.NoError(t, os.WriteFile(sales, []byte("Month;Sales\nJan;100\nFeb;150\n"), 0o644))
	require.NoError(t, os.WriteFile(costs, []byte("Month;Sales\nJan;30\n"), 0o644))
	require.NoError(t, os.WriteFile(intro, []byte("Quarterly report\nline 2\n"), 0o644))
	return dir, sales, costs, intro
}

func TestRun(t *testing.T) {
	dir, sales, costs, intro := writeInputs(t)
	out := filepath.Join(dir, "report.xlsx")
	pdfOut := filepath.Join(dir, "report.pdf")

	require.NoError(t, run(context.Background(), []string{
		"-o", out, "-intro", intro, "-chart", "Month,Sales", "-pdf", pdfOut,
		"Sales:Monthly=" + sales, costs,
	}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Introduction", "Sales", "costs"}, f.GetSheetList())

	get := func(sheet, axis string) string {
		t.Helper()
		s, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return s
	}
	assert.Equal(t, "Quarterly report", get("Introduction", "A1"))
	assert.Equal(t, "Monthly", get("Sales", "A1"))
	assert.Equal(t, "Month", get("Sales", "A2"))
	assert.Equal(t, "Jan", get("Sales", "A3"))
	assert.Equal(t, "150", get("Sales", "B4"))
	assert.Equal(t, "costs", get("costs", "A1"))

	cells, err := f.GetPictureCells("Sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"A6"}, cells)

	b, err := os.ReadFile(pdfOut)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRunNoCharts(t *testing.T) {
	dir, sales, _, _ := writeInputs(t)
	out := filepath.Join(dir, "report.xlsx")

	require.NoError(t, run(context.Background(), []string{
		"-o", out, "-chart", "Month,Sales", "-no-charts", sales,
	}))
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	cells, err := f.GetPictureCells("sales")
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestRunODS(t *testing.T) {
	dir, sales, _, _ := writeInputs(t)
	out := filepath.Join(dir, "report.ods")

	require.NoError(t, run(context.Background(), []string{"-o", out, sales}))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")))
	assert.Contains(t, string(b), "application/vnd.oasis.opendocument.spreadsheet")
}

func TestRunErrors(t *testing.T) {
	dir, sales, _, _ := writeInputs(t)
	ctx := context.Background()

	err := run(ctx, []string{sales})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-o")

	out := filepath.Join(dir, "report.xlsx")
	assert.ErrorIs(t, run(ctx, []string{"-o", out}), flag.ErrHelp)
	assert.Error(t, run(ctx, []string{"-o", out, "-chart", "Month", sales}))
	assert.Error(t, run(ctx, []string{"-o", out, filepath.Join(dir, "missing.csv")}))
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

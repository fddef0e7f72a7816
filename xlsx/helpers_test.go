// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/xlreport"
)

// newTestWorkbook returns a Workbook logging into the returned buffer,
// with the named sheets already created.
func newTestWorkbook(t *testing.T, opts Options, sheets ...string) (*Workbook, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := NewWorkbook(opts)
	t.Cleanup(func() { w.Close() })
	for _, nm := range sheets {
		require.NoError(t, w.newSheet(nm))
	}
	return w, &buf
}

func numbersTable(rows int) xlreport.Table {
	t := xlreport.NewTable("N", "Square", "Name")
	for i := 0; i < rows; i++ {
		t.AppendRow(i, i*i, "row")
	}
	return t
}

func cellValue(t *testing.T, w *Workbook, sheet, axis string) string {
	t.Helper()
	s, err := w.xl.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return s
}

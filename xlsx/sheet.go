// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"github.com/UNO-SOFT/xlreport"
)

// BuildSheet creates the named sheet and writes the tables onto it one below
// the other. After each table the images returned by imageFunc (if not nil)
// are placed, each followed by a blank row.
//
// A failing imageFunc is logged, and the table's images are skipped.
func (w *Workbook) BuildSheet(name string, tables []xlreport.NamedTable, imageFunc xlreport.ImageFunc) error {
	if err := w.newSheet(name); err != nil {
		return err
	}
	cursor := 1
	for _, nt := range tables {
		next, err := w.WriteTable(name, nt.Table, nt.Title, cursor)
		if err != nil {
			return err
		}
		cursor = next
		if imageFunc == nil {
			continue
		}
		images, err := imageFunc(nt.Table, nt.Title)
		if err != nil {
			w.logger.Warn("failed to add images", "sheet", name, "table", nt.Title, "error", err)
			continue
		}
		for _, img := range images {
			if img == nil {
				continue
			}
			if next := w.PlaceImage(name, img, cursor, Placement{}); next > cursor {
				cursor = next + 1
			}
		}
	}
	w.logger.Debug("sheet built", "sheet", name, "tables", len(tables), "rows", cursor-1)
	return nil
}

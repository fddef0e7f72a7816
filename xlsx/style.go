// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"github.com/xuri/excelize/v2"
)

const (
	headerFill  = "DDEBF7"
	borderColor = "A6A6A6"
)

type cellStyle struct {
	Format string
	Bold   bool
	Size   float64
	Fill   string
	Border bool
}

// getStyle returns the id of the style, creating it on first use.
func (w *Workbook) getStyle(style cellStyle) (int, error) {
	if s, ok := w.styles[style]; ok {
		return s, nil
	}
	var st excelize.Style
	if style.Bold || style.Size != 0 {
		st.Font = &excelize.Font{Bold: style.Bold, Size: style.Size}
	}
	if style.Format != "" {
		format := style.Format
		st.CustomNumFmt = &format
	}
	if style.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{style.Fill}}
	}
	if style.Border {
		st.Border = []excelize.Border{
			{Type: "left", Color: borderColor, Style: 1},
			{Type: "top", Color: borderColor, Style: 1},
			{Type: "right", Color: borderColor, Style: 1},
			{Type: "bottom", Color: borderColor, Style: 1},
		}
	}
	s, err := w.xl.NewStyle(&st)
	if err != nil {
		return 0, err
	}
	if w.styles == nil {
		w.styles = make(map[cellStyle]int)
	}
	w.styles[style] = s
	return s, nil
}

// Copyright 2021, 2026 Tamás Gulácsi. All rights reserved.

// Package pdf prints xlreport Reports as PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/UNO-SOFT/xlreport"
	"github.com/UNO-SOFT/xlreport/chart"
)

// AlternateColor is the background of every second data row.
var AlternateColor = props.Color{Red: 230, Green: 230, Blue: 230}

// Options of Render. Zero fields get the defaults.
type Options struct {
	// Landscape orientation (default: portrait).
	Landscape bool
	// FontSize of the table cells, 8 by default.
	FontSize float64
	// ImageHeight is the height of the images in millimeters, 80 by default.
	ImageHeight float64
	// ChartWidth and ChartHeight are the chart rendering size in pixels, 600x400 by default.
	ChartWidth, ChartHeight int
	DisableCharts          bool
	Logger                 *slog.Logger
}

// Render the introduction lines, then each sheet's tables with their images as a PDF.
func Render(rep xlreport.Report, intro []string, imageFuncs map[string]xlreport.ImageFunc, opts Options) ([]byte, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 8
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = 80
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 600
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 400
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	grid := gridSize(rep)
	b := config.NewBuilder().WithMaxGridSize(grid)
	if opts.Landscape {
		b = b.WithOrientation(orientation.Horizontal)
	}
	m := maroto.New(b.Build())

	fs := opts.FontSize
	lineH := fs * 0.6
	for _, line := range intro {
		m.AddRows(text.NewRow(lineH, line, props.Text{Size: fs}))
	}
	charts := !opts.DisableCharts && chart.Available()
	for _, s := range rep.Sheets {
		if s == nil {
			continue
		}
		m.AddRows(text.NewRow(fs*1.2, s.Name, props.Text{Size: fs * 1.75, Style: fontstyle.Bold, Top: 4}))
		fn := imageFuncs[s.Name]
		for _, nt := range s.Tables {
			m.AddRows(tableRows(nt, grid, fs)...)
			if fn == nil {
				continue
			}
			images, err := fn(nt.Table, nt.Title)
			if err != nil {
				opts.Logger.Warn("failed to add images", "sheet", s.Name, "table", nt.Title, "error", err)
				continue
			}
			for _, img := range images {
				if r := imageRow(img, charts, opts); r != nil {
					m.AddRows(r)
				}
			}
		}
	}
	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func tableRows(nt xlreport.NamedTable, grid int, fs float64) []core.Row {
	lineH := fs * 0.6
	rows := make([]core.Row, 0, len(nt.Table.Rows)+2)
	rows = append(rows, text.NewRow(fs, nt.Title, props.Text{Size: fs * 1.375, Style: fontstyle.Bold, Top: 2}))
	size := max(1, grid/len(nt.Table.Columns))
	cols := make([]core.Col, len(nt.Table.Columns))
	for i, c := range nt.Table.Columns {
		cols[i] = text.NewCol(size, c.Name, props.Text{Size: fs, Style: fontstyle.Bold})
	}
	rows = append(rows, row.New(lineH).Add(cols...))
	for r, values := range nt.Table.Rows {
		cols := make([]core.Col, len(nt.Table.Columns))
		for i, c := range nt.Table.Columns {
			cols[i] = text.NewCol(size, formatCell(c, values[i]), props.Text{Size: fs, Style: fontstyle.Normal})
		}
		rw := row.New(lineH).Add(cols...)
		if r%2 == 1 {
			rw = rw.WithStyle(&props.Cell{BackgroundColor: &AlternateColor})
		}
		rows = append(rows, rw)
	}
	return rows
}

func formatCell(c xlreport.Column, v any) string {
	if strings.HasSuffix(c.DataFormat(), "%") {
		if cv, err := xlreport.CellValue(v); err == nil {
			if f, ok := cv.(float64); ok {
				return strconv.FormatFloat(f*100, 'f', 0, 64) + "%"
			}
		}
	}
	return xlreport.FormatValue(v)
}

func imageRow(img xlreport.Image, charts bool, opts Options) core.Row {
	rect := props.Rect{Center: true, Percent: 100}
	if !charts {
		opts.Logger.Warn("skip image", "image", fmt.Sprintf("%T", img), "error", xlreport.ErrChartingUnavailable)
		return nil
	}
	switch x := img.(type) {
	case xlreport.ChartImage:
		if x.Chart == nil {
			opts.Logger.Warn("skip image", "error", "nil chart")
			return nil
		}
		var buf bytes.Buffer
		if err := x.Chart.RenderPNG(&buf, opts.ChartWidth, opts.ChartHeight); err != nil {
			opts.Logger.Warn("skip image", "error", err)
			return nil
		}
		return image.NewFromBytesRow(opts.ImageHeight, buf.Bytes(), extension.Png, rect)
	case xlreport.FileImage:
		fn := string(x)
		if _, err := os.Stat(fn); err != nil {
			opts.Logger.Warn("skip image", "file", fn, "error", err)
			return nil
		}
		switch strings.ToLower(filepath.Ext(fn)) {
		case ".png", ".jpg", ".jpeg":
			return image.NewFromFileRow(opts.ImageHeight, fn, rect)
		}
		opts.Logger.Warn("skip image: only png and jpeg are supported", "file", fn)
	}
	return nil
}

// gridSize is divisible by every table's column count, if that is not too big.
func gridSize(rep xlreport.Report) int {
	const limit = 1 << 16
	grid, widest := 12, 12
	for _, s := range rep.Sheets {
		if s == nil {
			continue
		}
		for _, nt := range s.Tables {
			n := len(nt.Table.Columns)
			widest = max(widest, n)
			if g := lcm(grid, n); g <= limit {
				grid = g
			}
		}
	}
	return max(grid, widest)
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return max(a, b)
	}
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}

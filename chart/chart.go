// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package chart renders simple bar charts to PNG, to be embedded in reports.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/UNO-SOFT/xlreport"
)

var _ = (xlreport.Chart)(Bar{})

// DefaultColor of the bars.
var DefaultColor = color.RGBA{R: 0x44, G: 0x72, B: 0xC4, A: 0xFF}

const margin = 10

// Bar is a single-series bar chart.
type Bar struct {
	Title  string
	Labels []string
	Values []float64
	// Color of the bars, DefaultColor if nil.
	Color color.Color
}

// Available reports whether charts can be rendered in this process.
// The probe runs once.
var Available = sync.OnceValue(func() bool {
	return Bar{Labels: []string{"x"}, Values: []float64{1}}.RenderPNG(io.Discard, 16, 16) == nil
})

// RenderPNG draws the chart onto a width x height white canvas and encodes it as PNG.
func (b Bar) RenderPNG(w io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("chart size %dx%d: %w", width, height, xlreport.ErrChartingUnavailable)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	b.draw(img)
	return png.Encode(w, img)
}

func (b Bar) draw(img *image.RGBA) {
	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	top := margin
	if b.Title != "" {
		tw := font.MeasureString(face, b.Title).Ceil()
		drawString(img, face, max(margin, (width-tw)/2), top+face.Metrics().Ascent.Ceil(), b.Title)
		top += lineH + 6
	}

	lo, hi := 0.0, 0.0
	for _, v := range b.Values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	hiLabel, loLabel := formatValue(hi), formatValue(lo)
	left := margin + max(font.MeasureString(face, hiLabel).Ceil(), font.MeasureString(face, loLabel).Ceil()) + 4
	right := width - margin
	bottom := height - margin - lineH - 4
	if right-left < 1 || bottom-top < 1 {
		return
	}
	black := image.NewUniform(color.Black)
	scale := float64(bottom-top) / (hi - lo)
	zeroY := bottom - int(math.Round(-lo*scale))

	// axes
	draw.Draw(img, image.Rect(left-1, top, left, bottom+1), black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(left, zeroY, right, zeroY+1), black, image.Point{}, draw.Src)
	drawString(img, face, margin, top+face.Metrics().Ascent.Ceil(), hiLabel)
	if lo < 0 {
		drawString(img, face, margin, bottom, loLabel)
	}

	if len(b.Values) == 0 {
		return
	}
	var fill image.Image = image.NewUniform(DefaultColor)
	if b.Color != nil {
		fill = image.NewUniform(b.Color)
	}
	slot := float64(right-left) / float64(len(b.Values))
	barW := max(1, int(slot*0.7))
	charW := face.Advance
	for i, v := range b.Values {
		x0 := left + int(slot*float64(i)+(slot-float64(barW))/2)
		y := zeroY - int(math.Round(v*scale))
		r := image.Rect(x0, min(y, zeroY), x0+barW, max(y, zeroY))
		draw.Draw(img, r, fill, image.Point{}, draw.Src)

		if i < len(b.Labels) && b.Labels[i] != "" {
			label := []rune(b.Labels[i])
			if n := int(slot) / charW; n < len(label) {
				label = label[:max(0, n)]
			}
			if len(label) == 0 {
				continue
			}
			lw := len(label) * charW
			lx := left + int(slot*float64(i)+(slot-float64(lw))/2)
			drawString(img, face, lx, height-margin, string(label))
		}
	}
}

func drawString(img draw.Image, face font.Face, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}

// BarFromTable builds a bar chart from the labelCol and valueCol columns of the table.
//
// The same column may serve as both label and value.
// Empty values count as zero; values that are not numbers are an error.
func BarFromTable(t xlreport.Table, title, labelCol, valueCol string) (Bar, error) {
	li, vi := -1, -1
	for i, c := range t.Columns {
		if li < 0 && c.Name == labelCol {
			li = i
		}
		if vi < 0 && c.Name == valueCol {
			vi = i
		}
	}
	if li < 0 {
		return Bar{}, fmt.Errorf("label column %q not found", labelCol)
	}
	if vi < 0 {
		return Bar{}, fmt.Errorf("value column %q not found", valueCol)
	}
	b := Bar{
		Title:  title,
		Labels: make([]string, 0, len(t.Rows)),
		Values: make([]float64, 0, len(t.Rows)),
	}
	for i, row := range t.Rows {
		if len(row) <= max(li, vi) {
			return b, fmt.Errorf("row %d: %w", i, xlreport.ErrRaggedRow)
		}
		lv, err := xlreport.CellValue(row[li])
		if err != nil {
			return b, fmt.Errorf("row %d: %w", i, err)
		}
		vv, err := xlreport.CellValue(row[vi])
		if err != nil {
			return b, fmt.Errorf("row %d: %w", i, err)
		}
		var f float64
		switch x := vv.(type) {
		case nil:
		case int64:
			f = float64(x)
		case uint64:
			f = float64(x)
		case float64:
			f = x
		case string:
			if f, err = strconv.ParseFloat(x, 64); err != nil {
				return b, fmt.Errorf("row %d column %q: %w", i, valueCol, err)
			}
		default:
			return b, fmt.Errorf("row %d column %q: %T is not a number", i, valueCol, vv)
		}
		b.Labels = append(b.Labels, label(lv))
		b.Values = append(b.Values, f)
	}
	return b, nil
}

func label(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return formatValue(x)
	}
	return fmt.Sprint(v)
}

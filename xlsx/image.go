// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/UNO-SOFT/xlreport"
	"github.com/UNO-SOFT/xlreport/ods"
)

// Placement of an image: the anchor column and the size in pixels.
// Zero fields mean column A and the Options' image size.
type Placement struct {
	Col           string
	Width, Height int
}

// picture formats excelize embeds as they are; other decodable images are converted to PNG.
var nativeExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// PlaceImage anchors the image's top-left corner at (startRow, p.Col),
// resized to p.Width x p.Height pixels, and returns the first row below it.
//
// Images that cannot be placed (charting unavailable, missing or
// undecodable file) are skipped with a warning, and startRow is returned.
func (w *Workbook) PlaceImage(sheet string, img xlreport.Image, startRow int, p Placement) int {
	if p.Col == "" {
		p.Col = "A"
	}
	if p.Width <= 0 {
		p.Width = w.opts.ImageWidth
	}
	if p.Height <= 0 {
		p.Height = w.opts.ImageHeight
	}
	logger := w.logger.With("sheet", sheet, "row", startRow)
	col, err := excelize.ColumnNameToNumber(p.Col)
	if err != nil {
		logger.Warn("skip image", "col", p.Col, "error", err)
		return startRow
	}
	cell, err := excelize.CoordinatesToCellName(col, startRow)
	if err != nil {
		logger.Warn("skip image", "error", err)
		return startRow
	}
	pic, srcW, srcH, err := w.loadImage(img, p)
	if err != nil {
		logger.Warn("skip image", "image", describe(img), "error", err)
		return startRow
	}
	pic.Format = &excelize.GraphicOptions{
		ScaleX:      float64(p.Width) / float64(srcW),
		ScaleY:      float64(p.Height) / float64(srcH),
		Positioning: "oneCell",
	}
	if err = w.xl.AddPictureFromBytes(sheet, cell, &pic); err != nil {
		logger.Warn("skip image", "image", describe(img), "error", err)
		return startRow
	}
	w.images = append(w.images, ods.Image{
		Sheet: sheet, Cell: cell,
		Extension: pic.Extension, Data: pic.File,
		Width: p.Width, Height: p.Height,
	})
	return startRow + p.Height/w.opts.RowHeightPx + 2
}

// loadImage returns the picture with its original pixel size.
// Without the charting capability no image is placed, file images neither.
func (w *Workbook) loadImage(img xlreport.Image, p Placement) (excelize.Picture, int, int, error) {
	if !w.charts {
		return excelize.Picture{}, 0, 0, xlreport.ErrChartingUnavailable
	}
	switch x := img.(type) {
	case xlreport.ChartImage:
		if x.Chart == nil {
			return excelize.Picture{}, 0, 0, errors.New("nil chart")
		}
		var buf bytes.Buffer
		if err := x.Chart.RenderPNG(&buf, p.Width, p.Height); err != nil {
			return excelize.Picture{}, 0, 0, fmt.Errorf("render chart: %w", err)
		}
		return excelize.Picture{Extension: ".png", File: buf.Bytes()}, p.Width, p.Height, nil

	case xlreport.FileImage:
		b, err := os.ReadFile(string(x))
		if err != nil {
			return excelize.Picture{}, 0, 0, err
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
		if err != nil {
			return excelize.Picture{}, 0, 0, fmt.Errorf("%q: %w", x, err)
		}
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return excelize.Picture{}, 0, 0, fmt.Errorf("%q: empty image %dx%d", x, cfg.Width, cfg.Height)
		}
		ext := strings.ToLower(filepath.Ext(string(x)))
		if !nativeExt[ext] {
			if nativeExt["."+format] {
				ext = "." + format
			} else {
				// excelize cannot embed it, so convert to PNG
				m, _, err := image.Decode(bytes.NewReader(b))
				if err != nil {
					return excelize.Picture{}, 0, 0, fmt.Errorf("%q: %w", x, err)
				}
				var buf bytes.Buffer
				if err = png.Encode(&buf, m); err != nil {
					return excelize.Picture{}, 0, 0, fmt.Errorf("%q: %w", x, err)
				}
				b, ext = buf.Bytes(), ".png"
			}
		}
		return excelize.Picture{Extension: ext, File: b}, cfg.Width, cfg.Height, nil

	case nil:
		return excelize.Picture{}, 0, 0, errors.New("nil image")
	}
	return excelize.Picture{}, 0, 0, fmt.Errorf("unknown image source %T", img)
}

func describe(img xlreport.Image) string {
	switch x := img.(type) {
	case xlreport.FileImage:
		return strconv.Quote(string(x))
	case xlreport.ChartImage:
		return fmt.Sprintf("chart %T", x.Chart)
	}
	return fmt.Sprintf("%T", img)
}

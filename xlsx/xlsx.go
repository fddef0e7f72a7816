// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx lays out xlreport Reports onto excelize workbooks.
package xlsx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/xlreport"
	"github.com/UNO-SOFT/xlreport/chart"
	"github.com/UNO-SOFT/xlreport/ods"
)

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

// NoTableStyle as Options.TableStyle disables the Excel table objects.
const NoTableStyle = "none"

// Options of the Workbook. Zero fields are replaced by the DefaultOptions values.
type Options struct {
	// IntroSheet is the name of the introduction sheet.
	IntroSheet string
	// IntroWidth is the width of the introduction sheet's A column.
	IntroWidth float64
	// TitleSize is the font size of the table titles.
	TitleSize float64
	// MaxColumnWidth caps the auto column width.
	MaxColumnWidth float64
	// Padding is the number of blank rows after each table; negative means none.
	Padding int
	// RowHeightPx is the approximate row height in pixels, to convert image heights to rows.
	RowHeightPx int
	// ImageWidth and ImageHeight are the default image size in pixels.
	ImageWidth, ImageHeight int
	// TableStyle is the style of the Excel table objects, NoTableStyle disables them.
	TableStyle string
	// DateFormat is the number format of the date cells.
	DateFormat string
	// DisableCharts turns off chart rendering.
	DisableCharts bool
	Logger        *slog.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		IntroSheet:     "Introduction",
		IntroWidth:     100,
		TitleSize:      12,
		MaxColumnWidth: 50,
		Padding:        1,
		RowHeightPx:    15,
		ImageWidth:     600,
		ImageHeight:    400,
		TableStyle:     "TableStyleMedium9",
		DateFormat:     "yyyy-mm-dd",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.IntroSheet == "" {
		o.IntroSheet = d.IntroSheet
	}
	if o.IntroWidth <= 0 {
		o.IntroWidth = d.IntroWidth
	}
	if o.TitleSize <= 0 {
		o.TitleSize = d.TitleSize
	}
	if o.MaxColumnWidth <= 0 {
		o.MaxColumnWidth = d.MaxColumnWidth
	} else if o.MaxColumnWidth > excelize.MaxColumnWidth {
		o.MaxColumnWidth = excelize.MaxColumnWidth
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	} else if o.Padding < 0 {
		o.Padding = 0
	}
	if o.RowHeightPx <= 0 {
		o.RowHeightPx = d.RowHeightPx
	}
	if o.ImageWidth <= 0 {
		o.ImageWidth = d.ImageWidth
	}
	if o.ImageHeight <= 0 {
		o.ImageHeight = d.ImageHeight
	}
	if o.TableStyle == "" {
		o.TableStyle = d.TableStyle
	}
	if o.DateFormat == "" {
		o.DateFormat = d.DateFormat
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Workbook is a report under construction.
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	xl       *excelize.File
	opts     Options
	logger   *slog.Logger
	styles   map[cellStyle]int
	widths   map[string][]float64
	sheets   []string
	images   []ods.Image
	tableSeq int
	charts   bool
}

// NewWorkbook returns a new, empty Workbook.
//
// Charting is available if chart.Available reports so and opts.DisableCharts is false.
//
// This writer collects everything in memory, so big sheets may impose problems.
func NewWorkbook(opts Options) *Workbook {
	opts = opts.withDefaults()
	return &Workbook{
		xl:     excelize.NewFile(),
		opts:   opts,
		logger: opts.Logger,
		widths: make(map[string][]float64),
		charts: !opts.DisableCharts && chart.Available(),
	}
}

// File returns the underlying excelize File.
func (w *Workbook) File() *excelize.File { return w.xl }

// Sheets returns the names of the sheets created so far, in order.
func (w *Workbook) Sheets() []string { return append([]string(nil), w.sheets...) }

// ChartsAvailable reports whether images (charts and files) will be placed.
func (w *Workbook) ChartsAvailable() bool { return w.charts }

func (w *Workbook) Close() error {
	if w == nil || w.xl == nil {
		return nil
	}
	xl := w.xl
	w.xl = nil
	return xl.Close()
}

// newSheet creates the named sheet, the first one by renaming the default sheet.
func (w *Workbook) newSheet(name string) error {
	if err := xlreport.CheckSheetName(name); err != nil {
		return err
	}
	for _, s := range w.sheets {
		if strings.EqualFold(s, name) {
			return fmt.Errorf("%q: %w", name, xlreport.ErrDuplicateSheet)
		}
	}
	if len(w.sheets) == 0 { // first
		if err := w.xl.SetSheetName(w.xl.GetSheetName(0), name); err != nil {
			return fmt.Errorf("rename first sheet to %q: %w", name, err)
		}
	} else if _, err := w.xl.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %q: %w", name, err)
	}
	w.sheets = append(w.sheets, name)
	return nil
}

// Introduction creates the introduction sheet with each line in its own row.
func (w *Workbook) Introduction(lines []string) error {
	name := w.opts.IntroSheet
	if err := w.newSheet(name); err != nil {
		return err
	}
	for i, line := range lines {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := w.xl.SetCellStr(name, axis, line); err != nil {
			return fmt.Errorf("%s[%s]: %w", name, axis, err)
		}
	}
	return w.xl.SetColWidth(name, "A", "A", w.opts.IntroWidth)
}

// Build the introduction sheet and then every sheet of the report.
//
// The report is validated first, nothing is written on validation error.
func (w *Workbook) Build(rep xlreport.Report, intro []string, imageFuncs map[string]xlreport.ImageFunc) error {
	if err := rep.Validate(w.opts.IntroSheet); err != nil {
		return err
	}
	for nm := range imageFuncs {
		if rep.Sheet(nm) == nil {
			w.logger.Warn("image function for unknown sheet", "sheet", nm)
		}
	}
	if err := w.Introduction(intro); err != nil {
		return err
	}
	for _, s := range rep.Sheets {
		if s == nil {
			continue
		}
		if err := w.BuildSheet(s.Name, s.Tables, imageFuncs[s.Name]); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the workbook in xlsx format.
func (w *Workbook) WriteTo(dst io.Writer) (int64, error) {
	w.activateFirst()
	return w.xl.WriteTo(dst)
}

// WriteODS writes the workbook in OpenDocument spreadsheet format.
func (w *Workbook) WriteODS(dst io.Writer) error {
	return ods.Export(dst, w.xl, w.images)
}

func (w *Workbook) activateFirst() {
	if len(w.sheets) != 0 {
		if idx, err := w.xl.GetSheetIndex(w.sheets[0]); err == nil && idx >= 0 {
			w.xl.SetActiveSheet(idx)
		}
	}
}

// Save the workbook to path, overwriting it.
// Paths ending with ".ods" are written in OpenDocument format, everything else as xlsx.
//
// The file is written into a temporary file next to path and renamed,
// so no partial file remains on error.
func (w *Workbook) Save(path string) error {
	fh, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := fh.Name()
	defer os.Remove(tmp)
	if strings.EqualFold(filepath.Ext(path), ".ods") {
		err = w.WriteODS(fh)
	} else {
		_, err = w.WriteTo(fh)
	}
	if err != nil {
		fh.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err = fh.Chmod(0o644); err != nil {
		w.logger.Debug("chmod", "file", tmp, "error", err)
	}
	if err = fh.Close(); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %q to %q: %w", tmp, path, err)
	}
	w.logger.Info("workbook saved", "path", path, "sheets", len(w.sheets))
	return nil
}

// Generate the report workbook with the introduction sheet first,
// then one sheet per report sheet, and save it to path.
//
// Image functions are looked up by sheet name.
func Generate(path string, rep xlreport.Report, intro []string, imageFuncs map[string]xlreport.ImageFunc, opts Options) error {
	w := NewWorkbook(opts)
	defer w.Close()
	if err := w.Build(rep, intro, imageFuncs); err != nil {
		return err
	}
	return w.Save(path)
}

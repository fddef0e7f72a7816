// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/xlreport"
	"github.com/UNO-SOFT/xlreport/chart"
)

var salesChart = xlreport.ChartImage{Chart: chart.Bar{
	Title:  "Sales",
	Labels: []string{"Jan", "Feb", "Mar"},
	Values: []float64{100, 150, 200},
}}

func writePNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(1, 1, color.Black)
	fn := filepath.Join(t.TempDir(), "test.png")
	fh, err := os.Create(fn)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, img))
	require.NoError(t, fh.Close())
	return fn
}

func TestPlaceChart(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	require.True(t, w.ChartsAvailable())

	next := w.PlaceImage("S", salesChart, 5, Placement{})
	assert.Equal(t, 5+400/15+2, next)
	pics, err := w.xl.GetPictures("S", "A5")
	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, ".png", pics[0].Extension)
}

func TestPlaceChartCustomPlacement(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")

	next := w.PlaceImage("S", salesChart, 3, Placement{Col: "D", Width: 800, Height: 600})
	assert.Equal(t, 3+600/15+2, next)
	pics, err := w.xl.GetPictures("S", "D3")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
	require.Len(t, w.images, 1)
	assert.Equal(t, 800, w.images[0].Width)
	assert.Equal(t, 600, w.images[0].Height)
	assert.Equal(t, "D3", w.images[0].Cell)
}

func TestPlaceChartUnavailable(t *testing.T) {
	w, logs := newTestWorkbook(t, Options{DisableCharts: true}, "S")
	require.False(t, w.ChartsAvailable())

	assert.Equal(t, 5, w.PlaceImage("S", salesChart, 5, Placement{}))
	assert.Contains(t, logs.String(), "skip image")
	assert.Contains(t, logs.String(), xlreport.ErrChartingUnavailable.Error())
	cells, err := w.xl.GetPictureCells("S")
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestPlaceFileChartingUnavailable(t *testing.T) {
	w, logs := newTestWorkbook(t, Options{DisableCharts: true}, "S")
	fn := writePNG(t, 60, 40)

	assert.Equal(t, 5, w.PlaceImage("S", xlreport.FileImage(fn), 5, Placement{}))
	assert.Contains(t, logs.String(), xlreport.ErrChartingUnavailable.Error())
	cells, err := w.xl.GetPictureCells("S")
	require.NoError(t, err)
	assert.Empty(t, cells)
	assert.Empty(t, w.images)
}

func TestPlaceFile(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	fn := writePNG(t, 60, 40)

	next := w.PlaceImage("S", xlreport.FileImage(fn), 1, Placement{Col: "C", Width: 120, Height: 90})
	assert.Equal(t, 1+90/15+2, next)
	pics, err := w.xl.GetPictures("S", "C1")
	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, ".png", pics[0].Extension)
}

func TestPlaceFileMissing(t *testing.T) {
	w, logs := newTestWorkbook(t, Options{}, "S")
	fn := filepath.Join(t.TempDir(), "nonexistent.png")

	assert.Equal(t, 3, w.PlaceImage("S", xlreport.FileImage(fn), 3, Placement{}))
	assert.Contains(t, logs.String(), "skip image")
	assert.Contains(t, logs.String(), "nonexistent.png")
}

func TestPlaceFileUndecodable(t *testing.T) {
	w, logs := newTestWorkbook(t, Options{}, "S")
	fn := filepath.Join(t.TempDir(), "dummy.png")
	require.NoError(t, os.WriteFile(fn, []byte("dummy png content"), 0o644))

	assert.Equal(t, 3, w.PlaceImage("S", xlreport.FileImage(fn), 3, Placement{}))
	assert.Contains(t, logs.String(), "skip image")
}

func TestPlaceImageBadColumn(t *testing.T) {
	w, _ := newTestWorkbook(t, Options{}, "S")
	assert.Equal(t, 2, w.PlaceImage("S", salesChart, 2, Placement{Col: "1"}))
	assert.Equal(t, 2, w.PlaceImage("S", nil, 2, Placement{}))
	assert.Equal(t, 2, w.PlaceImage("S", xlreport.ChartImage{}, 2, Placement{}))
}

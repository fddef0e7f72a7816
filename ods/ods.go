// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package ods exports an excelize workbook as an OpenDocument spreadsheet.
package ods

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/valyala/quicktemplate"
	"github.com/xuri/excelize/v2"
)

const mimeType = "application/vnd.oasis.opendocument.spreadsheet"

// Image is a picture placed on a sheet, anchored at Cell, of Width x Height pixels.
type Image struct {
	Sheet, Cell string
	// Extension is the file extension with the leading dot.
	Extension     string
	Data          []byte
	Width, Height int
}

var mediaTypes = map[string]string{
	".png": "image/png", ".jpg": "image/jpeg", ".jpeg": "image/jpeg",
	".gif": "image/gif", ".bmp": "image/bmp", ".tif": "image/tiff", ".tiff": "image/tiff",
}

// Export writes every sheet of xl, with the given images, as an OpenDocument spreadsheet to w.
func Export(w io.Writer, xl *excelize.File, images []Image) error {
	zw := zip.NewWriter(w)
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err = io.WriteString(fw, mimeType); err != nil {
		return err
	}

	pictures := make(map[string][]picture)
	hrefs := make([]string, 0, len(images))
	for i, img := range images {
		href := "Pictures/" + strconv.Itoa(i+1) + strings.ToLower(img.Extension)
		if fw, err = zw.Create(href); err != nil {
			return err
		}
		if _, err = fw.Write(img.Data); err != nil {
			return fmt.Errorf("%s: %w", href, err)
		}
		hrefs = append(hrefs, href)
		col, row, err := excelize.CellNameToCoordinates(img.Cell)
		if err != nil {
			return fmt.Errorf("%s: %w", img.Sheet, err)
		}
		pictures[img.Sheet] = append(pictures[img.Sheet], picture{Image: img, href: href, col: col, row: row})
	}

	if fw, err = zw.Create("content.xml"); err != nil {
		return err
	}
	bw := bufio.NewWriter(fw)
	if err = writeContent(bw, xl, pictures); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}

	if fw, err = zw.Create("META-INF/manifest.xml"); err != nil {
		return err
	}
	bw = bufio.NewWriter(fw)
	writeManifest(bw, hrefs)
	if err = bw.Flush(); err != nil {
		return err
	}
	return zw.Close()
}

type picture struct {
	Image
	href     string
	col, row int
}

func writeManifest(w io.Writer, hrefs []string) {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	n, e := qw.N(), qw.E()
	n.S(`<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
<manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="` + mimeType + `"/>
<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
`)
	for _, href := range hrefs {
		mt := mediaTypes[path.Ext(href)]
		if mt == "" {
			mt = "application/octet-stream"
		}
		n.S(`<manifest:file-entry manifest:full-path="`)
		e.S(href)
		n.S(`" manifest:media-type="`)
		e.S(mt)
		n.S("\"/>\n")
	}
	n.S("</manifest:manifest>\n")
}

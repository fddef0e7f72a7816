// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlreport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// EncName is the default charset of the CSV files, from $LANG.
var EncName = "utf-8"

func init() {
	EncName = os.Getenv("LANG")
	if i := strings.IndexByte(EncName, '.'); i >= 0 {
		EncName = strings.ToLower(EncName[i+1:])
	} else {
		EncName = ""
	}
	if EncName == "" {
		EncName = "utf-8"
	}
}

// GetEncoding returns the named encoding, nil for UTF-8.
func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

// CSVReader is a csv.Reader that must be closed.
type CSVReader struct {
	*csv.Reader
	io.Closer
}

// OpenCsv opens the named file ("" or "-" is stdin), decodes it from encName
// and guesses the separator from the first non-alphanumeric rune.
func OpenCsv(fn, encName string) (CSVReader, error) {
	var enc encoding.Encoding
	if encName != "" {
		var err error
		if enc, err = GetEncoding(encName); err != nil {
			return CSVReader{}, err
		}
	}
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return CSVReader{}, err
		}
	}
	r := io.ReadCloser(fh)
	if enc != nil {
		r = struct {
			io.Reader
			io.Closer
		}{enc.NewDecoder().Reader(r), r}
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		r.Close()
		return CSVReader{}, err
	}
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || r == ' ' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sep
	return CSVReader{cr, r}, nil
}

// ReadCSV reads the whole CSV file into a Table, the first record being the header.
//
// With parseNumbers, integer-looking cells become int64 and float-looking ones float64.
func ReadCSV(fn, encName string, parseNumbers bool) (Table, error) {
	cr, err := OpenCsv(fn, encName)
	if err != nil {
		return Table{}, err
	}
	defer cr.Close()
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%q: %w", fn, ErrNoColumns)
		}
		return Table{}, err
	}
	t := NewTable(header...)
	for i := range t.Columns {
		t.Columns[i].Header.FontBold = true
	}
	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return t, fmt.Errorf("%q: %w", fn, err)
		}
		values := make([]any, len(t.Columns))
		for i, s := range row {
			if i >= len(values) {
				break
			}
			values[i] = parseCell(s, parseNumbers)
		}
		t.Rows = append(t.Rows, values)
	}
	return t, nil
}

func parseCell(s string, parseNumbers bool) any {
	if s == "" {
		return nil
	}
	if !parseNumbers {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// only plain decimals, no "NaN", "Inf" or hex floats
	if strings.IndexFunc(s, notDecimal) >= 0 {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func notDecimal(r rune) bool {
	return !('0' <= r && r <= '9' || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E')
}

// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlreport

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the longest sheet name a workbook accepts.
const MaxSheetNameLength = 31

// CheckSheetName returns ErrInvalidSheetName if the name is not acceptable
// as a worksheet name.
func CheckSheetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSheetName)
	}
	if utf8.RuneCountInString(name) > MaxSheetNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidSheetName, name, MaxSheetNameLength)
	}
	if i := strings.IndexAny(name, `:\/?*[]`); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidSheetName, name, name[i])
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: %q starts or ends with an apostrophe", ErrInvalidSheetName, name)
	}
	return nil
}

// Validate the report: sheet names must be valid and unique
// (case-insensitively, also against the reserved names),
// table titles unique within a sheet, every table must have columns,
// and every row must have one supported value per column.
func (r Report) Validate(reserved ...string) error {
	seen := make(map[string]struct{}, len(r.Sheets)+len(reserved))
	for _, nm := range reserved {
		seen[strings.ToLower(nm)] = struct{}{}
	}
	for _, s := range r.Sheets {
		if s == nil {
			continue
		}
		if err := CheckSheetName(s.Name); err != nil {
			return &ValidationError{Sheet: s.Name, Row: -1, Err: err}
		}
		k := strings.ToLower(s.Name)
		if _, ok := seen[k]; ok {
			return &ValidationError{Sheet: s.Name, Row: -1, Err: ErrDuplicateSheet}
		}
		seen[k] = struct{}{}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate the sheet's tables.
func (s Sheet) Validate() error {
	titles := make(map[string]struct{}, len(s.Tables))
	for _, nt := range s.Tables {
		if _, ok := titles[nt.Title]; ok {
			return &ValidationError{Sheet: s.Name, Table: nt.Title, Row: -1, Err: ErrDuplicateTable}
		}
		titles[nt.Title] = struct{}{}
		if row, err := nt.Table.Validate(); err != nil {
			return &ValidationError{Sheet: s.Name, Table: nt.Title, Row: row, Err: err}
		}
	}
	return nil
}

// Validate the table, returning the offending row index (or -1) with the error.
func (t Table) Validate() (int, error) {
	if len(t.Columns) == 0 {
		return -1, ErrNoColumns
	}
	if len(t.Columns) > excelize.MaxColumns {
		return -1, fmt.Errorf("%w: %d > %d", ErrTooManyColumns, len(t.Columns), excelize.MaxColumns)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return i, fmt.Errorf("%w: %d != %d", ErrRaggedRow, len(row), len(t.Columns))
		}
		for j, v := range row {
			if _, err := CellValue(v); err != nil {
				return i, fmt.Errorf("column %q: %w", t.Columns[j].Name, err)
			}
		}
	}
	return -1, nil
}

// CellValue resolves v to one of
// nil, string, bool, int64, uint64, float64 or time.Time.
//
// driver.Valuer (thus the sql.Null* types) and fmt.Stringer are resolved
// to their values; a zero or invalid time is nil.
func CellValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	case float32:
		return checkFloat(float64(x))
	case float64:
		return checkFloat(x)
	case []byte:
		return string(x), nil
	case time.Time:
		if x.IsZero() {
			return nil, nil
		}
		return x, nil
	case Number:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: Number %q: %w", ErrUnsupportedValue, x, err)
		}
		return checkFloat(f)
	case driver.Valuer:
		vv, err := x.Value()
		if err != nil {
			return nil, fmt.Errorf("%w: %T: %w", ErrUnsupportedValue, v, err)
		}
		if _, ok := vv.(driver.Valuer); ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
		}
		return CellValue(vv)
	case fmt.Stringer:
		return x.String(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func checkFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// not representable in a cell, left empty
		return nil, nil
	}
	return f, nil
}

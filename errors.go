// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlreport

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateSheet      = errors.New("duplicate sheet name")
	ErrDuplicateTable      = errors.New("duplicate table title")
	ErrInvalidSheetName    = errors.New("invalid sheet name")
	ErrNoColumns           = errors.New("table has no columns")
	ErrTooManyColumns      = errors.New("too many columns")
	ErrRaggedRow           = errors.New("row length differs from the column count")
	ErrUnsupportedValue    = errors.New("unsupported cell value")
	ErrTooManyRows         = errors.New("too many rows")
	ErrChartingUnavailable = errors.New("charting is not available")
)

// ValidationError is a report validation error with its location.
type ValidationError struct {
	Sheet string
	Table string
	// Row is the 0-based data row index, -1 if not applicable.
	Row int
	Err error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Table == "":
		return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
	case e.Row < 0:
		return fmt.Sprintf("sheet %q table %q: %v", e.Sheet, e.Table, e.Err)
	default:
		return fmt.Sprintf("sheet %q table %q row %d: %v", e.Sheet, e.Table, e.Row, e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

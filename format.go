// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlreport

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PercentFormat is the number format of the rate columns.
const PercentFormat = "0%"

// DataFormat is the number format of the column's data cells:
// Column.Format if set, PercentFormat for columns with "Rate" in their name.
func (c Column) DataFormat() string {
	if c.Column.Format != "" {
		return c.Column.Format
	}
	if strings.Contains(c.Name, "Rate") {
		return PercentFormat
	}
	return ""
}

// FormatValue returns the string form of a cell value,
// dates as 2006-01-02 (with the time if it is not midnight).
func FormatValue(v any) string {
	v, err := CellValue(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strings.ToUpper(strconv.FormatBool(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if h, m, s := x.Clock(); h == 0 && m == 0 && s == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}

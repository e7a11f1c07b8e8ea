package exporter

import (
	"fmt"
	"strconv"
	"time"

	"salesetl/pkg/contracts/domain"
)

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatDate formats a calendar date as yyyy-mm-dd
func formatDate(t time.Time) string {
	return t.Format(domain.ISODateLayout)
}

// formatCell renders a table cell as CSV text. Money keeps its exact digits.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return formatInt(val)
	case int:
		return formatInt(int64(val))
	case domain.Money:
		return val.String()
	case time.Time:
		return formatDate(val)
	default:
		return fmt.Sprint(val)
	}
}

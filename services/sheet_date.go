package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxExcelSerial is 9999-12-31, the last day Excel can represent.
const maxExcelSerial = 2958465

var sheetDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-06",
	"2006-01-02 15:04:05",
}

// ParseSheetDate accepts Excel day-count serials, RFC3339 and the common layouts
// seen in field sheets. Empty input is not an error.
func ParseSheetDate(raw string) (*time.Time, error) {
	val := strings.TrimSpace(raw)
	if val == "" {
		return nil, nil
	}

	// Eight bare digits are a yyyymmdd date, not a day count.
	if len(val) == 8 && isDigits(val) {
		if t, err := time.Parse("20060102", val); err == nil {
			return &t, nil
		}
		return nil, fmt.Errorf("invalid date %q", raw)
	}

	if serial, err := strconv.ParseFloat(val, 64); err == nil {
		if serial <= 0 || serial > maxExcelSerial {
			return nil, fmt.Errorf("invalid date %q", raw)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", raw, err)
		}
		return &t, nil
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", raw)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseSheetBool reads yes/no style flags such as the DNR column.
func parseSheetBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "dnr":
		return true
	}
	return false
}

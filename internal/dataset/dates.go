package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is Excel's day zero. Serial date 45809 is 2025-06-01.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate converts a date cell to a time.Time. The export mixes three
// representations depending on how the workbook was produced:
//   - Excel serial numbers (xlsb exports)
//   - ISO strings YYYY-MM-DD (re-saved CSV round-trips)
//   - Swiss strings DD.MM.YYYY
func ParseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		days := int(serial)
		frac := serial - float64(days)
		d := excelEpoch.AddDate(0, 0, days)
		if frac > 0 {
			d = d.Add(time.Duration(frac * 24 * float64(time.Hour)))
		}
		return d, nil
	}

	for _, layout := range []string{"2006-01-02", "02.01.2006", "2006-01-02T15:04:05"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", cell)
}

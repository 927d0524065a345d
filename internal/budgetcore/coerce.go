package budgetcore

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CleanNumeric converts a loosely formatted scalar into a float64. Strings
// are stripped of whitespace, thousands commas, the JOD currency unit and
// percent signs; a parenthesized value is read as a negative number.
// Anything that still fails to parse becomes 0.0 so that bulk ingestion
// never propagates missing values into downstream arithmetic.
func CleanNumeric(v interface{}) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case []byte:
		return cleanNumericString(string(t))
	case string:
		return cleanNumericString(t)
	default:
		return 0
	}
}

func cleanNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "JOD", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f := d.InexactFloat64()
	if neg {
		return -f
	}
	return f
}

var monthNums = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthNameToNum resolves a month cell to an integer in 1..12. It accepts a
// case-insensitive month name of three letters or longer ("January" -> 1) or
// an integer. Anything else, including out-of-range numbers, falls back to 1.
func MonthNameToNum(v interface{}) int {
	switch t := v.(type) {
	case int:
		if t >= 1 && t <= 12 {
			return t
		}
		return 1
	case int64:
		return MonthNameToNum(int(t))
	case float64:
		return MonthNameToNum(int(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 1
		}
		if len(s) >= 3 {
			key := strings.ToUpper(s[:1]) + strings.ToLower(s[1:2]) + strings.ToLower(s[2:3])
			if n, ok := monthNums[key]; ok {
				return n
			}
		}
		if n, err := strconv.Atoi(s); err == nil {
			if n >= 1 && n <= 12 {
				return n
			}
		}
		return 1
	default:
		return 1
	}
}

// MonthNumToName is the inverse of MonthNameToNum for valid months.
func MonthNumToName(n int) string {
	if n >= 1 && n <= 12 {
		return monthNames[n-1]
	}
	return "Unknown"
}

package excel

import (
	"math"
	"strconv"
	"strings"

	"pvsynergy/domain/synergy"
)

// FormatFloat renders v the way Python's repr does: shortest round-trip digits,
// a trailing ".0" on integral values, exponent form below 1e-4 and from 1e16.
// NaN renders as an empty cell.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if v != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// FormatIDList renders case ids as a Python list literal. Integer ids are bare,
// anything else is single-quoted.
func FormatIDList(ids []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		if _, err := strconv.ParseInt(id, 10, 64); err == nil {
			b.WriteString(id)
			continue
		}
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(id, "'", "\\'"))
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// FormatTable renders a 2x2 table as "[[a, b], [c, d]]". Integral tables keep
// integer cells.
func FormatTable(t synergy.Table2x2, integral bool) string {
	cell := FormatFloat
	if integral {
		cell = func(v float64) string { return strconv.FormatInt(int64(v), 10) }
	}
	return "[[" + cell(t[0][0]) + ", " + cell(t[0][1]) + "], [" + cell(t[1][0]) + ", " + cell(t[1][1]) + "]]"
}

// FormatValue renders one typed cell for CSV output. nil is an empty cell.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatFloat(x)
	case synergy.NullString:
		if !x.Valid {
			return ""
		}
		return x.String
	case synergy.NullFloat:
		if !x.Valid {
			return ""
		}
		return FormatFloat(x.Float64)
	case interface{ String() string }:
		return x.String()
	}
	return ""
}

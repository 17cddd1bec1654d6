package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// SortSizes orders size labels by their leading numeric token, so
// "1g" < "3.5g" < "7g" < "28g" instead of lexicographic order. Labels
// without a numeric prefix sort after the numeric ones, alphabetically.
func SortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		iv, iok := leadingNumber(sizes[i])
		jv, jok := leadingNumber(sizes[j])
		switch {
		case iok && jok:
			if iv != jv {
				return iv < jv
			}
			return sizes[i] < sizes[j]
		case iok:
			return true
		case jok:
			return false
		default:
			return sizes[i] < sizes[j]
		}
	})
}

func leadingNumber(label string) (float64, bool) {
	trimmed := strings.TrimSpace(label)
	end := 0
	seenDot := false
	for end < len(trimmed) {
		ch := trimmed[end]
		if ch >= '0' && ch <= '9' {
			end++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

package enums

import "fmt"

// SortKey is a catalog browse ordering. A single total order is applied
// after filtering.
type SortKey string

const (
	SortKeyName      SortKey = "name"
	SortKeyPriceAsc  SortKey = "price_asc"
	SortKeyPriceDesc SortKey = "price_desc"
	SortKeyTHCDesc   SortKey = "thc_desc"
	SortKeyCBDDesc   SortKey = "cbd_desc"
	SortKeySizeDesc  SortKey = "size_desc"
	SortKeyPopular   SortKey = "popular"
)

var validSortKeys = []SortKey{
	SortKeyName,
	SortKeyPriceAsc,
	SortKeyPriceDesc,
	SortKeyTHCDesc,
	SortKeyCBDDesc,
	SortKeySizeDesc,
	SortKeyPopular,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey, defaulting to popular
// when empty.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortKeyPopular, nil
	}
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}

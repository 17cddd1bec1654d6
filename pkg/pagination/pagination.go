package pagination

// The kiosk browse contract is page-numbered: the UI shows page controls and
// needs a total page count, so cursor pagination does not fit here.

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 24
	// MaxPageSize caps how many rows any browse query can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePage clamps the requested page to at least 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Offset converts page/pageSize into a row offset.
func Offset(page, pageSize int) int {
	return (NormalizePage(page) - 1) * NormalizePageSize(pageSize)
}

// TotalPages derives the page count for a result set. Zero rows is one
// empty page so the UI always has a valid current page.
func TotalPages(totalRows int64, pageSize int) int {
	size := int64(NormalizePageSize(pageSize))
	if totalRows <= 0 {
		return 1
	}
	pages := totalRows / size
	if totalRows%size != 0 {
		pages++
	}
	return int(pages)
}

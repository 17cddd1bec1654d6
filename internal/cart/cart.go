package cart

// Line is one cart entry. Adding the same product twice creates two
// lines; the line id, not the product id, is the handle for updates.
type Line struct {
	LineID         string  `json:"lineId"`
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	Size           *string `json:"size,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	UnitPriceCents int     `json:"unitPriceCents"`
	Qty            int     `json:"qty"`
}

// Cart is the persisted cart state. Version increments on every
// mutation so downstream consumers can tell whether their view is
// current.
type Cart struct {
	SessionID   string `json:"sessionId"`
	StoreID     string `json:"storeId"`
	Lines       []Line `json:"lines"`
	Version     int64  `json:"version"`
	NextLineSeq int    `json:"nextLineSeq"`
}

// ProductIDs returns the distinct product ids currently in the cart.
func (c *Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Lines))
	ids := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// ItemCount is the total unit count across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Qty
	}
	return count
}

package categories

// Cache maps product ids to category names for the duration of one report
// run. It has no eviction and is not safe for concurrent use.
type Cache struct {
	entries map[int64][]string
}

func NewCache() *Cache {
	return &Cache{entries: map[int64][]string{}}
}

// Lookup returns the cached names and whether the product was seen.
func (c *Cache) Lookup(productID int64) ([]string, bool) {
	names, ok := c.entries[productID]
	return names, ok
}

// Insert records names for productID, replacing any earlier entry.
func (c *Cache) Insert(productID int64, names []string) {
	if names == nil {
		names = []string{}
	}
	c.entries[productID] = names
}

func (c *Cache) Len() int {
	return len(c.entries)
}

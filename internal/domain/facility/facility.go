package facility

import (
	"context"
	"sort"
	"strings"
)

// Facility is a bookable venue as known to the booking site.
type Facility struct {
	ExtID       int64
	Description string
}

// Directory is the read-only facility lookup (facility table + default subset).
type Directory interface {
	Facilities(ctx context.Context) ([]Facility, error)
	DefaultIDs(ctx context.Context) ([]int64, error)
}

type Catalog struct {
	items  []Facility
	byDesc map[string][]int64
	byID   map[int64]Facility
}

// NewCatalog indexes fs. A repeated id keeps its first entry. Two ids that
// share a description are both kept.
func NewCatalog(fs []Facility) *Catalog {
	c := &Catalog{
		byDesc: make(map[string][]int64, len(fs)),
		byID:   make(map[int64]Facility, len(fs)),
	}
	for _, f := range fs {
		if _, ok := c.byID[f.ExtID]; ok {
			continue
		}
		c.byID[f.ExtID] = f
		c.byDesc[f.Description] = append(c.byDesc[f.Description], f.ExtID)
		c.items = append(c.items, f)
	}
	return c
}

func (c *Catalog) All() []Facility {
	out := make([]Facility, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) ByID(id int64) (Facility, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// IDs resolves descriptions to ids in input order. Unknown names are
// skipped; a name shared by several facilities yields all of them.
func (c *Catalog) IDs(descs []string) []int64 {
	seen := make(map[int64]bool, len(descs))
	out := make([]int64, 0, len(descs))
	for _, d := range descs {
		for _, id := range c.byDesc[strings.TrimSpace(d)] {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Known keeps the ids present in the catalog, in catalog order.
func (c *Catalog) Known(ids []int64) []int64 {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]int64, 0, len(ids))
	for _, f := range c.items {
		if want[f.ExtID] {
			out = append(out, f.ExtID)
		}
	}
	return out
}

// Load reads the facility table and the default subset in one go.
func Load(ctx context.Context, dir Directory) (*Catalog, []int64, error) {
	fs, err := dir.Facilities(ctx)
	if err != nil {
		return nil, nil, err
	}
	defaults, err := dir.DefaultIDs(ctx)
	if err != nil {
		return nil, nil, err
	}
	c := NewCatalog(fs)
	return c, c.Known(defaults), nil
}

// Defaults returns the descriptions of default facilities that exist in the
// facility table, sorted for stable display.
func Defaults(ctx context.Context, dir Directory) ([]string, error) {
	c, ids, err := Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		f, _ := c.ByID(id)
		out = append(out, f.Description)
	}
	sort.Strings(out)
	return out, nil
}

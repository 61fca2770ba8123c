package activenet

import "strings"

const (
	resultsSelector = ".card-section-actual"
	emptySelector   = ".card-section-actual__empty"
	noResultsText   = "No results found"
)

// pageState is what a search results page says about availability.
type pageState struct {
	Rendered  bool   `json:"rendered"`
	Empty     bool   `json:"empty"`
	EmptyText string `json:"emptyText"`
}

// available is fail-closed: a page that never rendered its results section
// counts as unavailable.
func (s pageState) available() bool {
	if !s.Rendered {
		return false
	}
	return !(s.Empty && strings.Contains(s.EmptyText, noResultsText))
}

package bank

import (
	"slices"

	"github.com/Rshep3087/findash/api"
)

// Selection is the set of selected transaction ids. It is independent of
// the filter: narrowing the filter does not drop ids that fall outside it.
type Selection map[string]struct{}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// Toggle adds id if absent and removes it otherwise.
func (s Selection) Toggle(id string) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// SelectAll replaces the selection with the ids of filtered.
func (s Selection) SelectAll(filtered []api.BankTransaction) {
	clear(s)
	for _, tx := range filtered {
		s[tx.ID] = struct{}{}
	}
}

// ToggleAll clears the selection when every filtered transaction is
// selected, otherwise selects all of them.
func (s Selection) ToggleAll(filtered []api.BankTransaction) {
	if s.AllSelected(filtered) {
		s.Clear()
		return
	}
	s.SelectAll(filtered)
}

// AllSelected reports whether the selection is non-empty and its size
// equals the filtered count.
func (s Selection) AllSelected(filtered []api.BankTransaction) bool {
	return len(s) > 0 && len(s) == len(filtered)
}

// Clear empties the selection.
func (s Selection) Clear() {
	clear(s)
}

// Len is the number of selected ids.
func (s Selection) Len() int {
	return len(s)
}

// IDs returns the selected ids sorted.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Hidden counts selected ids that are not in filtered.
func (s Selection) Hidden(filtered []api.BankTransaction) int {
	visible := 0
	for _, tx := range filtered {
		if s.Has(tx.ID) {
			visible++
		}
	}
	return len(s) - visible
}

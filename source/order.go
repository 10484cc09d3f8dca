package source

import (
	"slices"
	"strings"

	"github.com/alexballas/xgrid/grid"
)

// Search returns a copy of items with the filter flag set on every item
// whose name does not contain term, ignoring case. Items stay in the
// collection so the grid can fade them out in place. Items excluded by
// List stay filtered. Items that are not grid.Props are returned as is.
func Search(items []grid.Item, term string) []grid.Item {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]grid.Item, len(items))
	for i, item := range items {
		p, ok := item.(grid.Props)
		if !ok {
			out[i] = item
			continue
		}
		name, _ := p[NameProp].(string)
		excluded := grid.Truthy(p[ExcludedProp])
		miss := term != "" && !strings.Contains(strings.ToLower(name), term)

		c := p.Clone()
		c[FilterProp] = excluded || miss
		out[i] = c
	}
	return out
}

// Reorder applies a drag reorder instruction to items: the item keyed
// ev.Key moves to dense slot ev.To and every item gets a fresh integer sort
// value. Filtered items keep their place relative to their neighbours. The
// collection order is preserved; an instruction that does not match the
// collection returns an unchanged copy.
func Reorder(items []grid.Item, keyProp, sortProp, filterProp string, ev grid.MoveEvent) []grid.Item {
	out := slices.Clone(items)

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return grid.CompareValues(items[a].Prop(sortProp), items[b].Prop(sortProp))
	})

	var placed []int
	from := -1
	for _, i := range order {
		if grid.Truthy(items[i].Prop(filterProp)) {
			continue
		}
		if from < 0 && items[i].Prop(keyProp) == ev.Key {
			from = len(placed)
		}
		placed = append(placed, i)
	}
	if from < 0 || ev.To < 0 || ev.To >= len(placed) {
		return out
	}

	moved := placed[from]
	placed = slices.Delete(placed, from, from+1)
	placed = slices.Insert(placed, ev.To, moved)

	next := 0
	for slot, i := range order {
		if !grid.Truthy(items[i].Prop(filterProp)) {
			order[slot] = placed[next]
			next++
		}
	}

	for rank, i := range order {
		p, ok := items[i].(grid.Props)
		if !ok {
			continue
		}
		c := p.Clone()
		c[sortProp] = rank
		out[i] = c
	}
	return out
}

package layout

import (
	"fmt"

	"lootkeeper/internal/types"
)

// PackResult reports how a renderable list divides into pages.
type PackResult struct {
	// PerPage is the item capacity of each page.
	PerPage int
	// PageCount is the number of pages needed for the packed list. Always at
	// least 1: an empty list renders as one empty page.
	PageCount int
}

// Pack computes how many items of uniform structural cost fit one page under
// ceiling, given the scaffold cost function for pages with and without
// navigation controls.
//
// Reserving navigation only when more than one page exists is circular:
// adding the nav row can itself force more pages. The fixed point is reached
// in at most two passes for this cost model, because Scaffold(true) is a
// constant upper bound — capacity never shrinks a second time. So: test the
// no-navigation capacity first, and only if the list overflows it recompute
// with the navigation scaffold.
//
// An item whose cost exceeds even the no-navigation budget cannot be packed
// at all; that is a configuration error (ErrBudgetOverflow), never a silent
// clip or drop.
func Pack(itemCount, perItemCost, ceiling int, scaffold func(nav bool) int) (PackResult, error) {
	if itemCount < 0 {
		return PackResult{}, fmt.Errorf("negative item count %d", itemCount)
	}
	if perItemCost <= 0 {
		perItemCost = 1
	}

	usable := ceiling - scaffold(false)
	if usable < perItemCost {
		return PackResult{}, fmt.Errorf(
			"item cost %d exceeds usable budget %d (ceiling %d): %w",
			perItemCost, usable, ceiling, types.ErrBudgetOverflow)
	}
	perPage := usable / perItemCost
	if itemCount <= perPage {
		return PackResult{PerPage: perPage, PageCount: 1}, nil
	}

	// Second pass: the list needs navigation, so recompute capacity with the
	// nav scaffold reserved.
	usable = ceiling - scaffold(true)
	if usable < perItemCost {
		return PackResult{}, fmt.Errorf(
			"item cost %d exceeds usable budget %d with navigation (ceiling %d): %w",
			perItemCost, usable, ceiling, types.ErrBudgetOverflow)
	}
	perPage = usable / perItemCost
	pageCount := (itemCount + perPage - 1) / perPage
	return PackResult{PerPage: perPage, PageCount: pageCount}, nil
}

// PackItems packs a concrete item slice, deriving the uniform per-item cost
// from the most expensive item so every page honors the ceiling.
func PackItems(items []types.RenderItem, ceiling int, scaffold func(nav bool) int) (PackResult, error) {
	cost := 1
	for _, it := range items {
		if it.StructuralCost > cost {
			cost = it.StructuralCost
		}
	}
	return Pack(len(items), cost, ceiling, scaffold)
}

// PageSlice returns the items belonging to page index under res, clamping
// the index into the valid range. The final page holds the remainder; an
// exact multiple produces no trailing empty page.
func PageSlice(items []types.RenderItem, res PackResult, index int) ([]types.RenderItem, int) {
	if index < 0 {
		index = 0
	}
	if index >= res.PageCount {
		index = res.PageCount - 1
	}
	if len(items) == 0 || res.PerPage <= 0 {
		return nil, index
	}
	start := index * res.PerPage
	if start >= len(items) {
		return nil, index
	}
	end := start + res.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], index
}

package pagination

import (
	"fmt"

	"lootkeeper/internal/types"
)

// windowThreshold is the page count above which per-page controls give way
// to the fixed five-slot navigation window.
const windowThreshold = 5

// Controls builds the navigation control set for one page of a list. Control
// ids are themselves cursors, so pressing one is a plain RenderPage call.
//
// Up to windowThreshold pages: one control per page, the current page's
// control disabled. Beyond that: a fixed window of jump-first, prev, current
// (disabled), next, jump-last, with jump-first omitted on the first page and
// jump-last omitted on the last.
func Controls(listID string, page, totalPages int) []types.Control {
	if totalPages <= 1 {
		return nil
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	if totalPages <= windowThreshold {
		controls := make([]types.Control, 0, totalPages)
		for i := 0; i < totalPages; i++ {
			controls = append(controls, types.Control{
				ID:       Encode(listID, i),
				Label:    fmt.Sprintf("%d", i+1),
				Disabled: i == page,
			})
		}
		return controls
	}

	last := totalPages - 1
	var controls []types.Control
	if page > 0 {
		controls = append(controls, types.Control{ID: Encode(listID, 0), Label: "«"})
	}
	controls = append(controls,
		types.Control{ID: Encode(listID, clamp(page-1, 0, last)), Label: "‹", Disabled: page == 0},
		types.Control{ID: Encode(listID, page), Label: fmt.Sprintf("%d/%d", page+1, totalPages), Disabled: true},
		types.Control{ID: Encode(listID, clamp(page+1, 0, last)), Label: "›", Disabled: page == last},
	)
	if page < last {
		controls = append(controls, types.Control{ID: Encode(listID, last), Label: "»"})
	}
	return controls
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

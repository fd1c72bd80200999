// Package bundle groups ordered action lists into execution bundles, runs
// them with per-child failure isolation, and aggregates the outcomes.
package bundle

import (
	"lootkeeper/internal/types"
)

// Detect groups an ordered action sequence into execution bundles with a
// single left-to-right pass and one open-bundle slot:
//
//   - a display action closes any open bundle and opens a new one as parent;
//   - grant_item / grant_currency / follow_up actions attach to the open
//     bundle as children;
//   - any other action, or an attachable action with no open bundle, becomes
//     its own standalone bundle;
//   - end of input closes the open bundle.
//
// An action with an explicit parent_id naming an already-seen display action
// attaches to that bundle regardless of adjacency; adjacency inference is
// the fallback for unannotated data. An unresolvable parent_id degrades to a
// standalone bundle here — Validate flags it, Detect never fails.
//
// The output preserves source order, drops nothing, and duplicates nothing.
// A display action with zero children is a valid message-only bundle.
func Detect(actions []types.Action) []types.Bundle {
	bundles := make([]types.Bundle, 0, len(actions))
	byParent := make(map[string]int) // display action id -> bundle index
	open := -1

	for _, action := range actions {
		if action.Kind == types.KindDisplay {
			bundles = append(bundles, types.Bundle{ParentID: action.ID})
			open = len(bundles) - 1
			byParent[action.ID] = open
			continue
		}

		if action.ParentID != "" {
			if idx, ok := byParent[action.ParentID]; ok {
				bundles[idx].ChildIDs = append(bundles[idx].ChildIDs, action.ID)
				continue
			}
			// Orphaned explicit linkage: standalone, never fatal.
			bundles = append(bundles, types.Bundle{ChildIDs: []string{action.ID}})
			continue
		}

		if action.Kind.Attachable() && open >= 0 {
			bundles[open].ChildIDs = append(bundles[open].ChildIDs, action.ID)
			continue
		}

		bundles = append(bundles, types.Bundle{ChildIDs: []string{action.ID}})
	}

	return bundles
}

// Find resolves a bundle reference — the parent action id, or the sole child
// id of a standalone bundle — against a detected bundle list.
func Find(bundles []types.Bundle, ref string) (types.Bundle, bool) {
	for _, b := range bundles {
		if b.Ref() == ref {
			return b, true
		}
	}
	return types.Bundle{}, false
}

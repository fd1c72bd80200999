package bundle

import (
	"fmt"

	"lootkeeper/internal/types"
)

// Validate checks an authored action sequence for the config defects the
// runtime would otherwise have to guess around: unknown kinds, unknown claim
// policies, duplicate ids, missing per-kind config, and explicit parent
// links that do not resolve to a display action. Returns one error per
// defect; an empty result means the sequence is unambiguous.
func Validate(surfaceID string, actions []types.Action) []*types.ConfigError {
	var errs []*types.ConfigError
	report := func(actionID, format string, args ...interface{}) {
		errs = append(errs, &types.ConfigError{
			SurfaceID: surfaceID,
			ActionID:  actionID,
			Reason:    fmt.Sprintf(format, args...),
		})
	}

	displays := make(map[string]bool)
	seen := make(map[string]bool)
	for _, a := range actions {
		if a.Kind == types.KindDisplay {
			displays[a.ID] = true
		}
	}

	for _, a := range actions {
		if a.ID == "" {
			report("", "action without an id")
			continue
		}
		if seen[a.ID] {
			report(a.ID, "duplicate action id")
		}
		seen[a.ID] = true

		if !a.Kind.Valid() {
			report(a.ID, "unknown action kind %q", a.Kind)
			continue
		}
		if !a.Claim.Valid() {
			report(a.ID, "unknown claim policy %q", a.Claim)
		}

		if a.ParentID != "" {
			if a.ParentID == a.ID {
				report(a.ID, "action is its own parent")
			} else if !displays[a.ParentID] {
				report(a.ID, "parent_id %q does not name a display action on this surface", a.ParentID)
			}
		}

		switch a.Kind {
		case types.KindDisplay:
			if a.Display == nil {
				report(a.ID, "display action without display config")
			}
		case types.KindGrantItem:
			if a.GrantItem == nil {
				report(a.ID, "grant_item action without grant_item config")
			} else if a.GrantItem.ItemID == "" || a.GrantItem.Quantity == 0 {
				report(a.ID, "grant_item config needs item_id and a non-zero quantity")
			}
		case types.KindGrantCurrency:
			if a.GrantCurrency == nil {
				report(a.ID, "grant_currency action without grant_currency config")
			} else if a.GrantCurrency.Amount == 0 {
				report(a.ID, "grant_currency config needs a non-zero amount")
			}
		case types.KindFollowUp:
			if a.FollowUp == nil || a.FollowUp.SurfaceID == "" {
				report(a.ID, "follow_up action without a target surface")
			}
		case types.KindConditional:
			if a.Conditional == nil || a.Conditional.ItemID == "" {
				report(a.ID, "conditional action without an item condition")
			}
		}
	}

	return errs
}

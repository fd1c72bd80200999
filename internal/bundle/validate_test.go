package bundle

import (
	"strings"
	"testing"

	"lootkeeper/internal/types"
)

func reasonsContain(t *testing.T, errs []*types.ConfigError, fragment string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e.Reason, fragment) {
			return
		}
	}
	t.Fatalf("no ConfigError mentions %q, got %v", fragment, errs)
}

func TestValidateCleanSurface(t *testing.T) {
	actions := []types.Action{
		display("welcome"),
		grant("gold"),
		{ID: "gate", Kind: types.KindConditional, Conditional: &types.ConditionalConfig{ItemID: "key"}},
		{ID: "next", Kind: types.KindFollowUp, FollowUp: &types.FollowUpConfig{SurfaceID: "tavern"}},
	}
	if errs := Validate("shop", actions); len(errs) != 0 {
		t.Fatalf("Validate = %v, want no errors", errs)
	}
}

func TestValidateDuplicateAndMissingIDs(t *testing.T) {
	errs := Validate("shop", []types.Action{
		display("welcome"),
		display("welcome"),
		{Kind: types.KindDisplay, Display: &types.DisplayConfig{Body: "b"}},
	})
	reasonsContain(t, errs, "duplicate action id")
	reasonsContain(t, errs, "without an id")
}

func TestValidateUnknownKindAndPolicy(t *testing.T) {
	errs := Validate("shop", []types.Action{
		{ID: "mystery", Kind: "teleport"},
		{ID: "gold", Kind: types.KindGrantCurrency, Claim: "weekly",
			GrantCurrency: &types.GrantCurrencyConfig{Amount: 1}},
	})
	reasonsContain(t, errs, `unknown action kind "teleport"`)
	reasonsContain(t, errs, `unknown claim policy "weekly"`)
}

func TestValidateParentLinks(t *testing.T) {
	self := grant("gold")
	self.ParentID = "gold"
	toGrant := grant("bonus")
	toGrant.ParentID = "gold"
	errs := Validate("shop", []types.Action{display("welcome"), self, toGrant})
	reasonsContain(t, errs, "its own parent")
	reasonsContain(t, errs, "does not name a display action")
}

func TestValidateMissingKindConfigs(t *testing.T) {
	errs := Validate("shop", []types.Action{
		{ID: "d", Kind: types.KindDisplay},
		{ID: "i", Kind: types.KindGrantItem},
		{ID: "z", Kind: types.KindGrantItem, GrantItem: &types.GrantItemConfig{ItemID: "potion"}},
		{ID: "c", Kind: types.KindGrantCurrency, GrantCurrency: &types.GrantCurrencyConfig{}},
		{ID: "f", Kind: types.KindFollowUp, FollowUp: &types.FollowUpConfig{}},
		{ID: "g", Kind: types.KindConditional},
	})
	reasonsContain(t, errs, "display action without display config")
	reasonsContain(t, errs, "grant_item action without grant_item config")
	reasonsContain(t, errs, "non-zero quantity")
	reasonsContain(t, errs, "non-zero amount")
	reasonsContain(t, errs, "without a target surface")
	reasonsContain(t, errs, "without an item condition")

	for _, e := range errs {
		if e.SurfaceID != "shop" {
			t.Fatalf("ConfigError without surface id: %+v", e)
		}
	}
}

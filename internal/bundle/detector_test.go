package bundle

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lootkeeper/internal/types"
)

func display(id string) types.Action {
	return types.Action{ID: id, Kind: types.KindDisplay, Display: &types.DisplayConfig{Title: id, Body: "body"}}
}

func grant(id string) types.Action {
	return types.Action{ID: id, Kind: types.KindGrantCurrency, GrantCurrency: &types.GrantCurrencyConfig{Amount: 10}}
}

func conditional(id string) types.Action {
	return types.Action{ID: id, Kind: types.KindConditional, Conditional: &types.ConditionalConfig{ItemID: "key"}}
}

func TestDetectAdjacency(t *testing.T) {
	actions := []types.Action{
		display("welcome"),
		grant("gold"),
		grant("potion"),
		display("farewell"),
		grant("bonus"),
	}
	got := Detect(actions)
	want := []types.Bundle{
		{ParentID: "welcome", ChildIDs: []string{"gold", "potion"}},
		{ParentID: "farewell", ChildIDs: []string{"bonus"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectOrphanAttachableIsStandalone(t *testing.T) {
	got := Detect([]types.Action{grant("gold"), display("welcome")})
	want := []types.Bundle{
		{ChildIDs: []string{"gold"}},
		{ParentID: "welcome"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectMessageOnlyBundle(t *testing.T) {
	got := Detect([]types.Action{display("rules")})
	if len(got) != 1 || got[0].ParentID != "rules" || len(got[0].ChildIDs) != 0 {
		t.Fatalf("Detect = %v, want one childless bundle", got)
	}
}

func TestDetectNonAttachableDoesNotCloseBundle(t *testing.T) {
	// A conditional between a parent and its grants is standalone, but the
	// bundle stays open for the grant that follows.
	actions := []types.Action{
		display("welcome"),
		conditional("has-key"),
		grant("gold"),
	}
	got := Detect(actions)
	want := []types.Bundle{
		{ParentID: "welcome", ChildIDs: []string{"gold"}},
		{ChildIDs: []string{"has-key"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectExplicitParentBeatsAdjacency(t *testing.T) {
	bonus := grant("bonus")
	bonus.ParentID = "welcome"
	actions := []types.Action{
		display("welcome"),
		display("farewell"),
		bonus, // adjacency would attach this to farewell
	}
	got := Detect(actions)
	want := []types.Bundle{
		{ParentID: "welcome", ChildIDs: []string{"bonus"}},
		{ParentID: "farewell"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectUnresolvableExplicitParentIsStandalone(t *testing.T) {
	bonus := grant("bonus")
	bonus.ParentID = "missing"
	got := Detect([]types.Action{display("welcome"), bonus})
	want := []types.Bundle{
		{ParentID: "welcome"},
		{ChildIDs: []string{"bonus"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectDropsAndDuplicatesNothing(t *testing.T) {
	actions := []types.Action{
		grant("a"), display("b"), grant("c"), conditional("d"),
		display("e"), grant("f"), grant("g"),
	}
	got := Detect(actions)

	seen := map[string]int{}
	for _, b := range got {
		if b.ParentID != "" {
			seen[b.ParentID]++
		}
		for _, id := range b.ChildIDs {
			seen[id]++
		}
	}
	if len(seen) != len(actions) {
		t.Fatalf("detected %d distinct actions, want %d", len(seen), len(actions))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("action %s appears %d times", id, n)
		}
	}
}

func TestFind(t *testing.T) {
	bundles := Detect([]types.Action{display("welcome"), grant("gold"), conditional("solo")})

	if b, ok := Find(bundles, "welcome"); !ok || b.ParentID != "welcome" {
		t.Fatalf("Find(welcome) = %v, %v", b, ok)
	}
	if b, ok := Find(bundles, "solo"); !ok || !b.Standalone() {
		t.Fatalf("Find(solo) = %v, %v", b, ok)
	}
	if _, ok := Find(bundles, "nope"); ok {
		t.Fatal("Find(nope) succeeded")
	}
}

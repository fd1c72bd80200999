package bundle

import (
	"context"
	"path/filepath"
	"testing"

	"lootkeeper/internal/store"
	"lootkeeper/internal/types"
)

type fakeResolver struct {
	surfaces map[string][]string
}

func (r fakeResolver) HasSurface(id string) bool {
	_, ok := r.surfaces[id]
	return ok
}

func (r fakeResolver) HasAction(surfaceID, actionID string) bool {
	for _, a := range r.surfaces[surfaceID] {
		if a == actionID {
			return true
		}
	}
	return false
}

func newTestExecutor(t *testing.T) (*Executor, *store.StateStore) {
	t.Helper()
	state, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { state.Close() })

	resolver := fakeResolver{surfaces: map[string][]string{
		"shop":   {"welcome"},
		"tavern": {},
	}}
	return NewExecutor(state, resolver, nil), state
}

func welcomeActions() []types.Action {
	return []types.Action{
		{
			ID: "welcome", Kind: types.KindDisplay,
			Display: &types.DisplayConfig{Title: "Welcome", Body: "Welcome, adventurer!"},
		},
		{
			ID: "starter-kit", Kind: types.KindGrantItem, Claim: types.ClaimPerActorOnce,
			GrantItem: &types.GrantItemConfig{ItemID: "potion", Quantity: 1},
		},
		{
			ID: "starter-gold", Kind: types.KindGrantCurrency,
			GrantCurrency: &types.GrantCurrencyConfig{Amount: 100},
		},
	}
}

func TestExecuteMixedOutcomes(t *testing.T) {
	exec, state := newTestExecutor(t)
	ctx := context.Background()
	actions := welcomeActions()
	b := Detect(actions)[0]

	// Claim the per-actor item grant ahead of time, so the bundle sees it
	// exhausted while the uncapped currency grant still succeeds.
	err := state.ApplyGrant(ctx, store.Grant{
		GuildID: "g1", ActorID: "actor-1", ActionID: "starter-kit",
		Policy: types.ClaimPerActorOnce, ItemID: "potion", ItemQuantity: 1,
	})
	if err != nil {
		t.Fatalf("seed ApplyGrant error = %v", err)
	}

	result := exec.Execute(ctx, "g1", b, actions, "actor-1")

	if result.ParentContent != "Welcome, adventurer!" {
		t.Fatalf("ParentContent = %q", result.ParentContent)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(result.Outcomes))
	}
	if result.Outcomes[0].Success || result.Outcomes[0].Message != "already claimed" {
		t.Fatalf("outcomes[0] = %+v", result.Outcomes[0])
	}
	if !result.Outcomes[1].Success || result.Outcomes[1].Message != "+100" {
		t.Fatalf("outcomes[1] = %+v", result.Outcomes[1])
	}

	_, status := Aggregate(result.Outcomes)
	if status != types.StatusMixed {
		t.Fatalf("status = %s, want mixed", status)
	}
}

func TestExecuteFailureIsolation(t *testing.T) {
	// A failing child never aborts the children after it.
	exec, _ := newTestExecutor(t)
	actions := []types.Action{
		{ID: "welcome", Kind: types.KindDisplay, Display: &types.DisplayConfig{Body: "hi"}},
		{ID: "broken", Kind: types.KindFollowUp, FollowUp: &types.FollowUpConfig{SurfaceID: "nowhere"}},
		{ID: "gold", Kind: types.KindGrantCurrency, GrantCurrency: &types.GrantCurrencyConfig{Amount: 5}},
	}
	b := Detect(actions)[0]

	result := exec.Execute(context.Background(), "g1", b, actions, "actor-1")
	if len(result.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(result.Outcomes))
	}
	if result.Outcomes[0].Success {
		t.Fatalf("broken follow_up succeeded: %+v", result.Outcomes[0])
	}
	if result.Outcomes[0].Message != "target not found" {
		t.Fatalf("outcomes[0].Message = %q", result.Outcomes[0].Message)
	}
	if !result.Outcomes[1].Success {
		t.Fatalf("grant after failed child did not run: %+v", result.Outcomes[1])
	}
}

func TestExecuteIdempotentWhenFullyClaimed(t *testing.T) {
	exec, state := newTestExecutor(t)
	ctx := context.Background()
	actions := []types.Action{
		{ID: "welcome", Kind: types.KindDisplay, Display: &types.DisplayConfig{Body: "hi"}},
		{ID: "kit", Kind: types.KindGrantItem, Claim: types.ClaimPerActorOnce,
			GrantItem: &types.GrantItemConfig{ItemID: "potion", Quantity: 1}},
		{ID: "gold", Kind: types.KindGrantCurrency, Claim: types.ClaimPerActorOnce,
			GrantCurrency: &types.GrantCurrencyConfig{Amount: 100}},
	}
	b := Detect(actions)[0]

	first := exec.Execute(ctx, "g1", b, actions, "actor-1")
	for i, o := range first.Outcomes {
		if !o.Success {
			t.Fatalf("first run outcome %d failed: %+v", i, o)
		}
	}

	balance, _ := state.Balance(ctx, "g1", "actor-1")
	qty, _ := state.ItemQuantity(ctx, "g1", "actor-1", "potion")

	second := exec.Execute(ctx, "g1", b, actions, "actor-1")
	for i, o := range second.Outcomes {
		if o.Success {
			t.Fatalf("second run outcome %d succeeded: %+v", i, o)
		}
		if o.Mutated {
			t.Fatalf("second run outcome %d mutated state: %+v", i, o)
		}
	}
	_, status := Aggregate(second.Outcomes)
	if status != types.StatusAllFailure {
		t.Fatalf("second run status = %s, want all_failure", status)
	}

	balance2, _ := state.Balance(ctx, "g1", "actor-1")
	qty2, _ := state.ItemQuantity(ctx, "g1", "actor-1", "potion")
	if balance2 != balance || qty2 != qty {
		t.Fatalf("state mutated on replay: balance %d->%d, potion %d->%d", balance, balance2, qty, qty2)
	}
}

func TestExecuteGlobalOnce(t *testing.T) {
	exec, _ := newTestExecutor(t)
	ctx := context.Background()
	actions := []types.Action{
		{ID: "welcome", Kind: types.KindDisplay, Display: &types.DisplayConfig{Body: "hi"}},
		{ID: "trophy", Kind: types.KindGrantItem, Claim: types.ClaimGlobalOnce,
			GrantItem: &types.GrantItemConfig{ItemID: "trophy", Quantity: 1}},
	}
	b := Detect(actions)[0]

	first := exec.Execute(ctx, "g1", b, actions, "first-actor")
	if !first.Outcomes[0].Success {
		t.Fatalf("first claim failed: %+v", first.Outcomes[0])
	}

	// A different actor in the same guild is still capped.
	second := exec.Execute(ctx, "g1", b, actions, "second-actor")
	if second.Outcomes[0].Success {
		t.Fatalf("guild-wide cap ignored: %+v", second.Outcomes[0])
	}
}

func TestExecuteConditional(t *testing.T) {
	exec, state := newTestExecutor(t)
	ctx := context.Background()
	cond := types.Action{
		ID: "gate", Kind: types.KindConditional,
		Conditional: &types.ConditionalConfig{
			ItemID: "key", Message: "the door opens", ElseMessage: "you need a key",
		},
	}
	actions := []types.Action{cond}
	b := Detect(actions)[0]

	result := exec.Execute(ctx, "g1", b, actions, "actor-1")
	if result.Outcomes[0].Success || result.Outcomes[0].Message != "you need a key" {
		t.Fatalf("outcome without key = %+v", result.Outcomes[0])
	}

	err := state.ApplyGrant(ctx, store.Grant{
		GuildID: "g1", ActorID: "actor-1", ActionID: "give-key",
		Policy: types.ClaimNone, ItemID: "key", ItemQuantity: 1,
	})
	if err != nil {
		t.Fatalf("ApplyGrant error = %v", err)
	}

	result = exec.Execute(ctx, "g1", b, actions, "actor-1")
	if !result.Outcomes[0].Success || result.Outcomes[0].Message != "the door opens" {
		t.Fatalf("outcome with key = %+v", result.Outcomes[0])
	}
	if result.Outcomes[0].Mutated {
		t.Fatalf("conditional mutated state: %+v", result.Outcomes[0])
	}
}

func TestExecuteMissingChildAction(t *testing.T) {
	exec, _ := newTestExecutor(t)
	b := types.Bundle{ParentID: "welcome", ChildIDs: []string{"ghost"}}
	actions := []types.Action{
		{ID: "welcome", Kind: types.KindDisplay, Display: &types.DisplayConfig{Body: "hi"}},
	}
	result := exec.Execute(context.Background(), "g1", b, actions, "actor-1")
	if len(result.Outcomes) != 1 || result.Outcomes[0].Success {
		t.Fatalf("outcomes = %+v", result.Outcomes)
	}
}

func TestExecuteDeterministicOutcomes(t *testing.T) {
	// Identical persisted state and configs must yield identical outcomes.
	exec, _ := newTestExecutor(t)
	ctx := context.Background()
	actions := []types.Action{
		{ID: "welcome", Kind: types.KindDisplay, Display: &types.DisplayConfig{Body: "hi"}},
		{ID: "gold", Kind: types.KindGrantCurrency, GrantCurrency: &types.GrantCurrencyConfig{Amount: 10}},
	}
	b := Detect(actions)[0]

	a := exec.Execute(ctx, "g1", b, actions, "actor-a")
	c := exec.Execute(ctx, "g1", b, actions, "actor-b")
	if len(a.Outcomes) != len(c.Outcomes) {
		t.Fatalf("outcome counts differ: %d vs %d", len(a.Outcomes), len(c.Outcomes))
	}
	for i := range a.Outcomes {
		if a.Outcomes[i].Success != c.Outcomes[i].Success || a.Outcomes[i].Message != c.Outcomes[i].Message {
			t.Fatalf("outcome %d differs: %+v vs %+v", i, a.Outcomes[i], c.Outcomes[i])
		}
	}
}

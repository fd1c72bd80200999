package bundle

import (
	"strings"
	"testing"

	"lootkeeper/internal/types"
)

func TestAggregatePreservesOrderAndLength(t *testing.T) {
	outcomes := []types.ExecutionOutcome{
		{ActionID: "a", Success: false, Message: "already claimed"},
		{ActionID: "b", Success: true, Message: "+100"},
		{ActionID: "c", Success: true, Message: "+1 potion"},
	}
	lines, status := Aggregate(outcomes)

	if len(lines) != len(outcomes) {
		t.Fatalf("len(lines) = %d, want %d", len(lines), len(outcomes))
	}
	if !strings.Contains(lines[0], "already claimed") || !strings.HasPrefix(lines[0], failureMarker) {
		t.Fatalf("lines[0] = %q", lines[0])
	}
	if !strings.Contains(lines[1], "+100") || !strings.HasPrefix(lines[1], successMarker) {
		t.Fatalf("lines[1] = %q", lines[1])
	}
	if status != types.StatusMixed {
		t.Fatalf("status = %s, want %s", status, types.StatusMixed)
	}
}

func TestAggregateStatuses(t *testing.T) {
	_, status := Aggregate([]types.ExecutionOutcome{{Success: true}, {Success: true}})
	if status != types.StatusAllSuccess {
		t.Fatalf("status = %s, want all_success", status)
	}

	_, status = Aggregate([]types.ExecutionOutcome{{Success: false}, {Success: false}})
	if status != types.StatusAllFailure {
		t.Fatalf("status = %s, want all_failure", status)
	}

	// A message-only bundle has no children and nothing to fail.
	lines, status := Aggregate(nil)
	if len(lines) != 0 || status != types.StatusAllSuccess {
		t.Fatalf("Aggregate(nil) = %v, %s", lines, status)
	}
}

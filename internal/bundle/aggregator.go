package bundle

import (
	"lootkeeper/internal/types"
)

// Result line markers. Purely presentational.
const (
	successMarker = "✅"
	failureMarker = "❌"
)

// Aggregate maps execution outcomes to ordered, annotated result lines: one
// line per outcome, source order preserved, each tagged with a marker and
// the outcome message.
//
// The returned status summarizes the run for cosmetic framing only (payload
// accent); it never feeds back into control flow. A childless execution
// counts as all_success: a message-only bundle has nothing to fail.
func Aggregate(outcomes []types.ExecutionOutcome) ([]string, types.Status) {
	lines := make([]string, 0, len(outcomes))
	successes := 0
	for _, o := range outcomes {
		marker := failureMarker
		if o.Success {
			marker = successMarker
			successes++
		}
		line := marker
		if o.Message != "" {
			line += " " + o.Message
		}
		lines = append(lines, line)
	}

	switch {
	case successes == len(outcomes):
		return lines, types.StatusAllSuccess
	case successes == 0:
		return lines, types.StatusAllFailure
	default:
		return lines, types.StatusMixed
	}
}

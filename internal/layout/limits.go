// Package layout computes page capacity under the platform's structural
// budget and assembles budget-compliant payloads. The packer is a pure
// function; the renderer is the only piece that logs.
package layout

// Platform ceilings for one rendered message. These are fixed external
// limits of the messaging surface, not tunables: the packer and renderer
// must respect them exactly.
const (
	// MaxStructuralSlots caps the total component count of one message.
	MaxStructuralSlots = 40

	// MaxTextBlockRunes caps one text block.
	MaxTextBlockRunes = 4096

	// MaxControlLabelRunes caps one control label.
	MaxControlLabelRunes = 100

	// MaxControlsPerRow caps controls in one row.
	MaxControlsPerRow = 5

	// MaxControlRows caps control rows per message.
	MaxControlRows = 5
)

// headerSlots is the structural cost of the payload header.
const headerSlots = 1

// Scaffold returns the structural cost of everything on a page that is not
// an item: the header, the back-control row, and, when nav is true, a
// worst-case navigation row (row plus up to MaxControlsPerRow controls).
//
// Reserving the worst case keeps the packer's two-pass fixed point valid:
// capacity never shrinks again once navigation is accounted for.
func Scaffold(nav bool) int {
	cost := headerSlots + rowSlots(1)
	if nav {
		cost += rowSlots(MaxControlsPerRow)
	}
	return cost
}

// rowSlots is the structural cost of one control row with n controls.
func rowSlots(n int) int { return 1 + n }

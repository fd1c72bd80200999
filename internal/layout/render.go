package layout

import (
	"strings"

	"go.uber.org/zap"

	"lootkeeper/internal/types"
)

// Renderer assembles pages and execution results into structural payloads.
// It is fail-closed: a payload that would exceed the platform ceiling is
// replaced by a minimal fallback and the defect is logged, never surfaced as
// a crash or an invalid structure.
type Renderer struct {
	log *zap.Logger
}

// NewRenderer creates a Renderer. A nil logger disables logging.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Fallback is the minimal payload substituted when assembly cannot honor the
// structural ceiling.
func Fallback() types.Payload {
	return types.Payload{
		Header:   "Content unavailable",
		Blocks:   []types.TextBlock{{Body: "This view has too much content to display. Reduce the item count and try again."}},
		Accent:   types.AccentNeutral,
		Fallback: true,
	}
}

// RenderPage assembles one page of items plus navigation and back controls.
func (r *Renderer) RenderPage(header string, page types.Page, nav []types.Control, back types.Control) types.Payload {
	blocks := make([]types.TextBlock, 0, len(page.Items)+1)
	cost := headerSlots
	for _, item := range page.Items {
		blocks = append(blocks, types.TextBlock{Body: TruncateBody(itemBody(item))})
		cost += itemSlots(item)
	}
	if len(page.Items) == 0 {
		blocks = append(blocks, types.TextBlock{Body: "Nothing to display here yet."})
		cost += 1
	}

	var rows []types.ControlRow
	if len(nav) > 0 {
		rows = append(rows, controlRow(nav))
	}
	rows = append(rows, controlRow([]types.Control{back}))
	rows = clampRows(rows)
	for _, row := range rows {
		cost += rowSlots(len(row.Controls))
	}

	if cost > MaxStructuralSlots {
		r.log.Error("page exceeds structural budget after packing",
			zap.String("list", page.ListID),
			zap.Int("page", page.Index),
			zap.Int("cost", cost),
			zap.Int("ceiling", MaxStructuralSlots),
			zap.Error(types.ErrBudgetOverflow))
		return Fallback()
	}

	return types.Payload{
		Header: TruncateLabel(header),
		Blocks: blocks,
		Rows:   rows,
		Accent: types.AccentNeutral,
	}
}

// RenderExecution assembles a bundle execution payload: the parent display
// content followed by the aggregated per-child result lines.
func (r *Renderer) RenderExecution(header, parentContent string, lines []string, status types.Status, back types.Control) types.Payload {
	var blocks []types.TextBlock
	cost := headerSlots
	if parentContent != "" {
		blocks = append(blocks, types.TextBlock{Body: TruncateBody(parentContent)})
		cost += 1
	}
	if len(lines) > 0 {
		blocks = append(blocks, types.TextBlock{Body: TruncateBody(strings.Join(lines, "\n"))})
		cost += 1
	}
	if len(blocks) == 0 {
		blocks = append(blocks, types.TextBlock{Body: "Done."})
		cost += 1
	}

	rows := clampRows([]types.ControlRow{controlRow([]types.Control{back})})
	for _, row := range rows {
		cost += rowSlots(len(row.Controls))
	}

	if cost > MaxStructuralSlots {
		r.log.Error("execution payload exceeds structural budget",
			zap.Int("cost", cost),
			zap.Int("ceiling", MaxStructuralSlots),
			zap.Error(types.ErrBudgetOverflow))
		return Fallback()
	}

	return types.Payload{
		Header: TruncateLabel(header),
		Blocks: blocks,
		Rows:   rows,
		Accent: accentFor(status),
	}
}

func accentFor(status types.Status) types.Accent {
	switch status {
	case types.StatusAllSuccess:
		return types.AccentSuccess
	case types.StatusMixed:
		return types.AccentMixed
	case types.StatusAllFailure:
		return types.AccentFailure
	}
	return types.AccentNeutral
}

func itemBody(item types.RenderItem) string {
	if item.Title == "" {
		return item.Body
	}
	if item.Body == "" {
		return item.Title
	}
	return item.Title + "\n" + item.Body
}

// itemSlots charges at least one slot per item even when a config under-
// declares its cost, so the overflow audit stays honest.
func itemSlots(item types.RenderItem) int {
	if item.StructuralCost < 1 {
		return 1
	}
	return item.StructuralCost
}

func controlRow(controls []types.Control) types.ControlRow {
	if len(controls) > MaxControlsPerRow {
		controls = controls[:MaxControlsPerRow]
	}
	out := make([]types.Control, len(controls))
	for i, c := range controls {
		c.Label = TruncateLabel(c.Label)
		out[i] = c
	}
	return types.ControlRow{Controls: out}
}

func clampRows(rows []types.ControlRow) []types.ControlRow {
	if len(rows) > MaxControlRows {
		rows = rows[:MaxControlRows]
	}
	return rows
}

package types

// Accent is the cosmetic tone of a rendered payload. Derived from the
// overall execution status; never inspected by control flow.
type Accent string

const (
	AccentNeutral Accent = "neutral"
	AccentSuccess Accent = "success"
	AccentMixed   Accent = "mixed"
	AccentFailure Accent = "failure"
)

// TextBlock is one bounded text region of a payload.
type TextBlock struct {
	Body string `json:"body"`
}

// Control is one interactive element. ID carries the opaque cursor (or
// action reference) the platform echoes back when the control is pressed.
type Control struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// ControlRow groups up to the platform's per-row control limit.
type ControlRow struct {
	Controls []Control `json:"controls"`
}

// Payload is the structural message handed to the delivery collaborator.
// The renderer guarantees it respects every platform ceiling; when that
// cannot be honored the payload is replaced by a minimal fallback and
// Fallback is set.
type Payload struct {
	Header   string       `json:"header"`
	Blocks   []TextBlock  `json:"blocks,omitempty"`
	Rows     []ControlRow `json:"rows,omitempty"`
	Accent   Accent       `json:"accent"`
	Fallback bool         `json:"fallback,omitempty"`
}

// Package types provides shared type definitions used across lootkeeper packages.
// This package exists to break import cycles between bundle, layout, and engine.
// Types in this package should be foundational data structures with no complex dependencies.
package types

// ActionKind identifies the behavior of a configured action. The set is
// closed: the executor switches exhaustively over it and rejects anything
// else at config-validation time.
type ActionKind string

const (
	// KindDisplay shows text and anchors a bundle as its parent.
	KindDisplay ActionKind = "display"
	// KindGrantItem adds items to the triggering actor's inventory.
	KindGrantItem ActionKind = "grant_item"
	// KindGrantCurrency adds currency to the triggering actor's balance.
	KindGrantCurrency ActionKind = "grant_currency"
	// KindFollowUp points at another surface or action to run next.
	KindFollowUp ActionKind = "follow_up"
	// KindConditional resolves a message based on the actor's inventory.
	KindConditional ActionKind = "conditional"
)

// Valid reports whether k is a member of the closed kind set.
func (k ActionKind) Valid() bool {
	switch k {
	case KindDisplay, KindGrantItem, KindGrantCurrency, KindFollowUp, KindConditional:
		return true
	}
	return false
}

// Attachable reports whether an action of this kind joins the currently open
// bundle as a child during adjacency detection.
func (k ActionKind) Attachable() bool {
	switch k {
	case KindGrantItem, KindGrantCurrency, KindFollowUp:
		return true
	}
	return false
}

// ClaimPolicy governs how many times an effect action may succeed.
type ClaimPolicy string

const (
	// ClaimNone places no cap on successful triggers.
	ClaimNone ClaimPolicy = "none"
	// ClaimPerActorOnce allows one success per actor per action.
	ClaimPerActorOnce ClaimPolicy = "per_actor_once"
	// ClaimGlobalOnce allows one success per guild per action.
	ClaimGlobalOnce ClaimPolicy = "global_once"
)

// Valid reports whether p is a known claim policy. The empty policy is
// treated as ClaimNone by the executor, so it is valid here.
func (p ClaimPolicy) Valid() bool {
	switch p {
	case "", ClaimNone, ClaimPerActorOnce, ClaimGlobalOnce:
		return true
	}
	return false
}

// DisplayConfig configures a display action.
type DisplayConfig struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// GrantItemConfig configures an item grant.
type GrantItemConfig struct {
	ItemID   string `yaml:"item_id"`
	Quantity int64  `yaml:"quantity"`
}

// GrantCurrencyConfig configures a currency grant.
type GrantCurrencyConfig struct {
	Amount int64 `yaml:"amount"`
}

// FollowUpConfig points at the next surface (and optionally a specific
// action on it) the caller should be steered to.
type FollowUpConfig struct {
	SurfaceID string `yaml:"surface_id"`
	ActionID  string `yaml:"action_id,omitempty"`
}

// ConditionalConfig resolves a message depending on whether the actor holds
// at least MinQuantity of ItemID.
type ConditionalConfig struct {
	ItemID      string `yaml:"item_id"`
	MinQuantity int64  `yaml:"min_quantity"`
	Message     string `yaml:"message"`
	ElseMessage string `yaml:"else_message,omitempty"`
}

// Action is one configured action on an interactive surface. Actions are
// immutable once loaded for a given execution; authoring happens in the
// surface YAML files owned by the catalog.
//
// ParentID is the explicit parent linkage: when set it must name a display
// action on the same surface, and the action attaches to that bundle
// regardless of adjacency. Unannotated actions fall back to adjacency
// inference for compatibility with already-authored data.
type Action struct {
	ID       string      `yaml:"id"`
	Kind     ActionKind  `yaml:"kind"`
	ParentID string      `yaml:"parent_id,omitempty"`
	Claim    ClaimPolicy `yaml:"claim,omitempty"`

	Display       *DisplayConfig       `yaml:"display,omitempty"`
	GrantItem     *GrantItemConfig     `yaml:"grant_item,omitempty"`
	GrantCurrency *GrantCurrencyConfig `yaml:"grant_currency,omitempty"`
	FollowUp      *FollowUpConfig      `yaml:"follow_up,omitempty"`
	Conditional   *ConditionalConfig   `yaml:"conditional,omitempty"`
}

// ClaimOrNone normalizes the empty policy to ClaimNone.
func (a Action) ClaimOrNone() ClaimPolicy {
	if a.Claim == "" {
		return ClaimNone
	}
	return a.Claim
}

// Bundle groups a parent display action with the effect actions executed
// alongside it. Bundles are never persisted; they are recomputed from the
// action sequence on every detection pass.
//
// ParentID is empty for a standalone bundle, which holds exactly one child.
// ChildIDs preserve source order.
type Bundle struct {
	ParentID string
	ChildIDs []string
}

// Standalone reports whether the bundle wraps a single unparented action.
func (b Bundle) Standalone() bool { return b.ParentID == "" }

// Ref returns the stable reference callers use to address this bundle: the
// parent action id, or the sole child id for a standalone bundle.
func (b Bundle) Ref() string {
	if b.ParentID != "" {
		return b.ParentID
	}
	if len(b.ChildIDs) > 0 {
		return b.ChildIDs[0]
	}
	return ""
}

// ExecutionOutcome records the result of one child action. Created once per
// child per execution and never mutated afterwards.
type ExecutionOutcome struct {
	ActionID string `json:"action_id"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Mutated  bool   `json:"mutated"`
}

// BundleResult is the full result of executing one bundle.
type BundleResult struct {
	// ReceiptID uniquely identifies this execution for audit logs. It is not
	// a deduplication key: delivery is at-least-once by design.
	ReceiptID     string             `json:"receipt_id"`
	ParentContent string             `json:"parent_content"`
	Outcomes      []ExecutionOutcome `json:"outcomes"`
}

// Status summarizes a bundle execution. It only drives cosmetic framing
// (payload accent), never control flow.
type Status string

const (
	StatusAllSuccess Status = "all_success"
	StatusMixed      Status = "mixed"
	StatusAllFailure Status = "all_failure"
)

// RenderItem abstracts any displayable unit: a store entry, an inventory
// line, a map tile. StructuralCost is the number of fixed layout slots the
// item occupies; TextCost is the character count of its text body.
type RenderItem struct {
	Identity       string `json:"identity"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	StructuralCost int    `json:"structural_cost"`
	TextCost       int    `json:"text_cost"`
}

// Page is one derived slice of a renderable list. Pages are never stored.
type Page struct {
	ListID     string       `json:"list_id"`
	Index      int          `json:"index"`
	Items      []RenderItem `json:"items"`
	TotalPages int          `json:"total_pages"`
}

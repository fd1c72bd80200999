package bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lootkeeper/internal/store"
	"lootkeeper/internal/types"
)

// conflictAttempts bounds transparent retries when an optimistic state write
// loses a race before the child is reported as a transient failure.
const conflictAttempts = 3

// Resolver answers whether follow-up targets exist. The catalog implements
// it; tests substitute their own.
type Resolver interface {
	HasSurface(id string) bool
	HasAction(surfaceID, actionID string) bool
}

// Executor runs one bundle's children strictly sequentially against actor
// state. It is the only component in this package with side effects; every
// suspension point is a read-modify-write call into the state store.
//
// Failure of one child never aborts the rest: each child yields exactly one
// ExecutionOutcome, and a child's state mutation is durably committed before
// its outcome reports success. Re-running a fully-claimed bundle therefore
// produces the same all-failure outcomes with no further mutation.
type Executor struct {
	state    *store.StateStore
	resolver Resolver
	log      *zap.Logger
}

// NewExecutor creates an Executor. A nil logger disables logging.
func NewExecutor(state *store.StateStore, resolver Resolver, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{state: state, resolver: resolver, log: log}
}

// Execute runs bundle against the actor's state. actions is the surface's
// full action sequence, used to resolve child ids.
//
// Once child execution begins the bundle runs to completion: committed
// mutations are never rolled back on caller disconnect (at-least-once
// delivery, exactly-once mutation). A cancelled context fails the remaining
// store calls, which surface as per-child failure outcomes, not as an
// aborted request.
func (e *Executor) Execute(ctx context.Context, guildID string, b types.Bundle, actions []types.Action, actorID string) types.BundleResult {
	index := make(map[string]types.Action, len(actions))
	for _, a := range actions {
		index[a.ID] = a
	}

	result := types.BundleResult{ReceiptID: uuid.NewString()}

	if b.ParentID != "" {
		if parent, ok := index[b.ParentID]; ok && parent.Display != nil {
			result.ParentContent = parent.Display.Body
		}
	}

	for _, childID := range b.ChildIDs {
		action, ok := index[childID]
		if !ok {
			result.Outcomes = append(result.Outcomes, types.ExecutionOutcome{
				ActionID: childID,
				Success:  false,
				Message:  "action not found",
			})
			continue
		}
		outcome := e.executeChild(ctx, guildID, actorID, action)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	e.log.Debug("bundle executed",
		zap.String("receipt", result.ReceiptID),
		zap.String("bundle", b.Ref()),
		zap.String("actor", actorID),
		zap.Int("children", len(result.Outcomes)))
	return result
}

// executeChild runs one child action and converts every error into a failure
// outcome. The switch over the action kind is exhaustive over the closed
// kind set; an unknown kind can only come from unvalidated config and fails
// the child, not the bundle.
func (e *Executor) executeChild(ctx context.Context, guildID, actorID string, action types.Action) types.ExecutionOutcome {
	outcome := types.ExecutionOutcome{ActionID: action.ID}

	switch action.Kind {
	case types.KindDisplay:
		// Display actions normally anchor bundles; as a child (explicit
		// linkage) the body simply becomes the outcome message.
		outcome.Success = true
		if action.Display != nil {
			outcome.Message = action.Display.Body
		}
		return outcome

	case types.KindGrantItem:
		if action.GrantItem == nil {
			outcome.Message = "grant_item config missing"
			return outcome
		}
		err := e.applyWithRetry(ctx, store.Grant{
			GuildID:      guildID,
			ActorID:      actorID,
			ActionID:     action.ID,
			Policy:       action.ClaimOrNone(),
			ItemID:       action.GrantItem.ItemID,
			ItemQuantity: action.GrantItem.Quantity,
		})
		if err != nil {
			return e.failedOutcome(outcome, action, err)
		}
		outcome.Success = true
		outcome.Mutated = true
		outcome.Message = fmt.Sprintf("%+d %s", action.GrantItem.Quantity, action.GrantItem.ItemID)
		return outcome

	case types.KindGrantCurrency:
		if action.GrantCurrency == nil {
			outcome.Message = "grant_currency config missing"
			return outcome
		}
		err := e.applyWithRetry(ctx, store.Grant{
			GuildID:  guildID,
			ActorID:  actorID,
			ActionID: action.ID,
			Policy:   action.ClaimOrNone(),
			Currency: action.GrantCurrency.Amount,
		})
		if err != nil {
			return e.failedOutcome(outcome, action, err)
		}
		outcome.Success = true
		outcome.Mutated = true
		outcome.Message = fmt.Sprintf("%+d", action.GrantCurrency.Amount)
		return outcome

	case types.KindFollowUp:
		if action.FollowUp == nil || action.FollowUp.SurfaceID == "" {
			outcome.Message = "follow_up target missing"
			return outcome
		}
		target := action.FollowUp
		if e.resolver == nil || !e.resolver.HasSurface(target.SurfaceID) {
			return e.failedOutcome(outcome, action,
				fmt.Errorf("surface %s: %w", target.SurfaceID, types.ErrReferenceNotFound))
		}
		if target.ActionID != "" && !e.resolver.HasAction(target.SurfaceID, target.ActionID) {
			return e.failedOutcome(outcome, action,
				fmt.Errorf("action %s on surface %s: %w", target.ActionID, target.SurfaceID, types.ErrReferenceNotFound))
		}
		outcome.Success = true
		outcome.Message = "next: " + target.SurfaceID
		return outcome

	case types.KindConditional:
		if action.Conditional == nil || action.Conditional.ItemID == "" {
			outcome.Message = "conditional config missing"
			return outcome
		}
		cond := action.Conditional
		qty, err := e.state.ItemQuantity(ctx, guildID, actorID, cond.ItemID)
		if err != nil {
			return e.failedOutcome(outcome, action, err)
		}
		min := cond.MinQuantity
		if min <= 0 {
			min = 1
		}
		if qty >= min {
			outcome.Success = true
			outcome.Message = cond.Message
			return outcome
		}
		outcome.Message = cond.ElseMessage
		if outcome.Message == "" {
			outcome.Message = "condition not met"
		}
		return outcome
	}

	outcome.Message = fmt.Sprintf("unknown action kind %q", action.Kind)
	return outcome
}

// applyWithRetry retries lost optimistic races a bounded number of times.
// Any other error is returned as-is; a cap hit on retry comes back as
// ErrLimitExceeded, which is the correct terminal answer.
func (e *Executor) applyWithRetry(ctx context.Context, g store.Grant) error {
	var err error
	for attempt := 0; attempt < conflictAttempts; attempt++ {
		err = e.state.ApplyGrant(ctx, g)
		if !errors.Is(err, types.ErrConcurrencyConflict) {
			return err
		}
		e.log.Debug("grant conflict, retrying",
			zap.String("action", g.ActionID),
			zap.Int("attempt", attempt+1))
	}
	return err
}

// failedOutcome maps a child error onto its failure outcome. The taxonomy is
// deliberately small: limit hits and missing references carry their own
// messages, everything else is a generic transient failure.
func (e *Executor) failedOutcome(outcome types.ExecutionOutcome, action types.Action, err error) types.ExecutionOutcome {
	switch {
	case errors.Is(err, types.ErrLimitExceeded):
		outcome.Message = "already claimed"
	case errors.Is(err, types.ErrReferenceNotFound):
		outcome.Message = "target not found"
	case errors.Is(err, types.ErrConcurrencyConflict):
		outcome.Message = "busy, try again"
	default:
		outcome.Message = "temporarily unavailable"
		e.log.Warn("child action failed",
			zap.String("action", action.ID),
			zap.Error(err))
	}
	return outcome
}

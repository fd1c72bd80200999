// Package engine wires the catalog, state store, bundle executor, and
// layout renderer into the two operations the transport layer calls:
// RenderPage and ExecuteBundle. Both always produce a deliverable payload;
// errors are returned alongside for logging, never surfaced raw to users.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lootkeeper/internal/bundle"
	"lootkeeper/internal/layout"
	"lootkeeper/internal/pagination"
	"lootkeeper/internal/store"
	"lootkeeper/internal/types"
)

// inventoryPrefix marks list ids that resolve to an actor's inventory
// instead of an authored surface. The actor id follows the prefix, which
// means inventory list ids embed the cursor separator — the reason cursor
// decoding splits on the rightmost separator.
const inventoryPrefix = "inv:"

// backControlID is echoed by the platform when the back control is pressed.
const backControlID = "back"

// validateConcurrency bounds parallel surface validation.
const validateConcurrency = 4

// Engine executes render and bundle requests for one deployment.
type Engine struct {
	catalog *store.Catalog
	state   *store.StateStore
	exec    *bundle.Executor
	render  *layout.Renderer
	log     *zap.Logger
}

// New creates an Engine over the given catalog and state store. A nil
// logger disables logging.
func New(catalog *store.Catalog, state *store.StateStore, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		catalog: catalog,
		state:   state,
		exec:    bundle.NewExecutor(state, catalog, log),
		render:  layout.NewRenderer(log),
		log:     log,
	}
}

// InventoryListID builds the list id for an actor's inventory view.
func InventoryListID(actorID string) string {
	return inventoryPrefix + actorID
}

// RenderPage resolves a cursor to one page of its list and renders it.
// On any resolution failure the returned payload is a degraded-but-valid
// substitute and the error describes the cause for the caller's logs.
func (e *Engine) RenderPage(ctx context.Context, guildID, cursor string) (types.Payload, error) {
	listID, pageIndex, err := pagination.Decode(cursor)
	if err != nil {
		return unavailable("That view could not be found."), err
	}

	header, items, err := e.resolveList(ctx, guildID, listID)
	if err != nil {
		return unavailable("That view is no longer available."), err
	}

	res, err := layout.PackItems(items, layout.MaxStructuralSlots, layout.Scaffold)
	if err != nil {
		// An unpackable item is a configuration defect; the view degrades
		// instead of overflowing or silently dropping the item.
		e.log.Error("list cannot be packed", zap.String("list", listID), zap.Error(err))
		return layout.Fallback(), err
	}

	pageItems, pageIndex := layout.PageSlice(items, res, pageIndex)
	page := types.Page{
		ListID:     listID,
		Index:      pageIndex,
		Items:      pageItems,
		TotalPages: res.PageCount,
	}

	if res.PageCount > 1 {
		header = fmt.Sprintf("%s (%d/%d)", header, pageIndex+1, res.PageCount)
	}
	nav := pagination.Controls(listID, pageIndex, res.PageCount)
	back := types.Control{ID: backControlID, Label: "Back"}
	return e.render.RenderPage(header, page, nav, back), nil
}

// ExecuteBundle resolves a bundle reference on a surface, executes it for
// the actor, and renders parent content plus aggregated result lines.
func (e *Engine) ExecuteBundle(ctx context.Context, guildID, surfaceID, bundleRef, actorID string) (types.Payload, error) {
	surface, ok := e.catalog.Surface(surfaceID)
	if !ok {
		return unavailable("That menu is no longer available."),
			fmt.Errorf("surface %s: %w", surfaceID, types.ErrReferenceNotFound)
	}

	bundles := bundle.Detect(surface.Actions)
	b, ok := bundle.Find(bundles, bundleRef)
	if !ok {
		return unavailable("That option is no longer available."),
			fmt.Errorf("bundle %s on surface %s: %w", bundleRef, surfaceID, types.ErrReferenceNotFound)
	}

	result := e.exec.Execute(ctx, guildID, b, surface.Actions, actorID)
	lines, status := bundle.Aggregate(result.Outcomes)

	header := surface.Title
	if b.ParentID != "" {
		if parent, ok := surface.Action(b.ParentID); ok && parent.Display != nil && parent.Display.Title != "" {
			header = parent.Display.Title
		}
	}

	back := types.Control{ID: pagination.Encode(surfaceID, 0), Label: "Back"}
	return e.render.RenderExecution(header, result.ParentContent, lines, status, back), nil
}

// ValidateAll validates every loaded surface: action sequence coherence and
// budget feasibility. Surfaces validate in parallel with bounded
// concurrency; results come back sorted by surface id.
func (e *Engine) ValidateAll(ctx context.Context) []*types.ConfigError {
	ids := e.catalog.SurfaceIDs()

	var mu sync.Mutex
	var all []*types.ConfigError

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(validateConcurrency)
	for _, id := range ids {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs := e.validateSurface(id)
			mu.Lock()
			all = append(all, errs...)
			mu.Unlock()
			return nil
		})
	}
	// The group only carries cancellation; per-surface findings are data,
	// not errors.
	_ = eg.Wait()
	return all
}

func (e *Engine) validateSurface(id string) []*types.ConfigError {
	surface, ok := e.catalog.Surface(id)
	if !ok {
		return nil
	}

	errs := bundle.Validate(id, surface.Actions)

	if _, err := layout.PackItems(surface.RenderItems(), layout.MaxStructuralSlots, layout.Scaffold); err != nil {
		errs = append(errs, &types.ConfigError{
			SurfaceID: id,
			Reason:    err.Error(),
		})
	}

	// Follow-up targets must resolve within the loaded catalog.
	for _, a := range surface.Actions {
		if a.Kind != types.KindFollowUp || a.FollowUp == nil || a.FollowUp.SurfaceID == "" {
			continue
		}
		if !e.catalog.HasSurface(a.FollowUp.SurfaceID) {
			errs = append(errs, &types.ConfigError{
				SurfaceID: id,
				ActionID:  a.ID,
				Reason:    fmt.Sprintf("follow_up target surface %q is not loaded", a.FollowUp.SurfaceID),
			})
		} else if a.FollowUp.ActionID != "" && !e.catalog.HasAction(a.FollowUp.SurfaceID, a.FollowUp.ActionID) {
			errs = append(errs, &types.ConfigError{
				SurfaceID: id,
				ActionID:  a.ID,
				Reason:    fmt.Sprintf("follow_up target action %q not found on surface %q", a.FollowUp.ActionID, a.FollowUp.SurfaceID),
			})
		}
	}

	return errs
}

// resolveList maps a list id to its header and render items: either an
// actor inventory ("inv:<actor>") or an authored surface catalog.
func (e *Engine) resolveList(ctx context.Context, guildID, listID string) (string, []types.RenderItem, error) {
	if actorID, ok := strings.CutPrefix(listID, inventoryPrefix); ok {
		lines, err := e.state.Inventory(ctx, guildID, actorID)
		if err != nil {
			return "", nil, err
		}
		items := make([]types.RenderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, types.RenderItem{
				Identity:       line.ItemID,
				Title:          fmt.Sprintf("%s ×%d", line.ItemID, line.Quantity),
				StructuralCost: 1,
			})
		}
		return "Inventory", items, nil
	}

	surface, ok := e.catalog.Surface(listID)
	if !ok {
		return "", nil, fmt.Errorf("list %s: %w", listID, types.ErrReferenceNotFound)
	}
	return surface.Title, surface.RenderItems(), nil
}

// unavailable is the degraded payload for unresolvable requests. Unlike the
// renderer's fallback it is not a budget defect, just a stale reference.
func unavailable(message string) types.Payload {
	return types.Payload{
		Header: "Unavailable",
		Blocks: []types.TextBlock{{Body: message}},
		Accent: types.AccentNeutral,
	}
}

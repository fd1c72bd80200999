package store

import (
	"context"
	"database/sql"
	"fmt"

	"lootkeeper/internal/types"
)

// Grant is one read-modify-write lease request against actor state: a claim
// check plus the state mutation that rides on it. The claim increment and
// the grant commit in a single transaction, so a successful return means the
// mutation is durable — the caller may only then report success.
type Grant struct {
	GuildID  string
	ActorID  string
	ActionID string
	Policy   types.ClaimPolicy

	// At most one of the following is set per grant.
	ItemID       string
	ItemQuantity int64
	Currency     int64
}

// ApplyGrant checks the claim policy, increments the claim counter, and
// applies the grant, all in one transaction.
//
// Returns types.ErrLimitExceeded when the policy cap is already reached and
// types.ErrConcurrencyConflict when the optimistic version check lost a race
// (callers retry with a small bound). The counter row is initialized with an
// insert-if-absent, never a full-record write: a partial record that already
// exists keeps every sibling field it has.
func (s *StateStore) ApplyGrant(ctx context.Context, g Grant) error {
	policy := g.Policy
	if policy == "" {
		policy = types.ClaimNone
	}

	if err := s.ensureClaimRows(ctx, g); err != nil {
		return err
	}

	claims, version, err := s.claimState(ctx, g, policy)
	if err != nil {
		return err
	}
	if (policy == types.ClaimPerActorOnce || policy == types.ClaimGlobalOnce) && claims >= 1 {
		return fmt.Errorf("action %s already claimed: %w", g.ActionID, types.ErrLimitExceeded)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin grant transaction: %w", err)
	}
	defer tx.Rollback()

	// Optimistic check: the counter read above must still hold. A concurrent
	// claimer bumps the version and this update matches zero rows.
	if err := s.bumpClaim(ctx, tx, g, policy, version); err != nil {
		return err
	}

	if g.Currency != 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO balances (guild_id, actor_id, currency, version)
			VALUES (?, ?, ?, 1)
			ON CONFLICT(guild_id, actor_id)
			DO UPDATE SET currency = currency + excluded.currency, version = version + 1
		`, g.GuildID, g.ActorID, g.Currency)
		if err != nil {
			return fmt.Errorf("failed to apply currency grant: %w", err)
		}
	}
	if g.ItemID != "" && g.ItemQuantity != 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory (guild_id, actor_id, item_id, quantity)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(guild_id, actor_id, item_id)
			DO UPDATE SET quantity = quantity + excluded.quantity
		`, g.GuildID, g.ActorID, g.ItemID, g.ItemQuantity)
		if err != nil {
			return fmt.Errorf("failed to apply item grant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit grant: %w", err)
	}
	return nil
}

// ensureClaimRows creates missing counter rows. Insert-if-absent only: an
// existing row is left untouched, whatever other fields it carries.
func (s *StateStore) ensureClaimRows(ctx context.Context, g Grant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actor_claims (guild_id, actor_id, action_id) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, actor_id, action_id) DO NOTHING
	`, g.GuildID, g.ActorID, g.ActionID)
	if err != nil {
		return fmt.Errorf("failed to ensure actor claim row: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guild_claims (guild_id, action_id) VALUES (?, ?)
		ON CONFLICT(guild_id, action_id) DO NOTHING
	`, g.GuildID, g.ActionID)
	if err != nil {
		return fmt.Errorf("failed to ensure guild claim row: %w", err)
	}
	return nil
}

// claimState reads the counter the policy gates on.
func (s *StateStore) claimState(ctx context.Context, g Grant, policy types.ClaimPolicy) (claims, version int64, err error) {
	var row *sql.Row
	if policy == types.ClaimGlobalOnce {
		row = s.db.QueryRowContext(ctx,
			`SELECT claims, version FROM guild_claims WHERE guild_id = ? AND action_id = ?`,
			g.GuildID, g.ActionID)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT claims, version FROM actor_claims WHERE guild_id = ? AND actor_id = ? AND action_id = ?`,
			g.GuildID, g.ActorID, g.ActionID)
	}
	if err := row.Scan(&claims, &version); err != nil {
		return 0, 0, fmt.Errorf("failed to read claim state: %w", err)
	}
	return claims, version, nil
}

// bumpClaim increments the gating counter with a version compare-and-swap.
func (s *StateStore) bumpClaim(ctx context.Context, tx *sql.Tx, g Grant, policy types.ClaimPolicy, version int64) error {
	var res sql.Result
	var err error
	if policy == types.ClaimGlobalOnce {
		res, err = tx.ExecContext(ctx, `
			UPDATE guild_claims SET claims = claims + 1, version = version + 1
			WHERE guild_id = ? AND action_id = ? AND version = ?
		`, g.GuildID, g.ActionID, version)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE actor_claims SET claims = claims + 1, version = version + 1
			WHERE guild_id = ? AND actor_id = ? AND action_id = ? AND version = ?
		`, g.GuildID, g.ActorID, g.ActionID, version)
	}
	if err != nil {
		return fmt.Errorf("failed to increment claim counter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check claim update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("claim counter for action %s moved underneath us: %w", g.ActionID, types.ErrConcurrencyConflict)
	}
	return nil
}

// ClaimCount returns the per-actor claim counter for an action. Missing rows
// read as zero.
func (s *StateStore) ClaimCount(ctx context.Context, guildID, actorID, actionID string) (int64, error) {
	var claims int64
	err := s.db.QueryRowContext(ctx,
		`SELECT claims FROM actor_claims WHERE guild_id = ? AND actor_id = ? AND action_id = ?`,
		guildID, actorID, actionID).Scan(&claims)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read actor claims: %w", err)
	}
	return claims, nil
}

// GuildClaimCount returns the guild-wide claim counter for an action.
func (s *StateStore) GuildClaimCount(ctx context.Context, guildID, actionID string) (int64, error) {
	var claims int64
	err := s.db.QueryRowContext(ctx,
		`SELECT claims FROM guild_claims WHERE guild_id = ? AND action_id = ?`,
		guildID, actionID).Scan(&claims)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read guild claims: %w", err)
	}
	return claims, nil
}

// Balance returns the actor's currency balance.
func (s *StateStore) Balance(ctx context.Context, guildID, actorID string) (int64, error) {
	var currency int64
	err := s.db.QueryRowContext(ctx,
		`SELECT currency FROM balances WHERE guild_id = ? AND actor_id = ?`,
		guildID, actorID).Scan(&currency)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return currency, nil
}

// ItemQuantity returns how many of an item the actor holds.
func (s *StateStore) ItemQuantity(ctx context.Context, guildID, actorID, itemID string) (int64, error) {
	var qty int64
	err := s.db.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE guild_id = ? AND actor_id = ? AND item_id = ?`,
		guildID, actorID, itemID).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read inventory: %w", err)
	}
	return qty, nil
}

// InventoryLine is one owned item row.
type InventoryLine struct {
	ItemID   string
	Quantity int64
}

// Inventory lists the actor's owned items in stable item-id order.
func (s *StateStore) Inventory(ctx context.Context, guildID, actorID string) ([]InventoryLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, quantity FROM inventory
		WHERE guild_id = ? AND actor_id = ? AND quantity > 0
		ORDER BY item_id
	`, guildID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var lines []InventoryLine
	for rows.Next() {
		var line InventoryLine
		if err := rows.Scan(&line.ItemID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

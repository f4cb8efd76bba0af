package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrListNotFound is returned when no shopping list exists for the query.
var ErrListNotFound = errors.New("shopping list not found")

// Repository handles persistence of shopping lists. At most one list is kept
// per plan; saving replaces any previous list for the same plan.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores the list, replacing any existing list for the same plan.
func (r *Repository) Save(ctx context.Context, list *List) error {
	items, err := json.Marshal(list.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE plan_id = ?`, list.PlanID); err != nil {
		return fmt.Errorf("failed to replace shopping list: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO shopping_lists (id, subject_id, plan_id, from_day, to_day, items, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.SubjectID, list.PlanID, list.FromDay, list.ToDay, string(items), list.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return tx.Commit()
}

// GetByPlanID retrieves the shopping list for a plan.
func (r *Repository) GetByPlanID(ctx context.Context, planID string) (*List, error) {
	var list List
	var items string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject_id, plan_id, from_day, to_day, items, created_at
		 FROM shopping_lists WHERE plan_id = ?`, planID).
		Scan(&list.ID, &list.SubjectID, &list.PlanID, &list.FromDay, &list.ToDay, &items, &list.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &list, nil
}

// DeleteByPlanID removes the shopping list for a plan, if any.
func (r *Repository) DeleteByPlanID(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

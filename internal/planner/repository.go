package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nutriplan/internal/logger"
)

// Repository is the SQLite-backed store for plans. Each row keeps the
// invariant-bearing fields as scalar columns (subject, active flag,
// timestamps) and the full plan document as a JSON blob.
//
// The activate operations run both steps of the deactivate-all-then-
// activate-one sequence inside a single transaction, so concurrent
// activations for the same subject are serialized at the storage layer. A
// partial unique index on (subject_id) WHERE is_active additionally enforces
// at most one active row per subject.
type Repository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewRepository creates a new Repository over an open database connection.
func NewRepository(db *sql.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log.With("component", "plan_repository")}
}

// Save inserts a plan without touching activation state.
func (r *Repository) Save(ctx context.Context, plan *Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return &PersistenceError{Op: "save", Err: fmt.Errorf("failed to marshal plan: %w", err)}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (id, subject_id, title, source, is_active, created_at, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.SubjectID, plan.Title, plan.Source, boolToInt(plan.IsActive), plan.CreatedAt.UTC(), string(data))
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// CreateActive inserts a plan directly in the active state, deactivating
// every other plan of the subject inside the same transaction.
func (r *Repository) CreateActive(ctx context.Context, plan *Plan) error {
	plan.IsActive = true
	data, err := json.Marshal(plan)
	if err != nil {
		return &PersistenceError{Op: "create", Err: fmt.Errorf("failed to marshal plan: %w", err)}
	}

	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deactivateOthers(ctx, tx, plan.SubjectID, plan.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meal_plans (id, subject_id, title, source, is_active, created_at, data)
			 VALUES (?, ?, ?, ?, 1, ?, ?)`,
			plan.ID, plan.SubjectID, plan.Title, plan.Source, plan.CreatedAt.UTC(), string(data))
		return err
	})
	if err != nil {
		return &PersistenceError{Op: "create", Err: err}
	}
	return nil
}

// GetByID retrieves a plan. Returns ErrPlanNotFound if no row matches.
func (r *Repository) GetByID(ctx context.Context, planID string) (*Plan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT data, is_active FROM meal_plans WHERE id = ?`, planID)
	return scanPlan(row)
}

// ListBySubject retrieves all plans for a subject, newest first.
func (r *Repository) ListBySubject(ctx context.Context, subjectID string) ([]*Plan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data, is_active FROM meal_plans WHERE subject_id = ? ORDER BY created_at DESC`, subjectID)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return plans, nil
}

// UpdateDocument rewrites the stored plan document after an in-place
// mutation such as a single-slot meal replacement.
func (r *Repository) UpdateDocument(ctx context.Context, plan *Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return &PersistenceError{Op: "update", Err: fmt.Errorf("failed to marshal plan: %w", err)}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE meal_plans SET title = ?, data = ? WHERE id = ?`,
		plan.Title, string(data), plan.ID)
	if err != nil {
		return &PersistenceError{Op: "update", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// ActivateExclusive sets the target plan active and every other plan of the
// subject inactive, atomically. The bulk deactivate excludes the target id,
// making the first step idempotent and safe to retry. Returns the post-write
// record.
func (r *Repository) ActivateExclusive(ctx context.Context, subjectID, planID string) (*Plan, error) {
	var activated *Plan
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deactivateOthers(ctx, tx, subjectID, planID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE meal_plans SET is_active = 1 WHERE id = ? AND subject_id = ?`, planID, subjectID)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrPlanNotFound
		}

		activated, err = scanPlan(tx.QueryRowContext(ctx,
			`SELECT data, is_active FROM meal_plans WHERE id = ?`, planID))
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, &PersistenceError{Op: "activate", Err: err}
	}
	return activated, nil
}

// SetInactive marks a single plan inactive and returns the post-write record.
func (r *Repository) SetInactive(ctx context.Context, planID string) (*Plan, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE meal_plans SET is_active = 0 WHERE id = ?`, planID)
	if err != nil {
		return nil, &PersistenceError{Op: "deactivate", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrPlanNotFound
	}
	return r.GetByID(ctx, planID)
}

// Delete removes a plan. Deleting the active plan leaves the subject with
// none active; no other plan is auto-promoted.
func (r *Repository) Delete(ctx context.Context, planID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, planID)
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("transaction rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func deactivateOthers(ctx context.Context, tx *sql.Tx, subjectID, exceptPlanID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE meal_plans SET is_active = 0 WHERE subject_id = ? AND id != ?`, subjectID, exceptPlanID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*Plan, error) {
	var data string
	var isActive int
	if err := row.Scan(&data, &isActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, &PersistenceError{Op: "get", Err: err}
	}

	var plan Plan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, &PersistenceError{Op: "get", Err: fmt.Errorf("failed to unmarshal plan document: %w", err)}
	}
	// The column is authoritative for activation state; the document copy
	// can lag behind bulk deactivations.
	plan.IsActive = isActive == 1
	return &plan, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

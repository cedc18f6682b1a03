package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eventgate/checkin-server-go/internal/model"
)

type AssignmentRepository interface {
	Exists(ctx context.Context, scannerID, eventID string) (bool, error)
	Assign(ctx context.Context, scannerID, eventID string) (*model.ScannerAssignment, error)
	Unassign(ctx context.Context, scannerID string, eventIDs []string) (int64, error)
	ListByScanner(ctx context.Context, scannerID string) ([]model.ScannerAssignment, error)
}

type assignmentRepo struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Exists(ctx context.Context, scannerID, eventID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM scanner_assignments
			WHERE scanner_id = $1 AND event_id = $2
		)
	`, scannerID, eventID)
	return exists, err
}

// Assign is an upsert: re-assigning an already assigned pair keeps the
// original assignment row and timestamp.
func (r *assignmentRepo) Assign(ctx context.Context, scannerID, eventID string) (*model.ScannerAssignment, error) {
	var a model.ScannerAssignment
	err := r.db.GetContext(ctx, &a, `
		INSERT INTO scanner_assignments (scanner_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (scanner_id, event_id) DO UPDATE SET scanner_id = EXCLUDED.scanner_id
		RETURNING *
	`, scannerID, eventID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) Unassign(ctx context.Context, scannerID string, eventIDs []string) (int64, error) {
	query, args, err := sqlx.In(`
		DELETE FROM scanner_assignments
		WHERE scanner_id = ? AND event_id IN (?)
	`, scannerID, eventIDs)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *assignmentRepo) ListByScanner(ctx context.Context, scannerID string) ([]model.ScannerAssignment, error) {
	var assignments []model.ScannerAssignment
	err := r.db.SelectContext(ctx, &assignments, `
		SELECT * FROM scanner_assignments
		WHERE scanner_id = $1
		ORDER BY assigned_at DESC
	`, scannerID)
	return assignments, err
}

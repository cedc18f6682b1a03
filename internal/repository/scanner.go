package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eventgate/checkin-server-go/internal/model"
)

type ScannerRepository interface {
	FindByID(ctx context.Context, id string) (*model.Scanner, error)
	FindByIdentifier(ctx context.Context, phoneOrEmail string) (*model.Scanner, error)
	List(ctx context.Context) ([]model.ScannerWithCounts, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.ScannerWithCounts, error)
	Create(ctx context.Context, params model.CreateScannerParams) (*model.Scanner, error)
	Update(ctx context.Context, id string, params model.UpdateScannerParams) (*model.Scanner, error)
	Delete(ctx context.Context, id string) error
}

type scannerRepo struct {
	db *sqlx.DB
}

func NewScannerRepository(db *sqlx.DB) ScannerRepository {
	return &scannerRepo{db: db}
}

func (r *scannerRepo) FindByID(ctx context.Context, id string) (*model.Scanner, error) {
	var sc model.Scanner
	err := r.db.GetContext(ctx, &sc, `
		SELECT * FROM scanners WHERE id = $1
	`, id)
	return HandleNotFound(&sc, err)
}

func (r *scannerRepo) FindByIdentifier(ctx context.Context, phoneOrEmail string) (*model.Scanner, error) {
	var sc model.Scanner
	err := r.db.GetContext(ctx, &sc, `
		SELECT * FROM scanners
		WHERE phone_number = $1 OR email = $1
	`, phoneOrEmail)
	return HandleNotFound(&sc, err)
}

func (r *scannerRepo) List(ctx context.Context) ([]model.ScannerWithCounts, error) {
	var scanners []model.ScannerWithCounts
	err := r.db.SelectContext(ctx, &scanners, `
		SELECT s.*,
			(SELECT COUNT(*) FROM invites i WHERE i.scanner_id = s.id) AS invite_count,
			(SELECT COUNT(*) FROM scanner_assignments a WHERE a.scanner_id = s.id) AS assignment_count
		FROM scanners s
		ORDER BY s.created_at DESC
	`)
	return scanners, err
}

func (r *scannerRepo) ListByEvent(ctx context.Context, eventID string) ([]model.ScannerWithCounts, error) {
	var scanners []model.ScannerWithCounts
	err := r.db.SelectContext(ctx, &scanners, `
		SELECT s.*,
			(SELECT COUNT(*) FROM invites i WHERE i.scanner_id = s.id AND i.event_id = a.event_id) AS invite_count,
			(SELECT COUNT(*) FROM scanner_assignments a2 WHERE a2.scanner_id = s.id) AS assignment_count
		FROM scanners s
		JOIN scanner_assignments a ON a.scanner_id = s.id
		WHERE a.event_id = $1
		ORDER BY a.assigned_at DESC
	`, eventID)
	return scanners, err
}

func (r *scannerRepo) Create(ctx context.Context, params model.CreateScannerParams) (*model.Scanner, error) {
	var sc model.Scanner
	err := r.db.GetContext(ctx, &sc, `
		INSERT INTO scanners (id, name, phone_number, email, pin_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING *
	`, params.ID, params.Name, params.PhoneNumber, params.Email, params.PinHash)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *scannerRepo) Update(ctx context.Context, id string, params model.UpdateScannerParams) (*model.Scanner, error) {
	var sc model.Scanner
	err := r.db.GetContext(ctx, &sc, `
		UPDATE scanners SET
			name = COALESCE($2, name),
			phone_number = COALESCE($3, phone_number),
			email = COALESCE($4, email),
			pin_hash = COALESCE($5, pin_hash),
			is_active = COALESCE($6, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.PhoneNumber, params.Email, params.PinHash, params.IsActive)
	return HandleNotFound(&sc, err)
}

func (r *scannerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM scanners WHERE id = $1
	`, id)
	return err
}

package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/eventgate/checkin-server-go/internal/database"
	"github.com/eventgate/checkin-server-go/internal/model"
)

// ErrDuplicateInvite reports that a (code, event) pair has already been
// redeemed. Both the in-transaction existence check and the unique index on
// (event_id, code) surface as this error, so concurrent double scans are
// indistinguishable from sequential ones to callers.
var ErrDuplicateInvite = errors.New("invite already redeemed for this event")

type InviteRepository interface {
	// Redeem atomically records a redemption and returns the event's total
	// invite count as of after the insert. Returns ErrDuplicateInvite if the
	// (code, event) pair has been redeemed before, no matter how narrowly.
	Redeem(ctx context.Context, params model.CreateInviteParams) (int, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	CountByScanner(ctx context.Context, scannerID string) (int, error)
	CountAll(ctx context.Context) (int, error)
	FindRecentByEvent(ctx context.Context, eventID string, limit int) ([]model.RecentScan, error)
	ScansByHour(ctx context.Context, eventID string, hours int) ([]model.HourlyScanCount, error)
}

type inviteRepo struct {
	db *database.DB
}

func NewInviteRepository(db *database.DB) InviteRepository {
	return &inviteRepo{db: db}
}

func (r *inviteRepo) Redeem(ctx context.Context, params model.CreateInviteParams) (int, error) {
	var total int

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists, `
			SELECT EXISTS (
				SELECT 1 FROM invites WHERE event_id = $1 AND code = $2
			)
		`, params.EventID, params.Code)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateInvite
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO invites (id, code, event_id, scanner_id)
			VALUES ($1, $2, $3, $4)
		`, params.ID, params.Code, params.EventID, params.ScannerID)
		if err != nil {
			// Two concurrent attempts can both pass the existence check;
			// the unique index lets exactly one insert win.
			if IsUniqueViolation(err, "invites_event_id_code_key") {
				return ErrDuplicateInvite
			}
			return err
		}

		return tx.GetContext(ctx, &total, `
			SELECT COUNT(*) FROM invites WHERE event_id = $1
		`, params.EventID)
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *inviteRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM invites WHERE event_id = $1
	`, eventID)
	return count, err
}

func (r *inviteRepo) CountByScanner(ctx context.Context, scannerID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM invites WHERE scanner_id = $1
	`, scannerID)
	return count, err
}

func (r *inviteRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM invites
	`)
	return count, err
}

func (r *inviteRepo) FindRecentByEvent(ctx context.Context, eventID string, limit int) ([]model.RecentScan, error) {
	var scans []model.RecentScan
	err := r.db.SelectContext(ctx, &scans, `
		SELECT code, created_at FROM invites
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, eventID, limit)
	return scans, err
}

func (r *inviteRepo) ScansByHour(ctx context.Context, eventID string, hours int) ([]model.HourlyScanCount, error) {
	var rows []model.HourlyScanCount
	err := r.db.SelectContext(ctx, &rows, `
		SELECT DATE_TRUNC('hour', created_at) AS hour, COUNT(*)::int AS count
		FROM invites
		WHERE event_id = $1 AND created_at >= NOW() - ($2 || ' hours')::interval
		GROUP BY DATE_TRUNC('hour', created_at)
		ORDER BY hour DESC
	`, eventID, hours)
	return rows, err
}

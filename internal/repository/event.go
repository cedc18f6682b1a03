package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eventgate/checkin-server-go/internal/model"
)

type EventRepository interface {
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, activeOnly bool) ([]model.EventWithCount, error)
	Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error)
	Update(ctx context.Context, slug string, params model.UpdateEventParams) (*model.Event, error)
	SetActive(ctx context.Context, slug string, active bool) (*model.Event, error)
	HardDelete(ctx context.Context, id string) error
	DeactivateEnded(ctx context.Context) (int64, error)
}

type eventRepo struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, `
		SELECT * FROM events WHERE slug = $1
	`, slug)
	return HandleNotFound(&ev, err)
}

func (r *eventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, `
		SELECT * FROM events WHERE id = $1
	`, id)
	return HandleNotFound(&ev, err)
}

func (r *eventRepo) List(ctx context.Context, activeOnly bool) ([]model.EventWithCount, error) {
	var events []model.EventWithCount
	query := `
		SELECT e.*, COUNT(i.id) AS invite_count
		FROM events e
		LEFT JOIN invites i ON i.event_id = e.id
	`
	if activeOnly {
		query += ` WHERE e.is_active`
	}
	query += `
		GROUP BY e.id
		ORDER BY e.created_at DESC
	`
	err := r.db.SelectContext(ctx, &events, query)
	return events, err
}

func (r *eventRepo) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, `
		INSERT INTO events (
			id, slug, name, description, code_prefix,
			attendant_code_pattern, driver_code_pattern,
			start_date, end_date, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING *
	`, params.ID, params.Slug, params.Name, params.Description, params.CodePrefix,
		params.AttendantCodePattern, params.DriverCodePattern,
		params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepo) Update(ctx context.Context, slug string, params model.UpdateEventParams) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, `
		UPDATE events SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			code_prefix = COALESCE($4, code_prefix),
			attendant_code_pattern = COALESCE($5, attendant_code_pattern),
			driver_code_pattern = COALESCE($6, driver_code_pattern),
			is_active = COALESCE($7, is_active),
			start_date = COALESCE($8, start_date),
			end_date = COALESCE($9, end_date),
			updated_at = NOW()
		WHERE slug = $1
		RETURNING *
	`, slug, params.Name, params.Description, params.CodePrefix,
		params.AttendantCodePattern, params.DriverCodePattern,
		params.IsActive, params.StartDate, params.EndDate)
	return HandleNotFound(&ev, err)
}

func (r *eventRepo) SetActive(ctx context.Context, slug string, active bool) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, `
		UPDATE events SET is_active = $2, updated_at = NOW()
		WHERE slug = $1
		RETURNING *
	`, slug, active)
	return HandleNotFound(&ev, err)
}

func (r *eventRepo) HardDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM events WHERE id = $1
	`, id)
	return err
}

func (r *eventRepo) DeactivateEnded(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE events SET is_active = FALSE, updated_at = NOW()
		WHERE is_active AND end_date IS NOT NULL AND end_date < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

package service

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/codespace"
	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	recentScansLimit = 10
	statsWindowHours = 24
)

type CreateEventInput struct {
	Name                 string     `json:"name"`
	Slug                 string     `json:"slug"`
	Description          *string    `json:"description"`
	CodePrefix           string     `json:"codePrefix"`
	AttendantCodePattern string     `json:"attendantCodePattern"`
	DriverCodePattern    *string    `json:"driverCodePattern"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              *time.Time `json:"endDate"`
}

type UpdateEventInput struct {
	Name                 *string    `json:"name"`
	Description          *string    `json:"description"`
	CodePrefix           *string    `json:"codePrefix"`
	AttendantCodePattern *string    `json:"attendantCodePattern"`
	DriverCodePattern    *string    `json:"driverCodePattern"`
	IsActive             *bool      `json:"isActive"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              *time.Time `json:"endDate"`
}

type EventStats struct {
	TotalScanned int                     `json:"totalScanned"`
	RecentScans  []model.RecentScan      `json:"recentScans"`
	ScansByHour  []model.HourlyScanCount `json:"scansByHour"`
}

type EventService struct {
	eventRepo  repository.EventRepository
	inviteRepo repository.InviteRepository
}

func NewEventService(eventRepo repository.EventRepository, inviteRepo repository.InviteRepository) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		inviteRepo: inviteRepo,
	}
}

func (s *EventService) List(ctx context.Context, activeOnly bool) ([]model.EventWithCount, error) {
	events, err := s.eventRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return events, nil
}

func (s *EventService) GetBySlug(ctx context.Context, slug string) (*model.EventWithCount, error) {
	event, err := s.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}

	count, err := s.inviteRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &model.EventWithCount{Event: *event, InviteCount: count}, nil
}

func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*model.Event, error) {
	switch {
	case input.Name == "":
		return nil, apperrors.MissingRequired("name")
	case input.Slug == "":
		return nil, apperrors.MissingRequired("slug")
	case input.CodePrefix == "":
		return nil, apperrors.MissingRequired("codePrefix")
	case input.AttendantCodePattern == "":
		return nil, apperrors.MissingRequired("attendantCodePattern")
	}

	if !slugPattern.MatchString(input.Slug) {
		return nil, apperrors.InvalidInput("slug", "must contain only lowercase letters, digits, and dashes")
	}

	// Both pattern fields must compile before anything is persisted.
	if err := codespace.Validate(input.AttendantCodePattern); err != nil {
		return nil, apperrors.InvalidPattern(err)
	}
	if input.DriverCodePattern != nil && *input.DriverCodePattern != "" {
		if err := codespace.Validate(*input.DriverCodePattern); err != nil {
			return nil, apperrors.InvalidPattern(err)
		}
	}

	existing, err := s.eventRepo.FindBySlug(ctx, input.Slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Event with this slug")
	}

	event, err := s.eventRepo.Create(ctx, model.CreateEventParams{
		ID:                   uuid.NewString(),
		Slug:                 input.Slug,
		Name:                 input.Name,
		Description:          input.Description,
		CodePrefix:           input.CodePrefix,
		AttendantCodePattern: input.AttendantCodePattern,
		DriverCodePattern:    input.DriverCodePattern,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
	})
	if err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.AlreadyExists("Event with this slug")
		}
		return nil, apperrors.Database(err)
	}

	log.Info().Str("slug", event.Slug).Str("eventId", event.ID).Msg("event created")
	return event, nil
}

func (s *EventService) Update(ctx context.Context, slug string, input UpdateEventInput) (*model.Event, error) {
	if input.AttendantCodePattern != nil {
		if err := codespace.Validate(*input.AttendantCodePattern); err != nil {
			return nil, apperrors.InvalidPattern(err)
		}
	}
	if input.DriverCodePattern != nil && *input.DriverCodePattern != "" {
		if err := codespace.Validate(*input.DriverCodePattern); err != nil {
			return nil, apperrors.InvalidPattern(err)
		}
	}

	event, err := s.eventRepo.Update(ctx, slug, model.UpdateEventParams{
		Name:                 input.Name,
		Description:          input.Description,
		CodePrefix:           input.CodePrefix,
		AttendantCodePattern: input.AttendantCodePattern,
		DriverCodePattern:    input.DriverCodePattern,
		IsActive:             input.IsActive,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}

	log.Info().Str("slug", slug).Msg("event updated")
	return event, nil
}

// Delete deactivates the event, or removes it permanently when permanent is
// set. Permanent deletion is refused while any redemption rows exist.
func (s *EventService) Delete(ctx context.Context, slug string, permanent bool) (*model.Event, error) {
	if !permanent {
		event, err := s.eventRepo.SetActive(ctx, slug, false)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if event == nil {
			return nil, apperrors.EventNotFound()
		}
		log.Info().Str("slug", slug).Msg("event deactivated")
		return event, nil
	}

	event, err := s.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}

	scanCount, err := s.inviteRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if scanCount > 0 {
		return nil, apperrors.Conflict("Cannot delete event with scans recorded; deactivate instead").
			WithDetails(map[string]int{"scanCount": scanCount})
	}

	if err := s.eventRepo.HardDelete(ctx, event.ID); err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("slug", slug).Msg("event permanently deleted")
	return event, nil
}

func (s *EventService) Stats(ctx context.Context, slug string) (*EventStats, error) {
	event, err := s.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}

	total, err := s.inviteRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	recent, err := s.inviteRepo.FindRecentByEvent(ctx, event.ID, recentScansLimit)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	byHour, err := s.inviteRepo.ScansByHour(ctx, event.ID, statsWindowHours)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &EventStats{
		TotalScanned: total,
		RecentScans:  recent,
		ScansByHour:  byHour,
	}, nil
}

// TotalScanned is the redemption count across all events.
func (s *EventService) TotalScanned(ctx context.Context) (int, error) {
	total, err := s.inviteRepo.CountAll(ctx)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return total, nil
}

// GenerateCodeSpace derives the pattern for a participant class.
// An empty result means "not generated" (bad prefix or count).
func (s *EventService) GenerateCodeSpace(prefix string, count int) string {
	return codespace.Generate(prefix, count)
}

// ValidatePattern gates a candidate pattern string before it is stored.
func (s *EventService) ValidatePattern(pattern string) error {
	if err := codespace.Validate(pattern); err != nil {
		return apperrors.InvalidPattern(err)
	}
	return nil
}

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/metrics"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/util"
)

type CreateScannerInput struct {
	Name        string   `json:"name"`
	PhoneNumber *string  `json:"phoneNumber"`
	Email       *string  `json:"email"`
	Pin         string   `json:"pin"`
	EventSlugs  []string `json:"eventSlugs"`
}

type UpdateScannerInput struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Pin         *string `json:"pin"`
	IsActive    *bool   `json:"isActive"`
}

type LoginInput struct {
	PhoneOrEmail string `json:"phoneOrEmail"`
	Pin          string `json:"pin"`
	EventSlug    string `json:"eventSlug"`
}

type LoginResult struct {
	Token   string        `json:"token"`
	Scanner model.Scanner `json:"scanner"`
	EventID string        `json:"eventId"`
}

type ScannerService struct {
	scannerRepo    repository.ScannerRepository
	assignmentRepo repository.AssignmentRepository
	eventRepo      repository.EventRepository
	inviteRepo     repository.InviteRepository
	tokens         *TokenService
}

func NewScannerService(
	scannerRepo repository.ScannerRepository,
	assignmentRepo repository.AssignmentRepository,
	eventRepo repository.EventRepository,
	inviteRepo repository.InviteRepository,
	tokens *TokenService,
) *ScannerService {
	return &ScannerService{
		scannerRepo:    scannerRepo,
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
		inviteRepo:     inviteRepo,
		tokens:         tokens,
	}
}

func (s *ScannerService) List(ctx context.Context, eventSlug string) ([]model.ScannerWithCounts, error) {
	if eventSlug == "" {
		scanners, err := s.scannerRepo.List(ctx)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		return scanners, nil
	}

	event, err := s.eventRepo.FindBySlug(ctx, eventSlug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}

	scanners, err := s.scannerRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return scanners, nil
}

func (s *ScannerService) Create(ctx context.Context, input CreateScannerInput) (*model.Scanner, error) {
	switch {
	case input.Name == "":
		return nil, apperrors.MissingRequired("name")
	case input.Pin == "":
		return nil, apperrors.MissingRequired("pin")
	}
	if !hasValue(input.PhoneNumber) && !hasValue(input.Email) {
		return nil, apperrors.ValidationError("Either phone number or email is required")
	}

	for _, identifier := range []*string{input.PhoneNumber, input.Email} {
		if !hasValue(identifier) {
			continue
		}
		existing, err := s.scannerRepo.FindByIdentifier(ctx, *identifier)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if existing != nil {
			return nil, apperrors.AlreadyExists("Scanner with this phone number or email")
		}
	}

	pinHash, err := util.HashPin(input.Pin)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash pin").WithCause(err)
	}

	scanner, err := s.scannerRepo.Create(ctx, model.CreateScannerParams{
		ID:          uuid.NewString(),
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		PinHash:     pinHash,
	})
	if err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.AlreadyExists("Scanner with this phone number or email")
		}
		return nil, apperrors.Database(err)
	}

	if len(input.EventSlugs) > 0 {
		if _, err := s.Assign(ctx, scanner.ID, input.EventSlugs); err != nil {
			return nil, err
		}
	}

	log.Info().Str("scannerId", scanner.ID).Str("name", scanner.Name).Msg("scanner created")
	return scanner, nil
}

func (s *ScannerService) Update(ctx context.Context, id string, input UpdateScannerInput) (*model.Scanner, error) {
	var pinHash *string
	if input.Pin != nil {
		hashed, err := util.HashPin(*input.Pin)
		if err != nil {
			return nil, apperrors.Internal("Failed to hash pin").WithCause(err)
		}
		pinHash = &hashed
	}

	scanner, err := s.scannerRepo.Update(ctx, id, model.UpdateScannerParams{
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		PinHash:     pinHash,
		IsActive:    input.IsActive,
	})
	if err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.AlreadyExists("Scanner with this phone number or email")
		}
		return nil, apperrors.Database(err)
	}
	if scanner == nil {
		return nil, apperrors.NotFound("Scanner")
	}

	log.Info().Str("scannerId", id).Msg("scanner updated")
	return scanner, nil
}

// Delete removes a scanner and its assignments. Refused while redemption
// rows still reference the scanner.
func (s *ScannerService) Delete(ctx context.Context, id string) error {
	scanner, err := s.scannerRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if scanner == nil {
		return apperrors.NotFound("Scanner")
	}

	scanCount, err := s.inviteRepo.CountByScanner(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if scanCount > 0 {
		return apperrors.Conflict("Cannot delete scanner with scans recorded; deactivate instead").
			WithDetails(map[string]int{"scanCount": scanCount})
	}

	if err := s.scannerRepo.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("scannerId", id).Msg("scanner deleted")
	return nil
}

// Assign links the scanner to every event the slugs resolve to. Unknown
// slugs are skipped; if none resolve the call fails.
func (s *ScannerService) Assign(ctx context.Context, scannerID string, eventSlugs []string) ([]model.ScannerAssignment, error) {
	scanner, err := s.scannerRepo.FindByID(ctx, scannerID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if scanner == nil {
		return nil, apperrors.NotFound("Scanner")
	}

	var assignments []model.ScannerAssignment
	for _, slug := range eventSlugs {
		event, err := s.eventRepo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if event == nil {
			continue
		}

		assignment, err := s.assignmentRepo.Assign(ctx, scannerID, event.ID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		assignments = append(assignments, *assignment)
	}

	if len(assignments) == 0 {
		return nil, apperrors.NotFound("Event")
	}

	log.Info().Str("scannerId", scannerID).Int("count", len(assignments)).Msg("scanner assigned to events")
	return assignments, nil
}

func (s *ScannerService) Unassign(ctx context.Context, scannerID string, eventSlugs []string) error {
	var eventIDs []string
	for _, slug := range eventSlugs {
		event, err := s.eventRepo.FindBySlug(ctx, slug)
		if err != nil {
			return apperrors.Database(err)
		}
		if event != nil {
			eventIDs = append(eventIDs, event.ID)
		}
	}
	if len(eventIDs) == 0 {
		return apperrors.NotFound("Event")
	}

	removed, err := s.assignmentRepo.Unassign(ctx, scannerID, eventIDs)
	if err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("scannerId", scannerID).Int64("count", removed).Msg("scanner unassigned from events")
	return nil
}

// Login authenticates a scanner for a specific event and issues a session
// token. The token proves identity only; every redemption re-checks the
// event, the scanner, and the assignment.
func (s *ScannerService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	result, err := s.login(ctx, input)
	metrics.ObserveScannerLogin(err == nil)
	return result, err
}

func (s *ScannerService) login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	switch {
	case input.PhoneOrEmail == "":
		return nil, apperrors.MissingRequired("phoneOrEmail")
	case input.Pin == "":
		return nil, apperrors.MissingRequired("pin")
	case input.EventSlug == "":
		return nil, apperrors.MissingRequired("eventSlug")
	}

	event, err := s.eventRepo.FindBySlug(ctx, input.EventSlug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}
	if !event.IsActive {
		return nil, apperrors.EventInactive()
	}

	scanner, err := s.scannerRepo.FindByIdentifier(ctx, input.PhoneOrEmail)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if scanner == nil || !scanner.IsActive {
		return nil, apperrors.InvalidCredentials()
	}

	assigned, err := s.assignmentRepo.Exists(ctx, scanner.ID, event.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if !assigned {
		return nil, apperrors.NotAuthorizedForEvent()
	}

	if !util.CheckPinHash(input.Pin, scanner.PinHash) {
		log.Warn().Str("scannerId", scanner.ID).Msg("scanner login with wrong pin")
		return nil, apperrors.InvalidCredentials()
	}

	token, err := s.tokens.Mint(scanner.ID, scanner.Name)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue session token").WithCause(err)
	}

	log.Info().Str("scannerId", scanner.ID).Str("eventSlug", input.EventSlug).Msg("scanner logged in")
	return &LoginResult{
		Token:   token,
		Scanner: *scanner,
		EventID: event.ID,
	}, nil
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}

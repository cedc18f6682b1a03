package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/metrics"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/util"
)

// RedemptionResult is the acceptance receipt returned for a successful scan.
type RedemptionResult struct {
	Message      string `json:"message"`
	EventName    string `json:"eventName"`
	TotalScanned int    `json:"totalScanned"`
}

// RedemptionService is the single authority deciding whether a presented
// code becomes a permanent redemption record. Authorization is stateless:
// event, scanner, and assignment rows are re-read on every attempt.
type RedemptionService struct {
	eventRepo      repository.EventRepository
	scannerRepo    repository.ScannerRepository
	assignmentRepo repository.AssignmentRepository
	inviteRepo     repository.InviteRepository
}

func NewRedemptionService(
	eventRepo repository.EventRepository,
	scannerRepo repository.ScannerRepository,
	assignmentRepo repository.AssignmentRepository,
	inviteRepo repository.InviteRepository,
) *RedemptionService {
	return &RedemptionService{
		eventRepo:      eventRepo,
		scannerRepo:    scannerRepo,
		assignmentRepo: assignmentRepo,
		inviteRepo:     inviteRepo,
	}
}

// Authorize confirms the scanner may redeem codes for the event right now.
func (s *RedemptionService) Authorize(ctx context.Context, scannerID, eventSlug string) (*model.Event, error) {
	event, err := s.eventRepo.FindBySlug(ctx, eventSlug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound()
	}
	if !event.IsActive {
		return nil, apperrors.EventInactive()
	}

	scanner, err := s.scannerRepo.FindByID(ctx, scannerID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if scanner == nil || !scanner.IsActive {
		return nil, apperrors.InvalidCredentials()
	}

	assigned, err := s.assignmentRepo.Exists(ctx, scannerID, event.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if !assigned {
		return nil, apperrors.NotAuthorizedForEvent()
	}

	return event, nil
}

// AttemptRedemption validates the code against the event's code-space and
// records it at most once per (code, event). Retries after a successful
// commit deterministically get AlreadyRedeemed.
func (s *RedemptionService) AttemptRedemption(ctx context.Context, code, eventSlug, scannerID string) (*RedemptionResult, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.ObserveRedemption(outcome, float64(time.Since(start).Milliseconds()))
	}()

	event, err := s.Authorize(ctx, scannerID, eventSlug)
	if err != nil {
		outcome = "rejected_auth"
		return nil, err
	}

	ok, err := matchesCodeSpace(event, code)
	if err != nil {
		// Pattern fields are validated on every write, so a stored pattern
		// that no longer compiles is a data corruption, not a bad scan.
		return nil, apperrors.Internal("Event code pattern is not usable").WithCause(err)
	}
	if !ok {
		outcome = "invalid_code_format"
		log.Warn().
			Str("code", util.MaskCode(code)).
			Str("eventSlug", eventSlug).
			Msg("invalid invite code format")
		return nil, apperrors.InvalidCodeFormat()
	}

	total, err := s.inviteRepo.Redeem(ctx, model.CreateInviteParams{
		ID:        uuid.NewString(),
		Code:      code,
		EventID:   event.ID,
		ScannerID: scannerID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateInvite) {
			outcome = "already_redeemed"
			log.Info().
				Str("code", util.MaskCode(code)).
				Str("eventSlug", eventSlug).
				Str("scannerId", scannerID).
				Msg("duplicate redemption attempt")
			return nil, apperrors.AlreadyRedeemed()
		}
		return nil, apperrors.Database(err)
	}

	outcome = "accepted"
	log.Info().
		Str("code", util.MaskCode(code)).
		Str("eventSlug", eventSlug).
		Str("scannerId", scannerID).
		Int("totalScanned", total).
		Msg("invite redeemed")

	return &RedemptionResult{
		Message:      "Welcome to the Event",
		EventName:    event.Name,
		TotalScanned: total,
	}, nil
}

// matchesCodeSpace checks the code against the attendant pattern and, when
// present, the driver pattern. Both classes share the event's single
// per-code uniqueness namespace.
func matchesCodeSpace(event *model.Event, code string) (bool, error) {
	re, err := regexp.Compile(event.AttendantCodePattern)
	if err != nil {
		return false, err
	}
	if re.MatchString(code) {
		return true, nil
	}

	if event.DriverCodePattern == nil || *event.DriverCodePattern == "" {
		return false, nil
	}

	re, err = regexp.Compile(*event.DriverCodePattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(code), nil
}

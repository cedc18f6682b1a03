package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/util"
)

func testTokenService() *TokenService {
	return NewTokenService("test-secret-test-secret-test-secret", time.Hour)
}

func phonePtr(s string) *string { return &s }

func TestScannerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates scanner with hashed pin", func(t *testing.T) {
		scannerRepo := new(mockScannerRepo)
		scannerRepo.On("FindByIdentifier", mock.Anything, "+15551234").Return(nil, nil)
		scannerRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateScannerParams) bool {
			return p.Name == "Gate A" && p.PinHash != "4821" && util.CheckPinHash("4821", p.PinHash)
		})).Return(&model.Scanner{ID: "scanner-1", Name: "Gate A"}, nil)

		svc := NewScannerService(scannerRepo, new(mockAssignmentRepo), new(mockEventRepo), new(mockInviteRepo), testTokenService())

		scanner, err := svc.Create(ctx, CreateScannerInput{
			Name:        "Gate A",
			PhoneNumber: phonePtr("+15551234"),
			Pin:         "4821",
		})
		require.NoError(t, err)
		assert.Equal(t, "scanner-1", scanner.ID)
		scannerRepo.AssertExpectations(t)
	})

	t.Run("requires phone or email", func(t *testing.T) {
		svc := NewScannerService(new(mockScannerRepo), new(mockAssignmentRepo), new(mockEventRepo), new(mockInviteRepo), testTokenService())

		_, err := svc.Create(ctx, CreateScannerInput{Name: "Gate A", Pin: "4821"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	})

	t.Run("rejects duplicate phone", func(t *testing.T) {
		scannerRepo := new(mockScannerRepo)
		scannerRepo.On("FindByIdentifier", mock.Anything, "+15551234").
			Return(&model.Scanner{ID: "scanner-9"}, nil)

		svc := NewScannerService(scannerRepo, new(mockAssignmentRepo), new(mockEventRepo), new(mockInviteRepo), testTokenService())

		_, err := svc.Create(ctx, CreateScannerInput{
			Name:        "Gate A",
			PhoneNumber: phonePtr("+15551234"),
			Pin:         "4821",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists))
	})
}

func TestScannerDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while scans reference the scanner", func(t *testing.T) {
		scannerRepo := new(mockScannerRepo)
		inviteRepo := new(mockInviteRepo)
		scannerRepo.On("FindByID", mock.Anything, "scanner-1").Return(&model.Scanner{ID: "scanner-1"}, nil)
		inviteRepo.On("CountByScanner", mock.Anything, "scanner-1").Return(3, nil)

		svc := NewScannerService(scannerRepo, new(mockAssignmentRepo), new(mockEventRepo), inviteRepo, testTokenService())

		err := svc.Delete(ctx, "scanner-1")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
		scannerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes scanner without scans", func(t *testing.T) {
		scannerRepo := new(mockScannerRepo)
		inviteRepo := new(mockInviteRepo)
		scannerRepo.On("FindByID", mock.Anything, "scanner-1").Return(&model.Scanner{ID: "scanner-1"}, nil)
		inviteRepo.On("CountByScanner", mock.Anything, "scanner-1").Return(0, nil)
		scannerRepo.On("Delete", mock.Anything, "scanner-1").Return(nil)

		svc := NewScannerService(scannerRepo, new(mockAssignmentRepo), new(mockEventRepo), inviteRepo, testTokenService())

		require.NoError(t, svc.Delete(ctx, "scanner-1"))
		scannerRepo.AssertExpectations(t)
	})
}

func TestScannerAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns to resolved events and skips unknown slugs", func(t *testing.T) {
		scannerRepo := new(mockScannerRepo)
		eventRepo := new(mockEventRepo)
		assignmentRepo := new(mockAssignmentRepo)
		scannerRepo.On("FindByID", mock.Anything, "scanner-1").Return(&model.Scanner{ID: "scanner-1"}, nil)
		eventRepo.On("FindBySlug", mock.Anything, "food-summit").Return(&model.Event{ID: "event-1", Slug: "food-summit"}, nil)
		eventRepo.On("FindBySlug", mock.Anything, "unknown").Return(nil, nil)
		assignmentRepo.On("Assign", mock.Anything, "scanner-1", "event-1").
			Return(&model.ScannerAssignment{ScannerID: "scanner-1", EventID: "event-1"}, nil)

		svc := NewScannerService(scannerRepo, assignmentRepo, eventRepo, new(mockInviteRepo), testTokenService())

		assignments, err := svc.Assign(ctx, "scanner-1", []string{"food-summit", "unknown"})
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})

	t.Run("fails when no slug resolves", func(t *testing.T) {
		scannerRepo := new(mockScannerRepo)
		eventRepo := new(mockEventRepo)
		scannerRepo.On("FindByID", mock.Anything, "scanner-1").Return(&model.Scanner{ID: "scanner-1"}, nil)
		eventRepo.On("FindBySlug", mock.Anything, "unknown").Return(nil, nil)

		svc := NewScannerService(scannerRepo, new(mockAssignmentRepo), eventRepo, new(mockInviteRepo), testTokenService())

		_, err := svc.Assign(ctx, "scanner-1", []string{"unknown"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	})
}

func TestScannerLogin(t *testing.T) {
	ctx := context.Background()

	pinHash, err := util.HashPin("4821")
	require.NoError(t, err)

	activeEvent := &model.Event{ID: "event-1", Slug: "food-summit", Name: "Food Summit", IsActive: true}
	scanner := &model.Scanner{ID: "scanner-1", Name: "Gate A", PinHash: pinHash, IsActive: true}

	newFixture := func() (*mockEventRepo, *mockScannerRepo, *mockAssignmentRepo, *ScannerService) {
		eventRepo := new(mockEventRepo)
		scannerRepo := new(mockScannerRepo)
		assignmentRepo := new(mockAssignmentRepo)
		svc := NewScannerService(scannerRepo, assignmentRepo, eventRepo, new(mockInviteRepo), testTokenService())
		return eventRepo, scannerRepo, assignmentRepo, svc
	}

	t.Run("issues parseable token on success", func(t *testing.T) {
		eventRepo, scannerRepo, assignmentRepo, svc := newFixture()
		eventRepo.On("FindBySlug", mock.Anything, "food-summit").Return(activeEvent, nil)
		scannerRepo.On("FindByIdentifier", mock.Anything, "+15551234").Return(scanner, nil)
		assignmentRepo.On("Exists", mock.Anything, "scanner-1", "event-1").Return(true, nil)

		result, err := svc.Login(ctx, LoginInput{PhoneOrEmail: "+15551234", Pin: "4821", EventSlug: "food-summit"})
		require.NoError(t, err)
		assert.Equal(t, "event-1", result.EventID)

		claims, err := testTokenService().Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "scanner-1", claims.Subject)
		assert.Equal(t, "Gate A", claims.Name)
	})

	t.Run("wrong pin", func(t *testing.T) {
		eventRepo, scannerRepo, assignmentRepo, svc := newFixture()
		eventRepo.On("FindBySlug", mock.Anything, "food-summit").Return(activeEvent, nil)
		scannerRepo.On("FindByIdentifier", mock.Anything, "+15551234").Return(scanner, nil)
		assignmentRepo.On("Exists", mock.Anything, "scanner-1", "event-1").Return(true, nil)

		_, err := svc.Login(ctx, LoginInput{PhoneOrEmail: "+15551234", Pin: "0000", EventSlug: "food-summit"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidCredentials))
	})

	t.Run("unknown scanner", func(t *testing.T) {
		eventRepo, scannerRepo, _, svc := newFixture()
		eventRepo.On("FindBySlug", mock.Anything, "food-summit").Return(activeEvent, nil)
		scannerRepo.On("FindByIdentifier", mock.Anything, "+15550000").Return(nil, nil)

		_, err := svc.Login(ctx, LoginInput{PhoneOrEmail: "+15550000", Pin: "4821", EventSlug: "food-summit"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidCredentials))
	})

	t.Run("unassigned scanner", func(t *testing.T) {
		eventRepo, scannerRepo, assignmentRepo, svc := newFixture()
		eventRepo.On("FindBySlug", mock.Anything, "food-summit").Return(activeEvent, nil)
		scannerRepo.On("FindByIdentifier", mock.Anything, "+15551234").Return(scanner, nil)
		assignmentRepo.On("Exists", mock.Anything, "scanner-1", "event-1").Return(false, nil)

		_, err := svc.Login(ctx, LoginInput{PhoneOrEmail: "+15551234", Pin: "4821", EventSlug: "food-summit"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotAuthorizedForEvent))
	})

	t.Run("inactive event", func(t *testing.T) {
		inactive := &model.Event{ID: "event-1", Slug: "food-summit", IsActive: false}
		eventRepo, _, _, svc := newFixture()
		eventRepo.On("FindBySlug", mock.Anything, "food-summit").Return(inactive, nil)

		_, err := svc.Login(ctx, LoginInput{PhoneOrEmail: "+15551234", Pin: "4821", EventSlug: "food-summit"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEventInactive))
	})
}

func TestTokenService(t *testing.T) {
	t.Run("round trips claims", func(t *testing.T) {
		svc := testTokenService()
		token, err := svc.Mint("scanner-1", "Gate A")
		require.NoError(t, err)

		claims, err := svc.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "scanner-1", claims.Subject)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		token, err := NewTokenService("other-secret-other-secret-other", time.Hour).Mint("scanner-1", "Gate A")
		require.NoError(t, err)

		_, err = testTokenService().Parse(token)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidToken))
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := NewTokenService("test-secret-test-secret-test-secret", -time.Minute)
		token, err := svc.Mint("scanner-1", "Gate A")
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidToken))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := testTokenService().Parse("not.a.token")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidToken))
	})
}

package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/eventgate/checkin-server-go/internal/model"
)

// Mock repositories shared by the service tests.

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepo) List(ctx context.Context, activeOnly bool) ([]model.EventWithCount, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventWithCount), args.Error(1)
}

func (m *mockEventRepo) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepo) Update(ctx context.Context, slug string, params model.UpdateEventParams) (*model.Event, error) {
	args := m.Called(ctx, slug, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepo) SetActive(ctx context.Context, slug string, active bool) (*model.Event, error) {
	args := m.Called(ctx, slug, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepo) HardDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEventRepo) DeactivateEnded(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockScannerRepo struct {
	mock.Mock
}

func (m *mockScannerRepo) FindByID(ctx context.Context, id string) (*model.Scanner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scanner), args.Error(1)
}

func (m *mockScannerRepo) FindByIdentifier(ctx context.Context, phoneOrEmail string) (*model.Scanner, error) {
	args := m.Called(ctx, phoneOrEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scanner), args.Error(1)
}

func (m *mockScannerRepo) List(ctx context.Context) ([]model.ScannerWithCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScannerWithCounts), args.Error(1)
}

func (m *mockScannerRepo) ListByEvent(ctx context.Context, eventID string) ([]model.ScannerWithCounts, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScannerWithCounts), args.Error(1)
}

func (m *mockScannerRepo) Create(ctx context.Context, params model.CreateScannerParams) (*model.Scanner, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scanner), args.Error(1)
}

func (m *mockScannerRepo) Update(ctx context.Context, id string, params model.UpdateScannerParams) (*model.Scanner, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scanner), args.Error(1)
}

func (m *mockScannerRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAssignmentRepo struct {
	mock.Mock
}

func (m *mockAssignmentRepo) Exists(ctx context.Context, scannerID, eventID string) (bool, error) {
	args := m.Called(ctx, scannerID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssignmentRepo) Assign(ctx context.Context, scannerID, eventID string) (*model.ScannerAssignment, error) {
	args := m.Called(ctx, scannerID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScannerAssignment), args.Error(1)
}

func (m *mockAssignmentRepo) Unassign(ctx context.Context, scannerID string, eventIDs []string) (int64, error) {
	args := m.Called(ctx, scannerID, eventIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssignmentRepo) ListByScanner(ctx context.Context, scannerID string) ([]model.ScannerAssignment, error) {
	args := m.Called(ctx, scannerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScannerAssignment), args.Error(1)
}

type mockInviteRepo struct {
	mock.Mock
}

func (m *mockInviteRepo) Redeem(ctx context.Context, params model.CreateInviteParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *mockInviteRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockInviteRepo) CountByScanner(ctx context.Context, scannerID string) (int, error) {
	args := m.Called(ctx, scannerID)
	return args.Int(0), args.Error(1)
}

func (m *mockInviteRepo) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockInviteRepo) FindRecentByEvent(ctx context.Context, eventID string, limit int) ([]model.RecentScan, error) {
	args := m.Called(ctx, eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecentScan), args.Error(1)
}

func (m *mockInviteRepo) ScansByHour(ctx context.Context, eventID string, hours int) ([]model.HourlyScanCount, error) {
	args := m.Called(ctx, eventID, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HourlyScanCount), args.Error(1)
}

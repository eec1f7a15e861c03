package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountLedger(ctx context.Context, accountID string) (*domain.Account, []domain.LedgerLine, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	lines, _ := args.Get(1).([]domain.LedgerLine)
	return args.Get(0).(*domain.Account), lines, args.Error(2)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock EntryService ---
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) CreateEntry(ctx context.Context, kind domain.EntryKind, req dto.CreateEntryRequest, creatorID string) (*domain.EntryOutcome, error) {
	args := m.Called(ctx, kind, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryOutcome), args.Error(1)
}
func (m *MockEntryService) UpdateEntryStatus(ctx context.Context, kind domain.EntryKind, entryID string, req dto.UpdateEntryStatusRequest, actorID string) (*domain.EntryOutcome, error) {
	args := m.Called(ctx, kind, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryOutcome), args.Error(1)
}
func (m *MockEntryService) GetEntryByID(ctx context.Context, kind domain.EntryKind, entryID string, userID string) (*domain.Entry, error) {
	args := m.Called(ctx, kind, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockEntryService) ListEntries(ctx context.Context, kind domain.EntryKind, params dto.ListEntriesParams, userID string) ([]domain.Entry, *string, error) {
	args := m.Called(ctx, kind, params, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Entry), next, args.Error(2)
}

var _ portssvc.EntrySvcFacade = (*MockEntryService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GenerateReport(ctx context.Context, reportType domain.ReportType, asOf, from, to *time.Time) (*domain.Report, error) {
	args := m.Called(ctx, reportType, asOf, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportingService) CheckBalanceDrift(ctx context.Context) ([]domain.BalanceDrift, int, error) {
	args := m.Called(ctx)
	drifts, _ := args.Get(0).([]domain.BalanceDrift)
	return drifts, args.Int(1), args.Error(2)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

// --- Mock EventLogService ---
type MockEventLogService struct {
	mock.Mock
}

func (m *MockEventLogService) Record(ctx context.Context, tableName, recordID, userID string, action domain.ActionType, before, after any) {
	m.Called(ctx, tableName, recordID, userID, action, before, after)
}
func (m *MockEventLogService) ListEvents(ctx context.Context, filter domain.EventLogFilter, userID string) ([]domain.EventLogRecord, error) {
	args := m.Called(ctx, filter, userID)
	events, _ := args.Get(0).([]domain.EventLogRecord)
	return events, args.Error(1)
}

var _ portssvc.EventLogSvc = (*MockEventLogService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserRole(ctx context.Context, userID string) (domain.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Role), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) EnsureAdministrator(ctx context.Context, username, email, password string) error {
	return m.Called(ctx, username, email, password).Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/SscSPs/ledgerify/internal/handlers"
	"github.com/SscSPs/ledgerify/internal/platform/config"
	"github.com/SscSPs/ledgerify/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string

	accounts  *MockAccountService
	entries   *MockEntryService
	reporting *MockReportingService
	eventLog  *MockEventLogService
	users     *MockUserService
	auth      *MockAuthService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.accounts = new(MockAccountService)
	suite.entries = new(MockEntryService)
	suite.reporting = new(MockReportingService)
	suite.eventLog = new(MockEventLogService)
	suite.users = new(MockUserService)
	suite.auth = new(MockAuthService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{
		Account:   suite.accounts,
		Entry:     suite.entries,
		Reporting: suite.reporting,
		EventLog:  suite.eventLog,
		User:      suite.users,
		Auth:      suite.auth,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.accounts.AssertExpectations(suite.T())
	suite.entries.AssertExpectations(suite.T())
	suite.reporting.AssertExpectations(suite.T())
	suite.eventLog.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.auth.AssertExpectations(suite.T())
}

// generateTestToken creates a signed JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	token, _, err := utils.GenerateJWT(userID, suite.jwtSecret, time.Hour, "ledgerify-test", time.Now())
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *HandlerTestSuite) do(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestLogin() {
	expiresAt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.auth.On("Login", mock.Anything, "maria", "correct-horse").Return("signed-token", expiresAt, nil).Once()
	suite.auth.On("Login", mock.Anything, "maria", "wrong").
		Return("", time.Time{}, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)).Once()

	w := suite.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "maria", Password: "correct-horse"})
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("signed-token", resp.Token)
	suite.True(resp.ExpiresAt.Equal(expiresAt))

	w = suite.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "maria", Password: "wrong"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "maria"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAPIRequiresToken() {
	w := suite.do(http.MethodGet, "/api/v1/accounts", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.accounts.AssertNumberOfCalls(suite.T(), "ListAccounts", 0)
}

func (suite *HandlerTestSuite) TestCreateAccount() {
	created := &domain.Account{
		AccountID:      "a1",
		AccountNumber:  1010,
		Name:           "Cash",
		NormalSide:     domain.NormalSideDebit,
		Category:       domain.CategoryAssets,
		InitialBalance: decimal.NewFromInt(100),
		Balance:        decimal.NewFromInt(100),
		IsActive:       true,
	}
	suite.accounts.On("CreateAccount", mock.Anything,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.AccountNumber == 1010 && req.InitialBalance.Equal(decimal.NewFromInt(100))
		}),
		"u1",
	).Return(created, nil).Once()

	body := map[string]any{
		"accountNumber":  1010,
		"name":           "Cash",
		"normalSide":     "DEBIT",
		"category":       "Assets",
		"initialBalance": "100",
	}
	w := suite.do(http.MethodPost, "/api/v1/accounts", "u1", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal("a1", resp.AccountID)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(100)))
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingRejectsUnknownEnums() {
	testCases := []struct {
		name string
		body map[string]any
	}{
		{"unknown normal side", map[string]any{"accountNumber": 1010, "name": "Cash", "normalSide": "LEFT", "category": "Assets"}},
		{"unknown category", map[string]any{"accountNumber": 1010, "name": "Cash", "normalSide": "DEBIT", "category": "Stuff"}},
		{"missing name", map[string]any{"accountNumber": 1010, "normalSide": "DEBIT", "category": "Assets"}},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts", "u1", tc.body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.accounts.AssertNumberOfCalls(suite.T(), "CreateAccount", 0)
}

func (suite *HandlerTestSuite) TestAccountErrorMapping() {
	suite.accounts.On("CreateAccount", mock.Anything, mock.Anything, "u1").
		Return(nil, fmt.Errorf("%w: account 1010", apperrors.ErrDuplicate)).Once()
	suite.accounts.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: account missing", apperrors.ErrNotFound)).Once()
	suite.accounts.On("DeleteAccount", mock.Anything, "busy", "u1").
		Return(fmt.Errorf("%w: account has lines", apperrors.ErrConflict)).Once()
	suite.accounts.On("DeleteAccount", mock.Anything, "idle", "u1").Return(nil).Once()
	suite.accounts.On("ListAccounts", mock.Anything, 100, 0).Return(nil, fmt.Errorf("connection reset")).Once()

	body := map[string]any{"accountNumber": 1010, "name": "Cash", "normalSide": "DEBIT", "category": "Assets"}
	suite.Equal(http.StatusConflict, suite.do(http.MethodPost, "/api/v1/accounts", "u1", body).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/accounts/missing", "u1", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodDelete, "/api/v1/accounts/busy", "u1", nil).Code)
	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/accounts/idle", "u1", nil).Code)

	w := suite.do(http.MethodGet, "/api/v1/accounts", "u1", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	var resp handlers.ErrorResponse
	suite.decode(w, &resp)
	suite.Equal("Failed to list accounts", resp.Error)
}

func (suite *HandlerTestSuite) TestAccountLedger() {
	account := &domain.Account{AccountID: "a1", Name: "Cash", InitialBalance: decimal.NewFromInt(50)}
	lines := []domain.LedgerLine{
		{EntryID: "e1", EntryDate: "2024-01-05", Debit: decimal.NewFromInt(100), Credit: decimal.Zero, RunningBalance: decimal.NewFromInt(150)},
		{EntryID: "e2", EntryDate: "2024-01-09", Debit: decimal.Zero, Credit: decimal.NewFromInt(30), RunningBalance: decimal.NewFromInt(120)},
	}
	suite.accounts.On("GetAccountLedger", mock.Anything, "a1").Return(account, lines, nil).Once()
	suite.accounts.On("GetAccountLedger", mock.Anything, "a2").
		Return(&domain.Account{AccountID: "a2", InitialBalance: decimal.NewFromInt(7)}, nil, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a1/ledger", "u1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountLedgerResponse
	suite.decode(w, &resp)
	suite.Len(resp.Lines, 2)
	suite.True(resp.ClosingBalance.Equal(decimal.NewFromInt(120)))

	w = suite.do(http.MethodGet, "/api/v1/accounts/a2/ledger", "u1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.NotNil(resp.Lines)
	suite.Empty(resp.Lines)
	suite.True(resp.ClosingBalance.Equal(decimal.NewFromInt(7)))
}

func entryRequestBody() map[string]any {
	return map[string]any{
		"description": "cash sale",
		"debitLines":  []map[string]any{{"accountID": "cash", "amount": "500"}},
		"creditLines": []map[string]any{{"accountID": "revenue", "amount": "500"}},
	}
}

func (suite *HandlerTestSuite) TestCreateEntry_RoutesByKindAndSurfacesWarnings() {
	entry := &domain.Entry{
		EntryID: "e1",
		Kind:    domain.KindOrdinary,
		Status:  domain.StatusApproved,
		Lines: []domain.Line{
			{LineID: "l1", AccountID: "cash", Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
			{LineID: "l2", AccountID: "revenue", Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		},
	}
	outcome := &domain.EntryOutcome{
		Entry: entry,
		Balance: &domain.BatchResult{
			EntryID:   "e1",
			Direction: domain.DirectionApply,
			Succeeded: []string{"cash"},
			Failed:    []domain.AccountFailure{{AccountID: "revenue", Reason: "lock timeout"}},
		},
	}
	suite.entries.On("CreateEntry", mock.Anything, domain.KindOrdinary,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			return len(req.DebitLines) == 1 && req.DebitLines[0].Amount.Equal(decimal.NewFromInt(500))
		}),
		"mgr",
	).Return(outcome, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", "mgr", entryRequestBody())
	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryOutcomeResponse
	suite.decode(w, &resp)
	suite.Equal("e1", resp.Entry.EntryID)
	suite.True(resp.Entry.TotalDebit.Equal(resp.Entry.TotalCredit))
	suite.Require().Len(resp.Warnings, 1)
	suite.Equal("revenue", resp.Warnings[0].AccountID)

	adjusting := &domain.EntryOutcome{Entry: &domain.Entry{EntryID: "e2", Kind: domain.KindAdjusting, Status: domain.StatusPendingReview}}
	suite.entries.On("CreateEntry", mock.Anything, domain.KindAdjusting, mock.Anything, "acct").Return(adjusting, nil).Once()

	body := entryRequestBody()
	body["adjustmentType"] = "Accrual"
	w = suite.do(http.MethodPost, "/api/v1/adjusting-entries", "acct", body)
	suite.Equal(http.StatusCreated, w.Code)
	suite.decode(w, &resp)
	suite.Empty(resp.Warnings)
}

func (suite *HandlerTestSuite) TestCreateEntry_ValidationErrors() {
	suite.entries.On("CreateEntry", mock.Anything, domain.KindOrdinary, mock.Anything, "acct").
		Return(nil, fmt.Errorf("%w: debits 500 do not equal credits 400", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", "acct", entryRequestBody())
	suite.Equal(http.StatusBadRequest, w.Code)
	var resp handlers.ErrorResponse
	suite.decode(w, &resp)
	suite.Contains(resp.Error, "do not equal")

	noCredits := map[string]any{"debitLines": []map[string]any{{"accountID": "cash", "amount": "1"}}}
	w = suite.do(http.MethodPost, "/api/v1/journal-entries", "acct", noCredits)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEntryStatus() {
	suite.entries.On("UpdateEntryStatus", mock.Anything, domain.KindOrdinary, "e1",
		dto.UpdateEntryStatusRequest{Status: domain.StatusApproved}, "acct",
	).Return(nil, fmt.Errorf("%w: only managers may approve or reject entries", apperrors.ErrForbidden)).Once()

	approved := &domain.EntryOutcome{Entry: &domain.Entry{EntryID: "e1", Kind: domain.KindOrdinary, Status: domain.StatusApproved}}
	suite.entries.On("UpdateEntryStatus", mock.Anything, domain.KindOrdinary, "e1",
		dto.UpdateEntryStatusRequest{Status: domain.StatusApproved}, "mgr",
	).Return(approved, nil).Once()
	suite.entries.On("UpdateEntryStatus", mock.Anything, domain.KindOrdinary, "e1",
		dto.UpdateEntryStatusRequest{Status: domain.StatusApproved}, "mgr",
	).Return(nil, fmt.Errorf("%w: entry e1 is no longer Pending Review", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPatch, "/api/v1/journal-entries/e1/status", "acct", map[string]string{"status": "Approved"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/journal-entries/e1/status", "mgr", map[string]string{"status": "Approved"})
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EntryOutcomeResponse
	suite.decode(w, &resp)
	suite.Equal(domain.StatusApproved, resp.Entry.Status)

	w = suite.do(http.MethodPatch, "/api/v1/journal-entries/e1/status", "mgr", map[string]string{"status": "Approved"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/journal-entries/e1/status", "mgr", map[string]string{"status": "Done"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListAndGetEntries() {
	next := "token-2"
	suite.entries.On("ListEntries", mock.Anything, domain.KindAdjusting,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.Status == domain.StatusPendingReview && p.Limit == 5 && p.NextToken != nil && *p.NextToken == "token-1"
		}),
		"mgr",
	).Return([]domain.Entry{{EntryID: "e3", Kind: domain.KindAdjusting}}, &next, nil).Once()
	suite.entries.On("GetEntryByID", mock.Anything, domain.KindOrdinary, "e9", "acct").
		Return(nil, fmt.Errorf("%w: entry e9 belongs to another user", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodGet, "/api/v1/adjusting-entries?status=Pending%20Review&limit=5&nextToken=token-1", "mgr", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.decode(w, &resp)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries/e9", "acct", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries?limit=1000", "acct", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestReports() {
	report := &domain.Report{Type: domain.ReportTrialBalance, Title: "Trial Balance", Date: "2024-01-31"}
	suite.reporting.On("GenerateReport", mock.Anything, domain.ReportTrialBalance,
		mock.MatchedBy(func(asOf *time.Time) bool {
			return asOf != nil && asOf.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
		}),
		(*time.Time)(nil), (*time.Time)(nil),
	).Return(report, nil).Once()
	suite.reporting.On("GenerateReport", mock.Anything, domain.ReportType("cash-flow"), mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: unsupported report type 'cash-flow'", apperrors.ErrReportInput)).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-01-31", "u1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp domain.Report
	suite.decode(w, &resp)
	suite.Equal("Trial Balance", resp.Title)

	w = suite.do(http.MethodGet, "/api/v1/reports/cash-flow?asOf=2024-01-31", "u1", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=31-01-2024", "u1", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestBalanceDrift() {
	drift := domain.BalanceDrift{AccountID: "revenue", CachedBalance: decimal.NewFromInt(100), ReplayedBalance: decimal.NewFromInt(140)}
	suite.reporting.On("CheckBalanceDrift", mock.Anything).Return(nil, 4, nil).Once()
	suite.reporting.On("CheckBalanceDrift", mock.Anything).Return([]domain.BalanceDrift{drift}, 4, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/drift", "u1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DriftResponse
	suite.decode(w, &resp)
	suite.Equal(4, resp.Accounts)
	suite.NotNil(resp.Drifted)
	suite.Empty(resp.Drifted)
	suite.False(resp.CheckedAt.IsZero())

	w = suite.do(http.MethodGet, "/api/v1/reports/drift", "u1", nil)
	suite.Equal(http.StatusOK, w.Code)
	resp = dto.DriftResponse{}
	suite.decode(w, &resp)
	suite.Require().Len(resp.Drifted, 1)
	suite.Equal("revenue", resp.Drifted[0].AccountID)
}

func (suite *HandlerTestSuite) TestEventLogs() {
	suite.eventLog.On("ListEvents", mock.Anything,
		domain.EventLogFilter{TableName: "entries", RecordID: "e1", Limit: 50}, "acct",
	).Return(nil, fmt.Errorf("%w: event log requires a manager or administrator", apperrors.ErrForbidden)).Once()
	suite.eventLog.On("ListEvents", mock.Anything, domain.EventLogFilter{Limit: 10}, "admin").
		Return([]domain.EventLogRecord{{EventID: "ev1", ActionType: domain.ActionInsert}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/event-logs?table=entries&recordID=e1", "acct", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/event-logs?limit=10", "admin", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEventLogsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Events, 1)
}

func (suite *HandlerTestSuite) TestUsers() {
	suite.users.On("GetUserByID", mock.Anything, "u1").
		Return(&domain.User{UserID: "u1", Username: "maria", Role: domain.RoleManager, IsActive: true}, nil).Once()
	suite.users.On("CreateUser", mock.Anything,
		dto.CreateUserRequest{Username: "newbie", Email: "newbie@example.com", Password: "longenough", Role: domain.RoleAccountant},
		"u1",
	).Return(nil, fmt.Errorf("%w: only administrators may create users", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/me", "u1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var user dto.UserResponse
	suite.decode(w, &user)
	suite.Equal(domain.RoleManager, user.Role)

	body := dto.CreateUserRequest{Username: "newbie", Email: "newbie@example.com", Password: "longenough", Role: domain.RoleAccountant}
	w = suite.do(http.MethodPost, "/api/v1/users", "u1", body)
	suite.Equal(http.StatusForbidden, w.Code)

	body.Role = "Owner"
	w = suite.do(http.MethodPost, "/api/v1/users", "u1", body)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
)

// memStore is an in-memory implementation of every repository port. Error
// hooks let tests inject storage failures.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	headers  map[string]domain.Entry
	lines    map[string][]domain.Line
	users    map[string]domain.User
	events   []domain.EventLogRecord

	txCount int

	errInsertLines  error
	errDeleteHeader error
	errFindLines    error
	errListAccounts error
	errAppendEvent  error
	errUpdateTotals map[string]error
}

var (
	_ portsrepo.AccountRepositoryFacade = (*memStore)(nil)
	_ portsrepo.EntryRepositoryFacade   = (*memStore)(nil)
	_ portsrepo.EventLogRepository      = (*memStore)(nil)
	_ portsrepo.UserRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.TransactionManager      = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		accounts:        map[string]domain.Account{},
		headers:         map[string]domain.Entry{},
		lines:           map[string][]domain.Line{},
		users:           map[string]domain.User{},
		errUpdateTotals: map[string]error{},
	}
}

func (m *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  m,
		EntryRepo:    m,
		EventLogRepo: m,
		UserRepo:     m,
		TxManager:    m,
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}

// --- TransactionManager ---

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()
	return fn(ctx)
}

// --- Accounts ---

func (m *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, notFound("account", accountID)
	}
	return &acc, nil
}

func (m *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := m.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (m *memStore) ListAccounts(_ context.Context, userID string, limit int, offset int) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errListAccounts != nil {
		return nil, m.errListAccounts
	}
	out := make([]domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		if userID == "" || acc.UserID == userID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	if offset > len(out) {
		return []domain.Account{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.AccountNumber == account.AccountNumber {
			return fmt.Errorf("%w: account number %d", apperrors.ErrDuplicate, account.AccountNumber)
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.AccountID]; !ok {
		return notFound("account", account.AccountID)
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) UpdateAccountTotals(_ context.Context, accountID string, totals domain.AccountTotals, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errUpdateTotals[accountID]; err != nil {
		return err
	}
	acc, ok := m.accounts[accountID]
	if !ok {
		return notFound("account", accountID)
	}
	acc.Debit, acc.Credit, acc.Balance = totals.Debit, totals.Credit, totals.Balance
	acc.LastUpdatedBy, acc.LastUpdatedAt = userID, now
	m.accounts[accountID] = acc
	return nil
}

func (m *memStore) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, accountID)
	return nil
}

// --- Entries ---

func (m *memStore) withLines(e domain.Entry) domain.Entry {
	e.Lines = append([]domain.Line(nil), m.lines[e.EntryID]...)
	return e
}

func (m *memStore) FindEntryByID(_ context.Context, entryID string) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.headers[entryID]
	if !ok {
		return nil, notFound("entry", entryID)
	}
	e = m.withLines(e)
	return &e, nil
}

func (m *memStore) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errFindLines != nil {
		return nil, m.errFindLines
	}
	return append([]domain.Line(nil), m.lines[entryID]...), nil
}

func (m *memStore) ListEntries(_ context.Context, filter domain.EntryFilter, limit int, _ *string) ([]domain.Entry, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, 0)
	for _, e := range m.headers {
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		out = append(out, m.withLines(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryID < out[j].EntryID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil, nil
}

func (m *memStore) ListApprovedEntries(_ context.Context, through *time.Time) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, 0)
	for _, e := range m.headers {
		if e.Status != domain.StatusApproved || (through != nil && e.EntryDate.After(*through)) {
			continue
		}
		out = append(out, m.withLines(e))
	}
	return out, nil
}

func (m *memStore) CountLinesByAccount(_ context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ls := range m.lines {
		for _, l := range ls {
			if l.AccountID == accountID {
				n++
			}
		}
	}
	return n, nil
}

func (m *memStore) InsertHeader(_ context.Context, entry domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.Lines = nil
	m.headers[entry.EntryID] = entry
	return nil
}

func (m *memStore) InsertLines(_ context.Context, lines []domain.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errInsertLines != nil {
		return m.errInsertLines
	}
	for _, l := range lines {
		m.lines[l.EntryID] = append(m.lines[l.EntryID], l)
	}
	return nil
}

func (m *memStore) DeleteHeader(_ context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errDeleteHeader != nil {
		return m.errDeleteHeader
	}
	delete(m.headers, entryID)
	delete(m.lines, entryID)
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, entryID string, from, to domain.EntryStatus, reason string, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.headers[entryID]
	if !ok || e.Status != from {
		return fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrConflict, entryID, from)
	}
	e.Status, e.RejectionReason = to, reason
	e.LastUpdatedBy, e.LastUpdatedAt = userID, now
	m.headers[entryID] = e
	return nil
}

// gatedEntries holds every FindEntryByID caller until n of them have read the
// entry, so their status changes race.
type gatedEntries struct {
	*memStore
	gate sync.WaitGroup
}

func newGatedEntries(store *memStore, n int) *gatedEntries {
	g := &gatedEntries{memStore: store}
	g.gate.Add(n)
	return g
}

func (g *gatedEntries) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	e, err := g.memStore.FindEntryByID(ctx, entryID)
	g.gate.Done()
	g.gate.Wait()
	return e, err
}

// --- Event log ---

func (m *memStore) AppendEvent(_ context.Context, record domain.EventLogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errAppendEvent != nil {
		return m.errAppendEvent
	}
	m.events = append(m.events, record)
	return nil
}

func (m *memStore) ListEvents(_ context.Context, filter domain.EventLogFilter) ([]domain.EventLogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventLogRecord, 0)
	for i := len(m.events) - 1; i >= 0; i-- {
		ev := m.events[i]
		if filter.TableName != "" && ev.TableName != filter.TableName {
			continue
		}
		if filter.RecordID != "" && ev.RecordID != filter.RecordID {
			continue
		}
		out = append(out, ev)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// --- Users ---

func (m *memStore) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &u, nil
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

func (m *memStore) SaveUser(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, user.Username)
		}
	}
	m.users[user.UserID] = user
	return nil
}

// eventsFor returns the recorded events of one record, oldest first.
func (m *memStore) eventsFor(recordID string) []domain.EventLogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventLogRecord, 0)
	for _, ev := range m.events {
		if ev.RecordID == recordID {
			out = append(out, ev)
		}
	}
	return out
}

var errStorage = errors.New("storage unavailable")

// --- Mock BalanceSvc ---
type MockBalanceSvc struct {
	mock.Mock
}

var _ portssvc.BalanceSvc = (*MockBalanceSvc)(nil)

func (m *MockBalanceSvc) ApplyOrReverseEntryEffect(ctx context.Context, entryID string, direction domain.BalanceDirection, actorID string) (domain.BatchResult, error) {
	args := m.Called(ctx, entryID, direction, actorID)
	return args.Get(0).(domain.BatchResult), args.Error(1)
}

// --- Mock EventLogSvc ---
type MockEventLogSvc struct {
	mock.Mock
}

var _ portssvc.EventLogSvc = (*MockEventLogSvc)(nil)

func (m *MockEventLogSvc) Record(ctx context.Context, tableName, recordID, userID string, action domain.ActionType, before, after any) {
	m.Called(ctx, tableName, recordID, userID, action, before, after)
}

func (m *MockEventLogSvc) ListEvents(ctx context.Context, filter domain.EventLogFilter, userID string) ([]domain.EventLogRecord, error) {
	args := m.Called(ctx, filter, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventLogRecord), args.Error(1)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/core/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/SscSPs/ledgerify/internal/platform/config"
	"github.com/SscSPs/ledgerify/internal/utils"
)

func newUserFixture(t *testing.T) (*memStore, *config.Config) {
	t.Helper()
	store := newMemStore()
	seedUsers(store)
	cfg := &config.Config{JWTSecret: "unit-test-secret", JWTExpiryDuration: 30 * time.Minute, JWTIssuer: "ledgerify-test"}
	return store, cfg
}

func TestGetUserRole(t *testing.T) {
	ctx := context.Background()
	store, _ := newUserFixture(t)
	svc := services.NewUserService(store, services.NewEventLogService(store, store))

	role, err := svc.GetUserRole(ctx, managerID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, role)

	_, err = svc.GetUserRole(ctx, "gone")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetUserRole(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateUser_AdministratorOnly(t *testing.T) {
	ctx := context.Background()
	store, _ := newUserFixture(t)
	svc := services.NewUserService(store, services.NewEventLogService(store, store))

	req := dto.CreateUserRequest{Username: "newbie", Email: "newbie@example.com", Password: "correct-horse", Role: domain.RoleAccountant}

	_, err := svc.CreateUser(ctx, req, managerID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	user, err := svc.CreateUser(ctx, req, adminID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAccountant, user.Role)
	assert.NotEqual(t, req.Password, user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash(req.Password, user.PasswordHash))

	events := store.eventsFor(user.UserID)
	require.Len(t, events, 1)
	assert.NotContains(t, string(events[0].AfterImage), user.PasswordHash)

	_, err = svc.CreateUser(ctx, req, adminID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestEnsureAdministrator_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewUserService(store, services.NewEventLogService(store, store))

	require.NoError(t, svc.EnsureAdministrator(ctx, "root", "root@example.com", "bootstrap-pass"))
	require.NoError(t, svc.EnsureAdministrator(ctx, "root", "root@example.com", "bootstrap-pass"))

	assert.Len(t, store.users, 1)
	admin, err := store.FindUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, admin.Role)
	assert.True(t, admin.IsActive)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store, cfg := newUserFixture(t)
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	u := store.users[managerID]
	u.PasswordHash = hash
	store.users[managerID] = u

	now := time.Now().UTC()
	svc := services.NewAuthService(cfg, store, services.WithClock(func() time.Time { return now }))

	token, expiresAt, err := svc.Login(ctx, "maria", "s3cret-pass")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(30*time.Minute), expiresAt, time.Second)

	claims, err := utils.ParseAndValidateJWT(token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, managerID, claims.Subject)

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "maria", "nope"},
		{"unknown user", "nobody", "s3cret-pass"},
		{"inactive user", "gone", "s3cret-pass"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tc.username, tc.password)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		})
	}
}

func TestListEvents_RestrictedAndLimited(t *testing.T) {
	ctx := context.Background()
	store, _ := newUserFixture(t)
	svc := services.NewEventLogService(store, store)

	for i := 0; i < 3; i++ {
		svc.Record(ctx, domain.TableAccounts, "acc-1", managerID, domain.ActionUpdate, map[string]int{"v": i}, map[string]int{"v": i + 1})
	}
	svc.Record(ctx, domain.TableEntries, "e-1", managerID, domain.ActionInsert, nil, map[string]string{"status": "Approved"})

	_, err := svc.ListEvents(ctx, domain.EventLogFilter{}, accountantID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	events, err := svc.ListEvents(ctx, domain.EventLogFilter{TableName: domain.TableAccounts, Limit: 2}, adminID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.JSONEq(t, `{"v":3}`, string(events[0].AfterImage), "newest first")

	all, err := svc.ListEvents(ctx, domain.EventLogFilter{}, managerID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Nil(t, all[0].BeforeImage)
}

func TestRecord_UnencodableSnapshotIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewEventLogService(store, store)

	svc.Record(ctx, domain.TableAccounts, "acc-1", managerID, domain.ActionUpdate, nil, map[string]any{"bad": make(chan int)})
	assert.Empty(t, store.events)
}

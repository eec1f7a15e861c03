package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerify/internal/models"
	"github.com/SscSPs/ledgerify/internal/utils/mapping"
)

var accountColumns = []string{
	"account_id", "account_number", "name", "description", "normal_side", "category", "subcategory",
	"initial_balance", "debit", "credit", "balance", "is_active", "user_id",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DB) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query, args, err := psql.Insert("accounts").
		Columns(accountColumns...).
		Values(
			m.AccountID, m.AccountNumber, m.Name, m.Description, m.NormalSide, m.Category, m.Subcategory,
			m.InitialBalance, m.Debit, m.Credit, m.Balance, m.IsActive, m.UserID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		).ToSql()
	if err != nil {
		return buildError(err, "account")
	}

	if _, err := r.Q(ctx).Exec(ctx, query, args...); err != nil {
		return mapError(err, "account", strconv.Itoa(m.AccountNumber))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID. Inside a transaction the row
// is locked so concurrent balance updates serialize per account.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	builder := psql.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"account_id": accountID})
	if inTx(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, buildError(err, "account")
	}

	var m models.Account
	if err := pgxscan.Get(ctx, r.Q(ctx), &m, query, args...); err != nil {
		return nil, mapError(err, "account", accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"account_id": accountIDs}).
		ToSql()
	if err != nil {
		return nil, buildError(err, "account")
	}

	var ms []models.Account
	if err := pgxscan.Select(ctx, r.Q(ctx), &ms, query, args...); err != nil {
		return nil, mapError(err, "accounts", "batch")
	}
	for _, m := range ms {
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

// ListAccounts retrieves accounts ordered by account number. A limit of zero
// or less returns every account.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error) {
	builder := psql.Select(accountColumns...).
		From("accounts").
		OrderBy("account_number ASC")
	if userID != "" {
		builder = builder.Where(squirrel.Eq{"user_id": userID})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, buildError(err, "account")
	}

	var ms []models.Account
	if err := pgxscan.Select(ctx, r.Q(ctx), &ms, query, args...); err != nil {
		return nil, mapError(err, "accounts", "list")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount updates descriptive fields, the initial balance and the cached totals.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query, args, err := psql.Update("accounts").
		Set("account_number", m.AccountNumber).
		Set("name", m.Name).
		Set("description", m.Description).
		Set("category", m.Category).
		Set("subcategory", m.Subcategory).
		Set("initial_balance", m.InitialBalance).
		Set("debit", m.Debit).
		Set("credit", m.Credit).
		Set("balance", m.Balance).
		Set("is_active", m.IsActive).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Where(squirrel.Eq{"account_id": m.AccountID}).
		ToSql()
	if err != nil {
		return buildError(err, "account")
	}
	return r.execOne(ctx, query, args, m.AccountID)
}

// UpdateAccountTotals writes the cached totals of one account.
func (r *PgxAccountRepository) UpdateAccountTotals(ctx context.Context, accountID string, totals domain.AccountTotals, userID string, now time.Time) error {
	query, args, err := psql.Update("accounts").
		Set("debit", totals.Debit).
		Set("credit", totals.Credit).
		Set("balance", totals.Balance).
		Set("last_updated_at", now).
		Set("last_updated_by", userID).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return buildError(err, "account")
	}
	return r.execOne(ctx, query, args, accountID)
}

// DeleteAccount removes an account. Lines referencing it block the delete.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	query, args, err := psql.Delete("accounts").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return buildError(err, "account")
	}

	tag, err := r.Q(ctx).Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: account %s is referenced by entry lines", apperrors.ErrConflict, accountID)
		}
		return mapError(err, "account", accountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

func (r *PgxAccountRepository) execOne(ctx context.Context, query string, args []any, accountID string) error {
	tag, err := r.Q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "account", accountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

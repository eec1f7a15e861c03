package pgsql

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerify/internal/models"
	"github.com/SscSPs/ledgerify/internal/utils/mapping"
)

var userColumns = []string{
	"user_id", "username", "email", "role", "password_hash", "is_active", "deleted_at",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(db DB) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(
			m.UserID, m.Username, m.Email, m.Role, m.PasswordHash, m.IsActive, m.DeletedAt,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		).ToSql()
	if err != nil {
		return buildError(err, "user")
	}

	if _, err := r.Q(ctx).Exec(ctx, query, args...); err != nil {
		return mapError(err, "user", m.Username)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, squirrel.Eq{"user_id": userID}, userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, squirrel.Eq{"username": username}, username)
}

func (r *PgxUserRepository) findOne(ctx context.Context, where squirrel.Eq, key string) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, buildError(err, "user")
	}

	var m models.User
	if err := pgxscan.Get(ctx, r.Q(ctx), &m, query, args...); err != nil {
		return nil, mapError(err, "user", key)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

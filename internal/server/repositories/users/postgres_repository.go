package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/dbx"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, hashed_password, categories, points)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.PasswordHash, models.JoinCategories(user.Categories), user.Points).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `SELECT id, name, hashed_password, categories, points, last_login_at, created_at, updated_at FROM users`

func (r *PostgresRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return r.getOne(ctx, selectUser+`
		 WHERE name = $1
		 `, name)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+`
		 WHERE id = $1
		 `, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user       models.User
		categories sql.NullString
		lastLogin  sql.NullTime
		updated    sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.PasswordHash, &categories, &user.Points,
		&lastLogin, &user.CreatedAt, &updated)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Categories = models.SplitCategories(categories.String)
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	if updated.Valid {
		user.UpdatedAt = &updated.Time
	}
	return &user, nil
}

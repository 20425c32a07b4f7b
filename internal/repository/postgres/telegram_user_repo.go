package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const telegramUserColumns = `telegram_id, username, full_name, balance, is_manager, is_admin, created, updated`

type TelegramUserRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewTelegramUserRepository(db *pgxpool.Pool) *TelegramUserRepository {
	return &TelegramUserRepository{db: db, now: entity.Now}
}

var _ repository.TelegramUserRepository = (*TelegramUserRepository)(nil)

// SetClock replaces the time source used for created/updated.
func (r *TelegramUserRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *TelegramUserRepository) Create(ctx context.Context, user *entity.TelegramUser) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid telegram user: %w", err)
	}

	candidate := user.Clone()
	candidate.StampCreated(r.now())

	_, err := r.db.Exec(ctx,
		`INSERT INTO telegram_users (`+telegramUserColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		candidate.TelegramID,
		ptrToText(candidate.Username),
		ptrToText(candidate.FullName),
		candidate.Balance,
		candidate.IsManager,
		candidate.IsAdmin,
		timeToPgtype(candidate.Created),
		timeToPgtype(candidate.Updated),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create telegram user %d: %w", user.TelegramID, entity.ErrConflict)
		}
		return fmt.Errorf("failed to create telegram user: %w", err)
	}

	*user = *candidate
	return nil
}

func (r *TelegramUserRepository) Get(ctx context.Context, telegramID int64) (*entity.TelegramUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+telegramUserColumns+` FROM telegram_users WHERE telegram_id = $1`, telegramID)

	user, err := scanTelegramUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get telegram user %d: %w", telegramID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get telegram user: %w", err)
	}
	return user, nil
}

// Update locks the row, merges the patch in Go and writes every mutable
// column back, so the merge and the updated stamp land atomically.
func (r *TelegramUserRepository) Update(ctx context.Context, telegramID int64, patch entity.Patch) (*entity.TelegramUser, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telegram user patch: %w", err)
	}

	var updated *entity.TelegramUser
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+telegramUserColumns+` FROM telegram_users WHERE telegram_id = $1 FOR UPDATE`, telegramID)
		user, err := scanTelegramUser(row)
		if err != nil {
			return err
		}

		user.Apply(patch)
		user.StampUpdated(r.now())

		_, err = tx.Exec(ctx,
			`UPDATE telegram_users
			 SET username = $2, full_name = $3, balance = $4, is_manager = $5, is_admin = $6, updated = $7
			 WHERE telegram_id = $1`,
			telegramID,
			ptrToText(user.Username),
			ptrToText(user.FullName),
			user.Balance,
			user.IsManager,
			user.IsAdmin,
			timeToPgtype(user.Updated),
		)
		if err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to update telegram user %d: %w", telegramID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update telegram user: %w", err)
	}
	return updated, nil
}

func (r *TelegramUserRepository) Delete(ctx context.Context, telegramID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM telegram_users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return fmt.Errorf("failed to delete telegram user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete telegram user %d: %w", telegramID, entity.ErrNotFound)
	}
	return nil
}

func (r *TelegramUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM telegram_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count telegram users: %w", err)
	}
	return count, nil
}

func (r *TelegramUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.TelegramUser, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid list window limit=%d offset=%d", limit, offset)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+telegramUserColumns+` FROM telegram_users ORDER BY telegram_id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list telegram users: %w", err)
	}
	defer rows.Close()

	users := []*entity.TelegramUser{}
	for rows.Next() {
		user, err := scanTelegramUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan telegram user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list telegram users: %w", err)
	}
	return users, nil
}

func (r *TelegramUserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanTelegramUser(row pgx.Row) (*entity.TelegramUser, error) {
	var (
		user             entity.TelegramUser
		username, name   pgtype.Text
		created, updated pgtype.Timestamptz
	)
	err := row.Scan(
		&user.TelegramID,
		&username,
		&name,
		&user.Balance,
		&user.IsManager,
		&user.IsAdmin,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}
	user.Username = textToPtr(username)
	user.FullName = textToPtr(name)
	user.Created = pgtypeToTime(created)
	user.Updated = pgtypeToTime(updated)
	return &user, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

func (r *PGRepo) CreateUser(ctx context.Context, username string) (domain.UserRecord, error) {
	q := r.qb().Insert(fmt.Sprintf("%s.users", r.schema)).
		Columns("username").
		Values(username).
		Suffix("RETURNING username, created_at")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var u domain.UserRecord
	if err := row.Scan(&u.Username, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Printf("CreateUser: username %q taken", username)
			return domain.UserRecord{}, domain.ErrUserExists
		}
		r.logger.Printf("CreateUser scan error after %s: %v", time.Since(start), err)
		return domain.UserRecord{}, fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}
	u.Cached = []domain.CacheEntry{}
	r.logger.Printf("CreateUser ok in %s username=%s", time.Since(start), u.Username)
	return u, nil
}

func (r *PGRepo) GetUser(ctx context.Context, username string) (domain.UserRecord, error) {
	q := r.qb().Select("username", "created_at").
		From(fmt.Sprintf("%s.users", r.schema)).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("GetUser", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var u domain.UserRecord
	if err := row.Scan(&u.Username, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("GetUser: %q not found", username)
			return domain.UserRecord{}, domain.ErrUserNotFound
		}
		r.logger.Printf("GetUser scan error after %s: %v", time.Since(start), err)
		return domain.UserRecord{}, fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}

	entries, err := r.listEntries(ctx, username)
	if err != nil {
		return domain.UserRecord{}, err
	}
	u.Cached = entries
	r.logger.Printf("GetUser ok in %s username=%s files=%d", time.Since(start), u.Username, len(u.Cached))
	return u, nil
}

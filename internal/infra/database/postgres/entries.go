package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// listEntries возвращает кэшированные файлы пользователя в порядке вставки
func (r *PGRepo) listEntries(ctx context.Context, username string) ([]domain.CacheEntry, error) {
	q := r.qb().Select("entity_name", "data_type", "source_key", "payload", "created_at").
		From(fmt.Sprintf("%s.cached_files", r.schema)).
		Where(sq.Eq{"username": username}).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("listEntries", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("listEntries query error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}
	defer rows.Close()

	entries := []domain.CacheEntry{}
	for rows.Next() {
		var e domain.CacheEntry
		if err := rows.Scan(&e.EntityName, &e.DataType, &e.SourceKey, &e.Payload, &e.CreatedAt); err != nil {
			r.logger.Printf("listEntries scan error: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrInfra, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}
	return entries, nil
}

// AppendEntry атомарно дописывает запись в конец списка пользователя.
// Уникальный индекс (username, entity_name) гарантирует "второй проигрывает".
func (r *PGRepo) AppendEntry(ctx context.Context, username string, entry domain.CacheEntry) error {
	q := r.qb().Insert(fmt.Sprintf("%s.cached_files", r.schema)).
		Columns("username", "entity_name", "data_type", "source_key", "payload").
		Values(username, entry.EntityName, entry.DataType, entry.SourceKey, []byte(entry.Payload))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("AppendEntry", sqlStr, []any{username, entry.EntityName, entry.DataType})

	start := time.Now()
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				r.logger.Printf("AppendEntry: %s already holds %q", username, entry.EntityName)
				return domain.ErrDuplicateEntity
			case pgFKViolation:
				r.logger.Printf("AppendEntry: user %q not found", username)
				return domain.ErrUserNotFound
			}
		}
		r.logger.Printf("AppendEntry exec error after %s: %v", time.Since(start), err)
		return fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}
	r.logger.Printf("AppendEntry ok in %s username=%s entity=%s", time.Since(start), username, entry.EntityName)
	return nil
}

// RemoveEntryAt удаляет запись по её позиции в порядке вставки
func (r *PGRepo) RemoveEntryAt(ctx context.Context, username string, index int) error {
	table := fmt.Sprintf("%s.cached_files", r.schema)
	sqlStr := fmt.Sprintf(
		"DELETE FROM %s WHERE id = (SELECT id FROM %s WHERE username = $1 ORDER BY id ASC OFFSET $2 LIMIT 1)",
		table, table)
	args := []any{username, index}
	r.logSQL("RemoveEntryAt", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("RemoveEntryAt exec error after %s: %v", time.Since(start), err)
		return fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("RemoveEntryAt: no entry at index %d for %s", index, username)
		return domain.ErrEntityNotTracked
	}
	r.logger.Printf("RemoveEntryAt ok in %s username=%s index=%d", time.Since(start), username, index)
	return nil
}

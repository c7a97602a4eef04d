package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// Buckets — какие бакеты обслуживают логические типы данных
type Buckets struct {
	Finance string
	News    string
}

// Engine — движок кэша поверх двух хранилищ: документ-хранилище с записями
// пользователей и object store с исходными блобами. Семантика —
// populate-once-then-cache: запись наполняется один раз, попадание не
// перечитывает блоб и не проверяет его свежесть; обратно в состояние промаха
// ведёт только явное удаление.
type Engine struct {
	log     *log.Logger
	store   domain.ObjectStore
	repo    domain.UserRepo
	buckets Buckets
}

func NewEngine(logger *log.Logger, store domain.ObjectStore, repo domain.UserRepo, buckets Buckets) *Engine {
	return &Engine{log: logger, store: store, repo: repo, buckets: buckets}
}

// Register создаёт пользователя с пустым списком кэшированных файлов
func (e *Engine) Register(ctx context.Context, username string) error {
	if _, err := e.repo.CreateUser(ctx, username); err != nil {
		return err
	}
	e.log.Printf("registered %q", username)
	return nil
}

// GetOrPopulate возвращает запись кэша для (user, dataType, entity),
// при промахе наполняя её из object store.
func (e *Engine) GetOrPopulate(ctx context.Context, username, dataType, entity string) (domain.CacheEntry, error) {
	// неизвестный тип данных отсекаем до любого I/O
	bucket, err := e.bucketFor(dataType)
	if err != nil {
		return domain.CacheEntry{}, err
	}

	rec, err := e.repo.GetUser(ctx, username)
	if err != nil {
		return domain.CacheEntry{}, err
	}
	if entry, ok := findEntry(rec.Cached, entity); ok {
		e.log.Printf("hit: user=%s entity=%s", username, entity)
		return entry, nil
	}

	key, err := e.resolveKey(ctx, bucket, dataType, username, entity)
	if err != nil {
		return domain.CacheEntry{}, err
	}

	raw, err := e.store.Get(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchKey) {
			// обычный случай: пользователь никогда не собирал эту сущность
			return domain.CacheEntry{}, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, entity)
		}
		if errors.Is(err, domain.ErrNoSuchBucket) {
			return domain.CacheEntry{}, fmt.Errorf("%w: %v", domain.ErrInfra, err)
		}
		return domain.CacheEntry{}, err
	}

	payload, err := normalizeCSV(raw)
	if err != nil {
		return domain.CacheEntry{}, err
	}

	entry := domain.CacheEntry{
		EntityName: entity,
		DataType:   dataType,
		SourceKey:  key,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}

	// перечитываем запись прямо перед append: при гонке двух наполнений
	// побеждает первый, второй получает DuplicateEntity
	rec, err = e.repo.GetUser(ctx, username)
	if err != nil {
		return domain.CacheEntry{}, err
	}
	if _, ok := findEntry(rec.Cached, entity); ok {
		return domain.CacheEntry{}, fmt.Errorf("%w: %s", domain.ErrDuplicateEntity, entity)
	}
	if err := e.repo.AppendEntry(ctx, username, entry); err != nil {
		return domain.CacheEntry{}, err
	}

	e.log.Printf("miss populated: user=%s entity=%s key=%s/%s", username, entity, bucket, key)
	return entry, nil
}

// ListEntities возвращает имена сущностей пользователя в порядке вставки
func (e *Engine) ListEntities(ctx context.Context, username string) ([]string, error) {
	rec, err := e.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rec.Cached))
	for _, entry := range rec.Cached {
		names = append(names, entry.EntityName)
	}
	return names, nil
}

// DeleteEntity удаляет запись кэша. Повторное удаление — ошибка
// EntityNotTracked: «никогда не кэшировалось» и «уже удалено» наружу
// не различаются. Финансовый блоб-источник принадлежит владельцу и
// удаляется best-effort после записи; новостные блобы общие для всех
// пользователей и не трогаются.
func (e *Engine) DeleteEntity(ctx context.Context, username, entity string) error {
	rec, err := e.repo.GetUser(ctx, username)
	if err != nil {
		return err
	}

	index := -1
	var entry domain.CacheEntry
	for i, cached := range rec.Cached {
		if cached.EntityName == entity {
			index, entry = i, cached
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s", domain.ErrEntityNotTracked, entity)
	}

	if err := e.repo.RemoveEntryAt(ctx, username, index); err != nil {
		return err
	}

	if entry.DataType == domain.DataTypeFinance && entry.SourceKey != "" {
		if err := e.store.Delete(ctx, e.buckets.Finance, entry.SourceKey); err != nil {
			e.log.Printf("blob delete failed (ignored): %s/%s: %v", e.buckets.Finance, entry.SourceKey, err)
		}
	}

	e.log.Printf("deleted: user=%s entity=%s", username, entity)
	return nil
}

func (e *Engine) bucketFor(dataType string) (string, error) {
	switch dataType {
	case domain.DataTypeFinance:
		return e.buckets.Finance, nil
	case domain.DataTypeNews:
		return e.buckets.News, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDataKey, dataType)
	}
}

// resolveKey переводит (dataType, entity) в ключ блоба. Для котировок ключ
// детерминирован; для новостей берётся последний датированный блоб сущности.
func (e *Engine) resolveKey(ctx context.Context, bucket, dataType, username, entity string) (string, error) {
	switch dataType {
	case domain.DataTypeFinance:
		return domain.StockDataKey(username, entity), nil
	case domain.DataTypeNews:
		keys, err := e.store.ListKeys(ctx, bucket, entity+"_")
		if err != nil {
			return "", err
		}
		var latestKey string
		var latest time.Time
		for _, key := range keys {
			d, ok := domain.NewsDateFromKey(entity, key)
			if !ok {
				continue
			}
			if latestKey == "" || d.After(latest) {
				latestKey, latest = key, d
			}
		}
		if latestKey == "" {
			return "", fmt.Errorf("%w: %s", domain.ErrEntityNotFound, entity)
		}
		return latestKey, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDataKey, dataType)
	}
}

func findEntry(entries []domain.CacheEntry, entity string) (domain.CacheEntry, bool) {
	for _, entry := range entries {
		if entry.EntityName == entity {
			return entry, true
		}
	}
	return domain.CacheEntry{}, false
}

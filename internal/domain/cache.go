package domain

import "context"

// Ключи горячего кэша — единое место, чтобы не расползались по коду.
func CacheKeyPayload(username, dataType, entity string) string {
	return "payload:" + username + ":" + dataType + ":" + entity
}
func CacheKeyList(username string) string { return "list:" + username }

// Простой k/v интерфейс. Реализация — Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	Ping(context.Context) error
	Close()
}

package files

import (
	"context"
	"log"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// Engine — операции движка кэша, которые нужны HTTP-слою
type Engine interface {
	Register(ctx context.Context, username string) error
	GetOrPopulate(ctx context.Context, username, dataType, entity string) (domain.CacheEntry, error)
	ListEntities(ctx context.Context, username string) ([]string, error)
	DeleteEntity(ctx context.Context, username, entity string) error
}

type Handler struct {
	Log    *log.Logger
	Engine Engine
	Cache  domain.Cache

	PayloadTTL int // секунд, горячий кэш ответов retrieve
}

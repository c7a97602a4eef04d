package domain

import "context"

// Документ-хранилище пользовательских записей (Postgres).
// Адаптер переводит ошибки драйвера в бизнес-таксономию на своей границе.
type UserRepo interface {
	Close()
	Ping(context.Context) error
	// CreateUser создаёт запись с пустым списком файлов; ErrUserExists если имя занято
	CreateUser(ctx context.Context, username string) (UserRecord, error)
	// GetUser возвращает запись вместе с упорядоченным списком кэшированных файлов;
	// ErrUserNotFound если записи нет
	GetUser(ctx context.Context, username string) (UserRecord, error)
	// AppendEntry атомарно дописывает запись в конец списка;
	// ErrDuplicateEntity если запись с таким entity уже есть
	AppendEntry(ctx context.Context, username string, entry CacheEntry) error
	// RemoveEntryAt удаляет запись по позиции в списке (порядок вставки)
	RemoveEntryAt(ctx context.Context, username string, index int) error
}

package domain

import "context"

// Хранилище блобов (S3/MinIO). Бакет — параметр вызова: один клиент
// обслуживает и финансовый бакет, и бакет новостей.
type ObjectStore interface {
	// Get возвращает содержимое объекта; ErrNoSuchKey / ErrNoSuchBucket различимы
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// Delete идемпотентен: отсутствие ключа не ошибка
	Delete(ctx context.Context, bucket, key string) error
	// ListKeys отдаёт плоский список ключей по префиксу; пагинация внутри адаптера
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

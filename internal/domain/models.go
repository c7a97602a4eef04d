package domain

import (
	"encoding/json"
	"time"
)

// Логические типы данных; выбирают бакет и правило нормализации
const (
	DataTypeFinance = "finance"
	DataTypeNews    = "news"
)

// Пользователь ретрив-сервиса. Идентификатор — имя, без паролей и токенов.
type UserRecord struct {
	Username  string       `json:"username"`
	CreatedAt time.Time    `json:"created_at"`
	Cached    []CacheEntry `json:"cached_files"`
}

// Одна строка нормализованного пейлоада: имена полей из CSV-заголовка
type Row map[string]string

// Запись кэша: результат одного успешного наполнения для пары (user, entity).
// Payload — нормализованный JSON, при попадании в кэш отдаётся байт-в-байт,
// без повторной нормализации.
type CacheEntry struct {
	EntityName string          `json:"filename"`
	DataType   string          `json:"data_type"`
	SourceKey  string          `json:"source_key"` // ключ блоба, из которого наполнена запись
	Payload    json.RawMessage `json:"content"`
	CreatedAt  time.Time       `json:"created"`
}

// Rows разбирает пейлоад обратно в строки (для отдачи наружу)
func (e CacheEntry) Rows() ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(e.Payload, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

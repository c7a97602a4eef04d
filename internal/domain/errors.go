package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды на уровне transport)
var (
	ErrUserNotFound     = errors.New("user_not_found")      // 401
	ErrUserExists       = errors.New("user_already_exists") // 401
	ErrEntityNotFound   = errors.New("entity_not_found")    // 400: в бакете нет блоба для наполнения кэша
	ErrEntityNotTracked = errors.New("entity_not_tracked")  // 400: нет записи в кэше для удаления
	ErrDuplicateEntity  = errors.New("duplicate_entity")    // 409: гонка при наполнении, второй append проигрывает
	ErrInvalidDataKey   = errors.New("invalid_data_key")    // 400: неизвестный логический тип данных
	ErrBadParams        = errors.New("bad_params")          // 400
	ErrInfra            = errors.New("infrastructure")      // 500: хранилища недоступны или вернули неизвестный сбой
)

// Ошибки уровня object store: адаптер различает "нет ключа" и "нет бакета",
// движок кэша переводит их в бизнес-таксономию.
var (
	ErrNoSuchKey    = errors.New("no_such_key")
	ErrNoSuchBucket = errors.New("no_such_bucket")
)

// Коды для конверта ответа
const (
	ErrCodeUserNotFound     = 1001
	ErrCodeUserExists       = 1002
	ErrCodeEntityNotFound   = 1003
	ErrCodeEntityNotTracked = 1004
	ErrCodeDuplicateEntity  = 1005
	ErrCodeInvalidDataKey   = 1006
	ErrCodeBadParams        = 1007
	ErrCodeUnexpected       = 1500
)

package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
)

// MapDomainError решает HTTP-статус + error.code/text для конверта.
// Политика: user_not_found/user_exists — 401 (так делали тесты исходных
// итераций, выбор зафиксирован в DESIGN.md), duplicate — 409,
// остальные клиентские — 400, инфраструктура — 500.
func MapDomainError(err error) (httpStatus int, env domain.APIEnvelope) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, domain.Fail(domain.ErrCodeUserNotFound, "user not found - ensure you have registered")
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusUnauthorized, domain.Fail(domain.ErrCodeUserExists, "username already taken")
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusBadRequest, domain.Fail(domain.ErrCodeEntityNotFound, "no collected data for this entity")
	case errors.Is(err, domain.ErrEntityNotTracked):
		return http.StatusBadRequest, domain.Fail(domain.ErrCodeEntityNotTracked, "entity is not in your cache")
	case errors.Is(err, domain.ErrDuplicateEntity):
		return http.StatusConflict, domain.Fail(domain.ErrCodeDuplicateEntity, "entity was cached concurrently")
	case errors.Is(err, domain.ErrInvalidDataKey):
		return http.StatusBadRequest, domain.Fail(domain.ErrCodeInvalidDataKey, "unknown data type")
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, domain.Fail(domain.ErrCodeBadParams, "bad params")
	default:
		return http.StatusInternalServerError, domain.Fail(domain.ErrCodeUnexpected, "unexpected")
	}
}

// WriteEnvelope пишет конверт; для HEAD — без тела
func WriteEnvelope(w http.ResponseWriter, r *http.Request, status int, env domain.APIEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(env)
}

// Шорткаты успеха
func WriteOKData(w http.ResponseWriter, r *http.Request, data any) {
	WriteEnvelope(w, r, http.StatusOK, domain.OkData(data))
}
func WriteOKResponse(w http.ResponseWriter, r *http.Request, resp any) {
	WriteEnvelope(w, r, http.StatusOK, domain.OkResponse(resp))
}

// Шорткаты ошибок
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := MapDomainError(err)
	WriteEnvelope(w, r, status, env)
}

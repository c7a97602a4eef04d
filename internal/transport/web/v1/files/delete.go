package files

import (
	"encoding/json"
	"net/http"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/logx"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	v1 "github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1"
)

type deleteRequest struct {
	Username string `json:"username"`
	Filename string `json:"filename"`
}

// Delete godoc
// @Summary     Delete a cached entity (second delete of the same entity fails)
// @Tags        files
// @Accept      json
// @Produce     json
// @Param       body body deleteRequest true "username and entity name"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     400 {object} domain.APIEnvelope "entity not tracked"
// @Failure     401 {object} domain.APIEnvelope "user not found"
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/delete/ [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "files.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad body", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	username := normalizeName(req.Username)
	entity := normalizeName(req.Filename)
	if username == "" || entity == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Engine.DeleteEntity(r.Context(), username, entity); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "user", username, "entity", entity)
		v1.WriteDomainError(w, r, err)
		return
	}

	// инвалидация горячего кэша
	_ = h.Cache.Del(r.Context(),
		domain.CacheKeyPayload(username, domain.DataTypeFinance, entity),
		domain.CacheKeyPayload(username, domain.DataTypeNews, entity),
		domain.CacheKeyList(username),
	)

	logx.Info(h.Log, reqID, op, "deleted", "user", username, "entity", entity)
	v1.WriteOKResponse(w, r, map[string]bool{entity: true})
}

package files

import (
	"net/http"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/logx"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	v1 "github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1"
)

// List godoc
// @Summary     List cached entities for a user, in retrieval order
// @Tags        files
// @Produce     json
// @Param       username path string true "username"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope "user not found"
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/list/{username}/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "files.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	username := normalizeName(unescape(r.PathValue("username")))
	if username == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	names, err := h.Engine.ListEntities(r.Context(), username)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "user", username)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user", username, "files", len(names))
	v1.WriteOKData(w, r, map[string]any{"files": names})
}

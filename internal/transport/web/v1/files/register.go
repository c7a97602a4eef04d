package files

import (
	"encoding/json"
	"net/http"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/logx"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	v1 "github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1"
)

type registerRequest struct {
	Username string `json:"username"`
}

// Register godoc
// @Summary     Register a new user
// @Tags        files
// @Accept      json
// @Produce     json
// @Param       body body registerRequest true "username"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     401 {object} domain.APIEnvelope "username taken"
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/register/ [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "files.register"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad body", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	username := normalizeName(req.Username)
	if !domain.ValidUsername(username) {
		logx.Error(h.Log, reqID, op, "bad username", domain.ErrBadParams, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Engine.Register(r.Context(), username); err != nil {
		logx.Error(h.Log, reqID, op, "register failed", err, "username", username)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "registered", "username", username)
	v1.WriteOKResponse(w, r, map[string]any{"success": true, "username": username})
}

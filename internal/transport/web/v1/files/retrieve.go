package files

import (
	"encoding/json"
	"net/http"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/logx"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	v1 "github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1"
)

// Retrieve godoc
// @Summary     Retrieve cached finance data (v1, data type fixed to finance)
// @Tags        files
// @Produce     json
// @Param       username path string true "username"
// @Param       entity   path string true "entity (company/ticker) name"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope "entity not collected"
// @Failure     401 {object} domain.APIEnvelope "user not found"
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/retrieve/{username}/{entity}/ [get]
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	h.retrieve(w, r, domain.DataTypeFinance)
}

// RetrieveV2 godoc
// @Summary     Retrieve cached data with explicit data type routing
// @Tags        files
// @Produce     json
// @Param       username path string true "username"
// @Param       dataType path string true "finance|news"
// @Param       entity   path string true "entity (company/ticker) name"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope "invalid data type or entity not collected"
// @Failure     401 {object} domain.APIEnvelope "user not found"
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v2/retrieve/{username}/{dataType}/{entity}/ [get]
func (h *Handler) RetrieveV2(w http.ResponseWriter, r *http.Request) {
	h.retrieve(w, r, unescape(r.PathValue("dataType")))
}

func (h *Handler) retrieve(w http.ResponseWriter, r *http.Request, dataType string) {
	const op = "files.retrieve"
	reqID := mw.RequestIDFromCtx(r.Context())

	username := normalizeName(unescape(r.PathValue("username")))
	entity := normalizeName(unescape(r.PathValue("entity")))
	if username == "" || entity == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// горячий кэш ответа; промах здесь не меняет семантику движка
	ckey := domain.CacheKeyPayload(username, dataType, entity)
	if b, err := h.Cache.Get(r.Context(), ckey); err == nil && len(b) > 0 {
		logx.Info(h.Log, reqID, op, "hot cache hit", "user", username, "entity", entity)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", reqID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	} else if err != nil {
		logx.Error(h.Log, reqID, op, "hot cache get failed", err)
	}

	entry, err := h.Engine.GetOrPopulate(r.Context(), username, dataType, entity)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get or populate failed", err,
			"user", username, "data_type", dataType, "entity", entity)
		v1.WriteDomainError(w, r, err)
		return
	}

	rows, err := entry.Rows()
	if err != nil {
		logx.Error(h.Log, reqID, op, "corrupt payload", err, "user", username, "entity", entity)
		v1.WriteDomainError(w, r, domain.ErrInfra)
		return
	}

	env := domain.OkData(adageData(dataType, entity, rows))
	if buf, err := json.Marshal(env); err == nil {
		_ = h.Cache.Set(r.Context(), ckey, buf, h.PayloadTTL)
	}

	logx.Info(h.Log, reqID, op, "ok", "user", username, "entity", entity, "rows", len(rows))
	v1.WriteEnvelope(w, r, http.StatusOK, env)
}

package news

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/logx"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	v1 "github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1"
)

// Refresher — то, что новостному HTTP-слою нужно от сборщика
type Refresher interface {
	RefreshNews(ctx context.Context, username string) (int, error)
}

type Handler struct {
	Log       *log.Logger
	Collector Refresher
}

// Refresh godoc
// @Summary     Refresh news blobs for all entities tracked by a user
// @Description Пер-сущностные ошибки проглатываются; падает только слом перечисления
// @Tags        news
// @Produce     json
// @Param       username path string true "username"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/news/{username}/ [get]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "news.refresh"
	reqID := mw.RequestIDFromCtx(r.Context())

	username := normalize(r.PathValue("username"))
	if username == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	added, err := h.Collector.RefreshNews(r.Context(), username)
	if err != nil {
		logx.Error(h.Log, reqID, op, "refresh failed", err, "user", username)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "complete", "user", username, "files_added", added)
	v1.WriteOKData(w, r, map[string]any{"status": "complete", "files_added": added})
}

// имена владельцев в ключах блобов всегда в нижнем регистре
func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

package stock

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/jobs"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/logx"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	v1 "github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1"
)

// Collector — операции сборщика котировок, нужные HTTP-слою
type Collector interface {
	CollectStock(ctx context.Context, owner, company string) (string, []domain.Row, error)
	CheckStock(ctx context.Context, owner, company string) (bool, string, error)
}

type Handler struct {
	Log       *log.Logger
	Collector Collector
	Jobs      *asynq.Client // nil допустим: фоновые задачи просто не ставятся
}

// Collect godoc
// @Summary     Fetch stock history for a company and store it for an owner
// @Tags        stock
// @Produce     json
// @Param       company query string true "company name"
// @Param       name    query string true "owner (username)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope "missing params or unknown ticker"
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/collect/stock [get]
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	const op = "stock.collect"
	reqID := mw.RequestIDFromCtx(r.Context())

	company := normalize(r.URL.Query().Get("company"))
	owner := normalize(r.URL.Query().Get("name"))
	if company == "" || owner == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	ticker, rows, err := h.Collector.CollectStock(r.Context(), owner, company)
	if err != nil {
		logx.Error(h.Log, reqID, op, "collect failed", err, "owner", owner, "company", company)
		v1.WriteDomainError(w, r, err)
		return
	}

	// свежие котировки собраны — ставим фоновое обновление новостей владельца
	h.enqueueNewsRefresh(reqID, owner)

	logx.Info(h.Log, reqID, op, "ok", "owner", owner, "company", company, "ticker", ticker)
	v1.WriteOKData(w, r, map[string]any{
		"message": "Stock data retrieved successfully",
		"ticker":  ticker,
		"file":    domain.StockDataKey(owner, company),
		"data":    rows,
	})
}

// Check godoc
// @Summary     Check whether stock data for a company exists for an owner
// @Tags        stock
// @Produce     json
// @Param       company query string true "company name"
// @Param       name    query string true "owner (username)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /v1/collect/check [get]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	const op = "stock.check"
	reqID := mw.RequestIDFromCtx(r.Context())

	company := normalize(r.URL.Query().Get("company"))
	owner := normalize(r.URL.Query().Get("name"))
	if company == "" || owner == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	exists, key, err := h.Collector.CheckStock(r.Context(), owner, company)
	if err != nil {
		logx.Error(h.Log, reqID, op, "check failed", err, "owner", owner, "company", company)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "owner", owner, "company", company, "exists", exists)
	v1.WriteOKData(w, r, map[string]any{"exists": exists, "file": key})
}

func (h *Handler) enqueueNewsRefresh(reqID, owner string) {
	if h.Jobs == nil {
		return
	}
	payload, err := json.Marshal(jobs.RefreshNewsPayload{Username: owner})
	if err != nil {
		return
	}
	if _, err := h.Jobs.Enqueue(asynq.NewTask(jobs.TaskRefreshNews, payload)); err != nil {
		logx.Error(h.Log, reqID, "stock.enqueue", "enqueue news refresh failed", err, "owner", owner)
		return
	}
	logx.Info(h.Log, reqID, "stock.enqueue", "news refresh queued", "owner", owner)
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

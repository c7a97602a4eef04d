package web

import (
	"log"
	"net/http"

	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/mw"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/files"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/health"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/news"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/stock"
)

func newRouter(fh *files.Handler, nh *news.Handler, sh *stock.Handler, hh *health.Handler, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /v1/healthz", hh.Liveness)
	mux.HandleFunc("GET /v1/readyz", hh.Readiness)

	// retrieval service
	mux.HandleFunc("POST /v1/register/{$}", limitBody(1<<20, fh.Register))
	mux.HandleFunc("GET /v1/retrieve/{username}/{entity}/{$}", fh.Retrieve)
	mux.HandleFunc("GET /v2/retrieve/{username}/{dataType}/{entity}/{$}", fh.RetrieveV2)
	mux.HandleFunc("GET /v1/list/{username}/{$}", fh.List)
	mux.HandleFunc("DELETE /v1/delete/{$}", limitBody(1<<20, fh.Delete))

	// data collection
	mux.HandleFunc("GET /v1/collect/stock", sh.Collect)
	mux.HandleFunc("GET /v1/collect/check", sh.Check)
	mux.HandleFunc("GET /v1/news/{username}/{$}", nh.Refresh)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}

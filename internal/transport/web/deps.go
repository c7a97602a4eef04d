package web

import (
	"github.com/hibiken/asynq"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/files"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/health"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/news"
	"github.com/rakshil17/SENG3011-OMEGA/internal/transport/web/v1/stock"
)

type Deps struct {
	Engine    files.Engine
	Refresher news.Refresher
	Stocks    stock.Collector
	Cache     domain.Cache
	DB        health.Pinger
	Storage   health.Pinger
	Jobs      *asynq.Client // может быть nil
}

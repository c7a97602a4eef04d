package collect

import (
	"context"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// Внешние источники данных (Yahoo). За интерфейсами — чтобы ядро
// тестировалось на фейках без сети.

// TickerSearcher находит биржевой тикер по имени компании; "" если не нашёл
type TickerSearcher interface {
	SearchTicker(ctx context.Context, company string) (string, error)
}

// HistoryFetcher возвращает историю котировок тикера; пустой срез — нет данных
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, ticker string) ([]domain.Row, error)
}

// NewsFetcher возвращает новости компании за последние 30 дней;
// пустой срез — свежих новостей нет
type NewsFetcher interface {
	FetchNews(ctx context.Context, company string) ([]domain.Row, error)
}

// Колонки CSV-блобов. Порядок фиксирован: сборщик и ретрив-сервис
// читают одни и те же файлы.
var (
	StockHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Dividends", "Stock Splits"}
	NewsHeader  = []string{"company_name", "article_title", "article_content", "source", "url", "published_at", "sentiment_score"}
)

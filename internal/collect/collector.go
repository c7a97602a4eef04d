package collect

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"time"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// FreshnessWindow — новости старше этого срока считаются устаревшими
const FreshnessWindow = 30 * 24 * time.Hour

// Collector — сборщик данных: находит отслеживаемые сущности пользователя,
// решает по дате последнего блоба, нужен ли перезабор новостей, и пишет
// новые датированные блобы. Работает только с object store, минуя кэш:
// устаревание блоба не инвалидирует записи кэша.
type Collector struct {
	log           *log.Logger
	store         domain.ObjectStore
	tickers       TickerSearcher
	history       HistoryFetcher
	news          NewsFetcher
	financeBucket string
	newsBucket    string

	// переопределяется в тестах
	now func() time.Time
}

func New(logger *log.Logger, store domain.ObjectStore, tickers TickerSearcher,
	history HistoryFetcher, news NewsFetcher, financeBucket, newsBucket string) *Collector {
	return &Collector{
		log:           logger,
		store:         store,
		tickers:       tickers,
		history:       history,
		news:          news,
		financeBucket: financeBucket,
		newsBucket:    newsBucket,
		now:           time.Now,
	}
}

// TrackedEntities перечисляет сущности, по которым у пользователя есть
// финансовые блобы. Сопоставление префикса регистрозависимое (решение
// зафиксировано в DESIGN.md). Пустое или мусорное имя даёт пустой список,
// не ошибку.
func (c *Collector) TrackedEntities(ctx context.Context, username string) ([]string, error) {
	if username == "" {
		return []string{}, nil
	}
	keys, err := c.store.ListKeys(ctx, c.financeBucket, domain.OwnerPrefix(username))
	if err != nil {
		return nil, err
	}
	entities := []string{}
	for _, key := range keys {
		if entity, ok := domain.EntityFromStockKey(username, key); ok {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// LatestNewsDate возвращает дату самого свежего новостного блоба сущности.
// Нулевое время — блобов нет; ключи с нечитаемой датой логируются и
// пропускаются.
func (c *Collector) LatestNewsDate(ctx context.Context, entity string) (time.Time, error) {
	keys, err := c.store.ListKeys(ctx, c.newsBucket, entity+"_")
	if err != nil {
		return time.Time{}, err
	}
	var latest time.Time
	for _, key := range keys {
		d, ok := domain.NewsDateFromKey(entity, key)
		if !ok {
			c.log.Printf("skipping unparseable news key %q", key)
			continue
		}
		if d.After(latest) {
			latest = d
		}
	}
	return latest, nil
}

// RefreshNews перезабирает новости по всем отслеживаемым сущностям
// пользователя. Ошибка на одной сущности логируется и не прерывает
// обработку остальных; падает вызов целиком только если не удалось
// перечислить сущности. Возвращает число реально загруженных блобов.
func (c *Collector) RefreshNews(ctx context.Context, username string) (int, error) {
	entities, err := c.TrackedEntities(ctx, username)
	if err != nil {
		return 0, err
	}

	added := 0
	cutoff := c.now().UTC().Add(-FreshnessWindow)
	for _, entity := range entities {
		uploaded, err := c.refreshOne(ctx, entity, cutoff)
		if err != nil {
			c.log.Printf("refresh %q failed (skipped): %v", entity, err)
			continue
		}
		if uploaded {
			added++
		}
	}
	c.log.Printf("refresh done: user=%s entities=%d added=%d", username, len(entities), added)
	return added, nil
}

func (c *Collector) refreshOne(ctx context.Context, entity string, cutoff time.Time) (bool, error) {
	latest, err := c.LatestNewsDate(ctx, entity)
	if err != nil {
		return false, err
	}
	if !latest.IsZero() && !latest.Before(cutoff) {
		c.log.Printf("skip %q: fresh blob from %s", entity, latest.Format("2006-01-02"))
		return false, nil
	}

	rows, err := c.news.FetchNews(ctx, entity)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		c.log.Printf("no recent news for %q", entity)
		return false, nil
	}

	key := domain.NewsKey(entity, c.now().UTC())
	data, err := rowsToCSV(NewsHeader, rows)
	if err != nil {
		return false, err
	}
	if err := c.store.Put(ctx, c.newsBucket, key, data, "text/csv"); err != nil {
		return false, err
	}
	c.log.Printf("uploaded %s/%s (%d rows)", c.newsBucket, key, len(rows))
	return true, nil
}

// CollectStock находит тикер компании, забирает историю котировок и пишет
// блоб "{owner}#{company}_stock_data.csv" в финансовый бакет.
func (c *Collector) CollectStock(ctx context.Context, owner, company string) (string, []domain.Row, error) {
	ticker, err := c.tickers.SearchTicker(ctx, company)
	if err != nil {
		return "", nil, fmt.Errorf("%w: ticker search: %v", domain.ErrInfra, err)
	}
	if ticker == "" {
		return "", nil, fmt.Errorf("%w: no ticker for %q", domain.ErrEntityNotFound, company)
	}

	rows, err := c.history.FetchHistory(ctx, ticker)
	if err != nil {
		return "", nil, fmt.Errorf("%w: history fetch: %v", domain.ErrInfra, err)
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("%w: no history for %q", domain.ErrEntityNotFound, ticker)
	}

	key := domain.StockDataKey(owner, company)
	data, err := rowsToCSV(StockHeader, rows)
	if err != nil {
		return "", nil, err
	}
	if err := c.store.Put(ctx, c.financeBucket, key, data, "text/csv"); err != nil {
		return "", nil, err
	}
	c.log.Printf("collected %s -> %s/%s (%d rows)", ticker, c.financeBucket, key, len(rows))
	return ticker, rows, nil
}

// CheckStock проверяет, есть ли у владельца блоб котировок компании
func (c *Collector) CheckStock(ctx context.Context, owner, company string) (bool, string, error) {
	key := domain.StockDataKey(owner, company)
	keys, err := c.store.ListKeys(ctx, c.financeBucket, key)
	if err != nil {
		return false, key, err
	}
	for _, k := range keys {
		if k == key {
			return true, key, nil
		}
	}
	return false, key, nil
}

// rowsToCSV сериализует строки в CSV с фиксированным порядком колонок
func rowsToCSV(header []string, rows []domain.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("%w: write csv: %v", domain.ErrInfra, err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%w: write csv: %v", domain.ErrInfra, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: flush csv: %v", domain.ErrInfra, err)
	}
	return buf.Bytes(), nil
}

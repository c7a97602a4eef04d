package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

const (
	DefaultSearchBase = "https://query2.finance.yahoo.com"
	userAgent         = "Mozilla/5.0"
)

// Client ходит в публичные API Yahoo Finance: поиск тикера, история
// котировок, новости. Базовые URL переопределяются в тестах.
type Client struct {
	HTTP       *http.Client
	SearchBase string
	Log        *log.Logger
}

func NewClient(logger *log.Logger) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: 15 * time.Second},
		SearchBase: DefaultSearchBase,
		Log:        logger,
	}
}

type searchResponse struct {
	Quotes []struct {
		Symbol         string `json:"symbol"`
		IsYahooFinance bool   `json:"isYahooFinance"`
	} `json:"quotes"`
}

// SearchTicker возвращает первый котируемый на Yahoo тикер для компании;
// "" — не нашли
func (c *Client) SearchTicker(ctx context.Context, company string) (string, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s", c.SearchBase, url.QueryEscape(company))
	var out searchResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return "", err
	}
	for _, q := range out.Quotes {
		if q.Symbol != "" && q.IsYahooFinance {
			return q.Symbol, nil
		}
	}
	return "", nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchHistory возвращает дневные котировки тикера за последний месяц
func (c *Client) FetchHistory(ctx context.Context, ticker string) ([]domain.Row, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=1mo&interval=1d", c.SearchBase, url.PathEscape(ticker))
	var out chartResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	if len(out.Chart.Result) == 0 || len(out.Chart.Result[0].Indicators.Quote) == 0 {
		return []domain.Row{}, nil
	}
	res := out.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	rows := make([]domain.Row, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		row := domain.Row{
			"Date":         time.Unix(ts, 0).UTC().Format("2006-01-02"),
			"Dividends":    "0.0",
			"Stock Splits": "0.0",
		}
		if i < len(quote.Open) {
			row["Open"] = formatPrice(quote.Open[i])
		}
		if i < len(quote.High) {
			row["High"] = formatPrice(quote.High[i])
		}
		if i < len(quote.Low) {
			row["Low"] = formatPrice(quote.Low[i])
		}
		if i < len(quote.Close) {
			row["Close"] = formatPrice(quote.Close[i])
		}
		if i < len(quote.Volume) {
			row["Volume"] = strconv.FormatInt(quote.Volume[i], 10)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type newsResponse struct {
	News []struct {
		Content struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
			PubDate string `json:"pubDate"`
			Provider struct {
				DisplayName string `json:"displayName"`
			} `json:"provider"`
			CanonicalURL struct {
				URL string `json:"url"`
			} `json:"canonicalUrl"`
		} `json:"content"`
	} `json:"news"`
}

// FetchNews возвращает новости компании, отфильтрованные до последних 30 дней
func (c *Client) FetchNews(ctx context.Context, company string) ([]domain.Row, error) {
	ticker, err := c.SearchTicker(ctx, company)
	if err != nil {
		return nil, err
	}
	if ticker == "" {
		return []domain.Row{}, nil
	}

	u := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=50", c.SearchBase, url.QueryEscape(ticker))
	var out newsResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)
	rows := []domain.Row{}
	for _, item := range out.News {
		if item.Content.PubDate == "" {
			continue
		}
		pub, err := time.Parse(time.RFC3339, item.Content.PubDate)
		if err != nil {
			c.Log.Printf("bad pubDate %q: %v", item.Content.PubDate, err)
			continue
		}
		if pub.Before(cutoff) {
			continue
		}
		rows = append(rows, domain.Row{
			"company_name":    company,
			"article_title":   item.Content.Title,
			"article_content": item.Content.Summary,
			"source":          item.Content.Provider.DisplayName,
			"url":             item.Content.CanonicalURL.URL,
			"published_at":    pub.UTC().Format(time.RFC3339),
			"sentiment_score": "0.0",
		})
	}
	return rows, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

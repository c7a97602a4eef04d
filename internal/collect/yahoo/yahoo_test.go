package yahoo

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		HTTP:       srv.Client(),
		SearchBase: srv.URL,
		Log:        log.New(io.Discard, "", 0),
	}
}

func TestSearchTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/finance/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"quotes":[
			{"symbol":"XXX","isYahooFinance":false},
			{"symbol":"AAPL","isYahooFinance":true},
			{"symbol":"AAPL2","isYahooFinance":true}
		]}`)
	})

	ticker, err := c.SearchTicker(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker)
}

func TestSearchTickerNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"quotes":[]}`)
	})

	ticker, err := c.SearchTicker(context.Background(), "no-such-company")
	require.NoError(t, err)
	assert.Empty(t, ticker)
}

func TestSearchTickerBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.SearchTicker(context.Background(), "apple")
	assert.Error(t, err)
}

func TestFetchHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		fmt.Fprint(w, `{"chart":{"result":[{
			"timestamp":[1709251200,1709337600],
			"indicators":{"quote":[{
				"open":[150.1,151.2],
				"high":[152.0,153.5],
				"low":[149.0,150.0],
				"close":[151.5,152.75],
				"volume":[1000000,2000000]
			}]}
		}]}}`)
	})

	rows, err := c.FetchHistory(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01", rows[0]["Date"])
	assert.Equal(t, "151.5", rows[0]["Close"])
	assert.Equal(t, "1000000", rows[0]["Volume"])
	assert.Equal(t, "0.0", rows[0]["Dividends"])
	assert.Equal(t, "152.75", rows[1]["Close"])
}

func TestFetchHistoryEmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[]}}`)
	})

	rows, err := c.FetchHistory(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchNews(t *testing.T) {
	fresh := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	stale := time.Now().UTC().Add(-45 * 24 * time.Hour).Format(time.RFC3339)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("newsCount") == "" {
			// первый вызов — поиск тикера
			fmt.Fprint(w, `{"quotes":[{"symbol":"AAPL","isYahooFinance":true}]}`)
			return
		}
		assert.Equal(t, "AAPL", r.URL.Query().Get("q"))
		fmt.Fprintf(w, `{"news":[
			{"content":{"title":"fresh one","summary":"s","pubDate":"%s",
				"provider":{"displayName":"Reuters"},"canonicalUrl":{"url":"http://a"}}},
			{"content":{"title":"stale one","summary":"s","pubDate":"%s",
				"provider":{"displayName":"Reuters"},"canonicalUrl":{"url":"http://b"}}},
			{"content":{"title":"no date","summary":"s","pubDate":"",
				"provider":{"displayName":"Reuters"},"canonicalUrl":{"url":"http://c"}}}
		]}`, fresh, stale)
	})

	rows, err := c.FetchNews(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "fresh one", rows[0]["article_title"])
	assert.Equal(t, "apple", rows[0]["company_name"])
	assert.Equal(t, "Reuters", rows[0]["source"])
	assert.Equal(t, "0.0", rows[0]["sentiment_score"])
}

func TestFetchNewsUnknownTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"quotes":[]}`)
	})

	rows, err := c.FetchNews(context.Background(), "no-such-company")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

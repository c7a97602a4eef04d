package files

import (
	"net/url"
	"strings"
	"time"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

// Соответствие логического типа данных описанию источника в выдаче
var (
	dataSources = map[string]string{
		domain.DataTypeFinance: "yahoo_finance",
		domain.DataTypeNews:    "yahoo_news",
	}
	datasetTypes = map[string]string{
		domain.DataTypeFinance: "Daily stock data",
		domain.DataTypeNews:    "Financial news",
	}
)

// adageData собирает тело выдачи retrieve: метаданные источника плюс
// нормализованные события
func adageData(dataType, entity string, rows []domain.Row) map[string]any {
	return map[string]any{
		"data_source":  dataSources[dataType],
		"dataset_type": datasetTypes[dataType],
		"time_object": map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"timezone":  "UTC",
		},
		"stock_name": entity,
		"events":     rows,
	}
}

// normalizeName приводит имена из пути/тела к канонической форме
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// для safety: url.PathUnescape параметров из path
func unescape(s string) string {
	u, _ := url.PathUnescape(s)
	return u
}

package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Форматы ключей в object store. Сборщик пишет по этим же шаблонам,
// поэтому они зафиксированы здесь, а не в адаптерах.
const (
	stockDataSuffix = "_stock_data.csv"
	newsDateLayout  = "2006-01-02"
)

var newsKeyRe = regexp.MustCompile(`^(.+)_(\d{4}-\d{2}-\d{2})_news\.csv$`)

// StockDataKey — ключ блоба с историей котировок: "{owner}#{entity}_stock_data.csv"
func StockDataKey(owner, entity string) string {
	return fmt.Sprintf("%s#%s%s", owner, entity, stockDataSuffix)
}

// OwnerPrefix — префикс всех финансовых блобов владельца
func OwnerPrefix(owner string) string { return owner + "#" }

// EntityFromStockKey достаёт имя сущности из ключа блоба котировок;
// ok=false если ключ не соответствует шаблону или принадлежит другому владельцу.
func EntityFromStockKey(owner, key string) (string, bool) {
	prefix := OwnerPrefix(owner)
	if len(key) <= len(prefix)+len(stockDataSuffix) {
		return "", false
	}
	if key[:len(prefix)] != prefix || key[len(key)-len(stockDataSuffix):] != stockDataSuffix {
		return "", false
	}
	return key[len(prefix) : len(key)-len(stockDataSuffix)], true
}

// NewsKey — ключ датированного новостного блоба: "{entity}_{date}_news.csv"
func NewsKey(entity string, date time.Time) string {
	return fmt.Sprintf("%s_%s_news.csv", entity, date.Format(newsDateLayout))
}

// NewsDateFromKey разбирает дату из ключа новостного блоба для данной сущности
func NewsDateFromKey(entity, key string) (time.Time, bool) {
	m := newsKeyRe.FindStringSubmatch(key)
	if m == nil || m[1] != entity {
		return time.Time{}, false
	}
	d, err := time.Parse(newsDateLayout, m[2])
	if err != nil {
		return time.Time{}, false
	}
	return d.UTC(), true
}

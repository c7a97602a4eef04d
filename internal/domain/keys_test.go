package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockDataKey(t *testing.T) {
	assert.Equal(t, "user1#apple_stock_data.csv", StockDataKey("user1", "apple"))
	assert.Equal(t, "user1#", OwnerPrefix("user1"))
}

func TestEntityFromStockKey(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		key    string
		entity string
		ok     bool
	}{
		{"match", "user1", "user1#apple_stock_data.csv", "apple", true},
		{"other owner", "user1", "user10#apple_stock_data.csv", "", false},
		{"wrong suffix", "user1", "user1#notes.txt", "", false},
		{"case sensitive", "user1", "User1#apple_stock_data.csv", "", false},
		{"empty entity", "user1", "user1#_stock_data.csv", "", false},
		{"entity with dot", "user1", "user1#a.b_stock_data.csv", "a.b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, ok := EntityFromStockKey(tt.owner, tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.entity, entity)
		})
	}
}

func TestNewsKeyRoundTrip(t *testing.T) {
	d := time.Date(2023, 5, 10, 14, 30, 0, 0, time.UTC)
	key := NewsKey("apple", d)
	assert.Equal(t, "apple_2023-05-10_news.csv", key)

	got, ok := NewsDateFromKey("apple", key)
	assert.True(t, ok)
	assert.Equal(t, "2023-05-10", got.Format("2006-01-02"))
}

func TestNewsDateFromKeyRejects(t *testing.T) {
	_, ok := NewsDateFromKey("apple", "banana_2023-05-10_news.csv")
	assert.False(t, ok, "другая сущность")

	_, ok = NewsDateFromKey("apple", "apple_garbage_news.csv")
	assert.False(t, ok, "нет даты")

	_, ok = NewsDateFromKey("apple", "apple_2023-13-45_news.csv")
	assert.False(t, ok, "невалидная дата")
}

func TestValidation(t *testing.T) {
	assert.True(t, ValidUsername("user_1-a"))
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("User1"))
	assert.False(t, ValidUsername("a b"))

	assert.True(t, ValidEntity("apple inc."))
	assert.False(t, ValidEntity(""))
	assert.False(t, ValidEntity("bad#name"))
}

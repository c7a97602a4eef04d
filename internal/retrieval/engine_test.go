package retrieval

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

const (
	testFinanceBucket = "finance-bucket"
	testNewsBucket    = "news-bucket"
)

// ---- фейки хранилищ ----

type fakeStore struct {
	objects  map[string]map[string][]byte // bucket -> key -> data
	getCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]map[string][]byte{
		testFinanceBucket: {},
		testNewsBucket:    {},
	}}
}

func (s *fakeStore) put(bucket, key, data string) {
	s.objects[bucket][key] = []byte(data)
}

func (s *fakeStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	s.getCalls++
	b, ok := s.objects[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSuchBucket, bucket)
	}
	data, ok := b[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSuchKey, key)
	}
	return data, nil
}

func (s *fakeStore) Put(_ context.Context, bucket, key string, data []byte, _ string) error {
	s.objects[bucket][key] = data
	return nil
}

func (s *fakeStore) Delete(_ context.Context, bucket, key string) error {
	delete(s.objects[bucket], key)
	return nil
}

func (s *fakeStore) ListKeys(_ context.Context, bucket, prefix string) ([]string, error) {
	b, ok := s.objects[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSuchBucket, bucket)
	}
	var keys []string
	for k := range b {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *fakeStore) Ping(context.Context) error { return nil }

type fakeRepo struct {
	users map[string][]domain.CacheEntry
	// вызывается после каждого GetUser; позволяет вклинить гонку
	afterGetUser func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string][]domain.CacheEntry{}}
}

func (r *fakeRepo) Close()                     {}
func (r *fakeRepo) Ping(context.Context) error { return nil }

func (r *fakeRepo) CreateUser(_ context.Context, username string) (domain.UserRecord, error) {
	if _, ok := r.users[username]; ok {
		return domain.UserRecord{}, domain.ErrUserExists
	}
	r.users[username] = []domain.CacheEntry{}
	return domain.UserRecord{Username: username, CreatedAt: time.Now(), Cached: []domain.CacheEntry{}}, nil
}

func (r *fakeRepo) GetUser(_ context.Context, username string) (domain.UserRecord, error) {
	entries, ok := r.users[username]
	if !ok {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	rec := domain.UserRecord{Username: username, Cached: append([]domain.CacheEntry{}, entries...)}
	if r.afterGetUser != nil {
		r.afterGetUser()
	}
	return rec, nil
}

func (r *fakeRepo) AppendEntry(_ context.Context, username string, entry domain.CacheEntry) error {
	entries, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, e := range entries {
		if e.EntityName == entry.EntityName {
			return domain.ErrDuplicateEntity
		}
	}
	r.users[username] = append(entries, entry)
	return nil
}

func (r *fakeRepo) RemoveEntryAt(_ context.Context, username string, index int) error {
	entries, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	if index < 0 || index >= len(entries) {
		return domain.ErrEntityNotTracked
	}
	r.users[username] = append(entries[:index], entries[index+1:]...)
	return nil
}

func newTestEngine(store *fakeStore, repo *fakeRepo) *Engine {
	return NewEngine(log.New(io.Discard, "", 0), store, repo, Buckets{
		Finance: testFinanceBucket,
		News:    testNewsBucket,
	})
}

// ---- тесты ----

func TestRegister(t *testing.T) {
	e := newTestEngine(newFakeStore(), newFakeRepo())

	require.NoError(t, e.Register(context.Background(), "user1"))

	err := e.Register(context.Background(), "user1")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestGetOrPopulateFinance(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	store.put(testFinanceBucket, "user1#apple_stock_data.csv", "Date,Close\n2024-03-01,150.5")
	require.NoError(t, e.Register(ctx, "user1"))

	// первый вызов: ровно одно чтение из object store
	entry, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "apple")
	require.NoError(t, err)
	assert.Equal(t, 1, store.getCalls)
	assert.Equal(t, "apple", entry.EntityName)

	rows, err := entry.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-01", rows[0]["Date"])
	assert.Equal(t, "150.5", rows[0]["Close"])

	// повторный вызов: попадание, блоб не перечитывается, пейлоад байт-в-байт
	again, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "apple")
	require.NoError(t, err)
	assert.Equal(t, 1, store.getCalls)
	assert.Equal(t, []byte(entry.Payload), []byte(again.Payload))
}

func TestGetOrPopulateUserNotFound(t *testing.T) {
	store := newFakeStore()
	store.put(testFinanceBucket, "ghost#apple_stock_data.csv", "Date,Close\n2024-03-01,1")
	e := newTestEngine(store, newFakeRepo())

	_, err := e.GetOrPopulate(context.Background(), "ghost", domain.DataTypeFinance, "apple")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetOrPopulateEntityNotFound(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	require.NoError(t, e.Register(ctx, "user1"))

	_, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "fakestock")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)

	// промах не оставляет частичной записи
	assert.Empty(t, repo.users["user1"])
}

func TestGetOrPopulateInvalidDataKey(t *testing.T) {
	store := newFakeStore()
	e := newTestEngine(store, newFakeRepo())

	_, err := e.GetOrPopulate(context.Background(), "user1", "fake_data_type", "apple")
	assert.ErrorIs(t, err, domain.ErrInvalidDataKey)
	// отсечение до любого I/O
	assert.Zero(t, store.getCalls)
}

func TestGetOrPopulateNewsLatestBlob(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	store.put(testNewsBucket, "apple_2023-01-01_news.csv", "company_name,article_title\napple,old")
	store.put(testNewsBucket, "apple_2023-05-10_news.csv", "company_name,article_title\napple,latest")
	store.put(testNewsBucket, "apple_2023-04-15_news.csv", "company_name,article_title\napple,mid")
	require.NoError(t, e.Register(ctx, "user1"))

	entry, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeNews, "apple")
	require.NoError(t, err)
	assert.Equal(t, "apple_2023-05-10_news.csv", entry.SourceKey)

	rows, err := entry.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "latest", rows[0]["article_title"])
}

func TestGetOrPopulateNewsNoBlobs(t *testing.T) {
	repo := newFakeRepo()
	e := newTestEngine(newFakeStore(), repo)
	ctx := context.Background()

	require.NoError(t, e.Register(ctx, "user1"))

	_, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeNews, "apple")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestGetOrPopulateRaceSecondLoses(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	store.put(testFinanceBucket, "user1#apple_stock_data.csv", "Date,Close\n2024-03-01,150.5")
	require.NoError(t, e.Register(ctx, "user1"))

	// конкурент вставляет запись между первым чтением и перепроверкой
	calls := 0
	repo.afterGetUser = func() {
		calls++
		if calls == 1 {
			repo.users["user1"] = append(repo.users["user1"], domain.CacheEntry{
				EntityName: "apple",
				DataType:   domain.DataTypeFinance,
				Payload:    []byte(`[]`),
			})
		}
	}

	_, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "apple")
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)
	// запись конкурента осталась единственной
	assert.Len(t, repo.users["user1"], 1)
}

func TestListEntitiesOrder(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	store.put(testFinanceBucket, "user1#apple_stock_data.csv", "Date,Close\n2024-03-01,1")
	store.put(testFinanceBucket, "user1#banana_stock_data.csv", "Date,Close\n2024-03-01,2")
	require.NoError(t, e.Register(ctx, "user1"))

	_, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "banana")
	require.NoError(t, err)
	_, err = e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "apple")
	require.NoError(t, err)

	names, err := e.ListEntities(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "apple"}, names)

	_, err = e.ListEntities(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteEntityTwice(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	store.put(testFinanceBucket, "user1#apple_stock_data.csv", "Date,Close\n2024-03-01,1")
	require.NoError(t, e.Register(ctx, "user1"))
	_, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeFinance, "apple")
	require.NoError(t, err)

	require.NoError(t, e.DeleteEntity(ctx, "user1", "apple"))
	// блоб-источник удалён вместе с записью
	_, ok := store.objects[testFinanceBucket]["user1#apple_stock_data.csv"]
	assert.False(t, ok)

	// повторное удаление — ошибка, а не no-op
	err = e.DeleteEntity(ctx, "user1", "apple")
	assert.ErrorIs(t, err, domain.ErrEntityNotTracked)
}

func TestDeleteEntityKeepsSharedNewsBlob(t *testing.T) {
	store := newFakeStore()
	repo := newFakeRepo()
	e := newTestEngine(store, repo)
	ctx := context.Background()

	store.put(testNewsBucket, "apple_2024-03-01_news.csv", "company_name,article_title\napple,a")
	require.NoError(t, e.Register(ctx, "user1"))
	require.NoError(t, e.Register(ctx, "user2"))
	_, err := e.GetOrPopulate(ctx, "user1", domain.DataTypeNews, "apple")
	require.NoError(t, err)

	require.NoError(t, e.DeleteEntity(ctx, "user1", "apple"))

	// новостной блоб общий: удаление записи user1 не трогает его,
	// и другие пользователи наполняются как ни в чём не бывало
	_, ok := store.objects[testNewsBucket]["apple_2024-03-01_news.csv"]
	assert.True(t, ok)

	entry, err := e.GetOrPopulate(ctx, "user2", domain.DataTypeNews, "apple")
	require.NoError(t, err)
	assert.Equal(t, "apple_2024-03-01_news.csv", entry.SourceKey)
}

func TestDeleteEntityUnknownUser(t *testing.T) {
	e := newTestEngine(newFakeStore(), newFakeRepo())

	err := e.DeleteEntity(context.Background(), "nobody", "apple")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNormalizeCSVMalformed(t *testing.T) {
	_, err := normalizeCSV([]byte("Date,Close\n\"unterminated"))
	assert.ErrorIs(t, err, domain.ErrInfra)

	_, err = normalizeCSV([]byte(""))
	assert.ErrorIs(t, err, domain.ErrInfra)
}

package redis

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyCache/internal/domain"
	"hyCache/internal/pkg/codec"
	"hyCache/internal/pkg/testutil"
)

// Интеграционные тесты с настоящим Redis в Docker (testcontainers). Контейнер поднимается
// лениво при первом таком тесте и останавливается в TestMain.
//
// Пропуск (только юнит-тесты):
//
//	go test ./... -short
var (
	containerOnce  sync.Once
	redisContainer *testutil.RedisContainer
	containerErr   error
)

func TestMain(m *testing.M) {
	code := m.Run()

	if redisContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := redisContainer.Terminate(ctx); err != nil {
			log.Printf("redis container terminate: %v", err)
		}
		cancel()
	}
	os.Exit(code)
}

func containerEndpoint(t *testing.T, db int) Endpoint {
	t.Helper()
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в short режиме")
	}

	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		redisContainer, containerErr = testutil.NewRedisContainer(ctx)
	})
	require.NoError(t, containerErr, "не удалось поднять Redis")

	ep := Endpoint{Host: redisContainer.Host, Port: redisContainer.Port, Timeout: 5000, DB: db}
	require.Equal(t, redisContainer.Addr(), ep.Addr())
	return ep
}

// setupCache подключается к тестовому Redis и очищает выбранную db.
func setupCache(t *testing.T, name string, db int, pool PoolConfig) *Cache {
	t.Helper()

	cache, err := Build(name, containerEndpoint(t, db), pool, SetStrict, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	err = cache.Template().Client().FlushDB(context.Background()).Err()
	require.NoError(t, err, "не удалось очистить Redis")
	return cache
}

type orderLine struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type discount interface {
	Apply(total int64) int64
}

type percentOff struct {
	Percent int64 `json:"percent"`
}

func (p percentOff) Apply(total int64) int64 { return total - total*p.Percent/100 }

type fixedOff struct {
	Amount int64 `json:"amount"`
}

func (f *fixedOff) Apply(total int64) int64 { return total - f.Amount }

type orderDoc struct {
	ID       string      `json:"id"`
	Lines    []orderLine `json:"lines"`
	Discount codec.Typed `json:"discount"`
}

func init() {
	codec.DefaultRegistry.MustRegister("it.order", orderDoc{})
	codec.DefaultRegistry.MustRegister("it.percentOff", percentOff{})
	codec.DefaultRegistry.MustRegister("it.fixedOff", &fixedOff{})
}

func TestIntegration_ExpireLifecycle(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	ok, err := cache.Set(ctx, "session", "token")
	require.NoError(t, err)
	require.True(t, ok)

	ttl, err := cache.GetExpire(ctx, "session")
	require.NoError(t, err)
	assert.Zero(t, ttl, "без expire ключ бессрочный")

	updated, err := cache.Expire(ctx, "session", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, updated)

	ttl, err = cache.GetExpire(ctx, "session")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 10*time.Second)

	persisted, err := cache.Persist(ctx, "session")
	require.NoError(t, err)
	assert.True(t, persisted)

	ttl, err = cache.GetExpire(ctx, "session")
	require.NoError(t, err)
	assert.Zero(t, ttl)

	updated, err = cache.Expire(ctx, "missing", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, updated, "expire на отсутствующем ключе возвращает false")

	updated, err = cache.ExpireAt(ctx, "session", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, updated)
	ttl, err = cache.GetExpire(ctx, "session")
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	ok, err = cache.SetEx(ctx, "short", 1, 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	ttl, err = cache.GetExpire(ctx, "short")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestIntegration_RoundTrip(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	in := orderDoc{
		ID:       "o-1",
		Lines:    []orderLine{{SKU: "apple", Qty: 3}},
		Discount: codec.Typed{V: &fixedOff{Amount: 50}},
	}

	values := map[string]any{
		"str":   "hello",
		"int":   int64(42),
		"float": 1.25,
		"order": in,
	}
	for key, v := range values {
		ok, err := cache.Set(ctx, key, v)
		require.NoError(t, err)
		require.True(t, ok)
	}

	for key, want := range values {
		got, found, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found, key)
		assert.Equal(t, want, got, key)
	}

	got, _, err := cache.Get(ctx, "order")
	require.NoError(t, err)
	o := got.(orderDoc)
	assert.Equal(t, int64(950), o.Discount.V.(discount).Apply(1000))

	_, found, err := cache.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIntegration_GetAndDelete(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	_, err := cache.Set(ctx, "once", percentOff{Percent: 10})
	require.NoError(t, err)

	v, found, err := cache.GetAndDelete(ctx, "once")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, percentOff{Percent: 10}, v)

	exists, err := cache.HasKey(ctx, "once")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIntegration_DeleteKeys(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, err := cache.Set(ctx, k, k)
		require.NoError(t, err)
	}

	deleted, err := cache.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	n, err := cache.DeleteKeys(ctx, "a", "b", "c", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestIntegration_IncrDecr(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	n, err := cache.Incr(ctx, "hits", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = cache.Decr(ctx, "hits", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// число, записанное через Set, можно увеличивать
	_, err = cache.Set(ctx, "stock", 10)
	require.NoError(t, err)
	n, err = cache.Incr(ctx, "stock", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	v, _, err := cache.Get(ctx, "stock")
	require.NoError(t, err)
	assert.Equal(t, int64(11), v)
}

func TestIntegration_Hash(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	require.NoError(t, cache.HSet(ctx, "user:1", "name", "alice"))
	require.NoError(t, cache.HMSet(ctx, "user:1", map[string]any{
		"age":  int64(30),
		"tags": []string{"admin", "ops"},
	}))

	v, found, err := cache.HGet(ctx, "user:1", "name")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", v)

	all, err := cache.HMGet(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "alice",
		"age":  int64(30),
		"tags": []string{"admin", "ops"},
	}, all)

	has, err := cache.HHasKey(ctx, "user:1", "age")
	require.NoError(t, err)
	assert.True(t, has)

	n, err := cache.HDelete(ctx, "user:1", "age", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	has, err = cache.HHasKey(ctx, "user:1", "age")
	require.NoError(t, err)
	assert.False(t, has)

	_, found, err = cache.HGet(ctx, "user:1", "age")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIntegration_Set(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	added, err := cache.SSet(ctx, "letters", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(3), added)

	added, err = cache.SSet(ctx, "letters", "b", "c", "a")
	require.NoError(t, err)
	assert.Zero(t, added, "повторные элементы не добавляются")

	members, err := cache.SGet(ctx, "letters")
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"a", "b", "c"}, members)

	in, err := cache.SHasKey(ctx, "letters", "b")
	require.NoError(t, err)
	assert.True(t, in)

	in, err = cache.SHasKey(ctx, "letters", "z")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestIntegration_List(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	ctx := context.Background()

	_, err := cache.LPush(ctx, "queue", "x")
	require.NoError(t, err)
	size, err := cache.RPush(ctx, "queue", "y")
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	all, err := cache.LGetAll(ctx, "queue")
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, all)

	part, err := cache.LRange(ctx, "queue", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"y"}, part)

	n, err := cache.LSize(ctx, "queue")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	last, found, err := cache.LIndex(ctx, "queue", -1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "y", last)

	_, found, err = cache.LIndex(ctx, "queue", 5)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIntegration_BackendsAreDisjoint(t *testing.T) {
	common := setupCache(t, domain.BackendCommon, 0, DefaultPoolConfig())
	order := setupCache(t, domain.BackendOrder, 1, DefaultPoolConfig())
	ctx := context.Background()

	_, err := common.Set(ctx, "shared-name", "common-value")
	require.NoError(t, err)

	exists, err := order.HasKey(ctx, "shared-name")
	require.NoError(t, err)
	assert.False(t, exists, "ключ common не должен быть виден через order")

	exists, err = common.HasKey(ctx, "shared-name")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIntegration_PoolTimeout(t *testing.T) {
	cache := setupCache(t, domain.BackendCommon, 0, PoolConfig{MaxActive: 1, MaxWait: 10})
	cli := cache.Template().Client()
	ctx := context.Background()

	// Единственное соединение занято блокирующей командой.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cli.BLPop(ctx, 2*time.Second, "never-pushed").Err()
	}()
	require.Eventually(t, func() bool {
		st := cli.PoolStats()
		return st.TotalConns == 1 && st.IdleConns == 0
	}, time.Second, 5*time.Millisecond)

	start := time.Now()
	_, err := cache.HasKey(ctx, "anything")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, KindPoolTimeout, ErrorKind(err))
	assert.Less(t, elapsed, 500*time.Millisecond, "ожидание ограничено MaxWait, а не висит")

	<-done
}

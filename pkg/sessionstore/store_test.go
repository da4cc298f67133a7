package sessionstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/lexruntime/pkg/lexruntime"
)

var flowersKey = Key{BotName: "OrderFlowers", BotAlias: "PROD", UserID: "user-42"}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	clock := &fakeClock{t: time.Unix(1700000000, 0).UTC()}

	mem, err := NewStore(StoreTypeMemory, WithClock(clock.now))
	require.NoError(t, err)
	rs, err := NewStore(StoreTypeRedis,
		WithRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
		WithRedisTTL(time.Hour),
		WithClock(clock.now))
	require.NoError(t, err)

	t.Cleanup(func() {
		mem.Close()
		rs.Close()
	})
	return map[string]Store{"memory": mem, "redis": rs}
}

func elicitFlowerType() *Snapshot {
	r := (&lexruntime.PostTextResult{}).
		WithIntentName("OrderFlowers").
		WithDialogState(lexruntime.DialogStateElicitSlot).
		WithSlotToElicit("FlowerType").
		WithSessionID("s-1").
		WithSessionAttributes(map[string]string{"channel": "web"}).
		WithActiveContexts(*lexruntime.NewActiveContext("UpsellContext").
			WithTimeToLive((&lexruntime.ActiveContextTimeToLive{}).WithTurnsToLive(3)).
			WithParameters(map[string]string{"discount": "10"}))
	return FromPostText(flowersKey, r)
}

func TestStorePutGet(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Get(ctx, flowersKey)
			assert.ErrorIs(t, err, ErrNotFound)

			changed, err := store.Put(ctx, elicitFlowerType())
			require.NoError(t, err)
			assert.True(t, changed)

			got, err := store.Get(ctx, flowersKey)
			require.NoError(t, err)
			assert.True(t, elicitFlowerType().Equal(got), "got %+v", got)
			assert.False(t, got.UpdatedAt.IsZero())
			stamped := got.UpdatedAt

			changed, err = store.Put(ctx, elicitFlowerType())
			require.NoError(t, err)
			assert.False(t, changed)
			got, err = store.Get(ctx, flowersKey)
			require.NoError(t, err)
			assert.True(t, stamped.Equal(got.UpdatedAt))

			next := &Snapshot{Key: flowersKey}
			next.DialogState.Set(lexruntime.DialogStateReadyForFulfillment)
			next.SlotToElicit.Set("")
			next.Slots.Set(map[string]string{"FlowerType": "roses"})
			changed, err = store.Put(ctx, next)
			require.NoError(t, err)
			assert.True(t, changed)

			got, err = store.Get(ctx, flowersKey)
			require.NoError(t, err)
			assert.Equal(t, lexruntime.DialogStateReadyForFulfillment, got.DialogState.Value)
			assert.Equal(t, "roses", got.Slots.Value["FlowerType"])
			assert.Equal(t, "web", got.SessionAttributes.Value["channel"])
			assert.Equal(t, "s-1", got.SessionID.Value)
			require.Equal(t, 1, got.ActiveContexts.Len())
			assert.Equal(t, int64(3), got.ActiveContexts.Value[0].TimeToLive.TurnsToLive.Value)

			require.NoError(t, store.Delete(ctx, flowersKey))
			_, err = store.Get(ctx, flowersKey)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NoError(t, store.Delete(ctx, flowersKey))
		})
	}
}

func TestStoreTurnReplacesDialogFields(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			view := (&lexruntime.GetSessionResult{}).
				WithSessionID("s-1").
				WithDialogAction(lexruntime.NewDialogAction(lexruntime.DialogActionTypeElicitSlot).
					WithIntentName("OrderFlowers").
					WithSlotToElicit("FlowerType")).
				WithRecentIntentSummaryView(*lexruntime.NewIntentSummary("OrderFlowers", lexruntime.DialogActionTypeElicitSlot))
			_, err := store.Put(ctx, FromGetSession(flowersKey, view))
			require.NoError(t, err)
			_, err = store.Put(ctx, elicitFlowerType())
			require.NoError(t, err)

			fulfilled := (&lexruntime.PostTextResult{}).
				WithSessionID("s-1").
				WithDialogState(lexruntime.DialogStateFulfilled)
			changed, err := store.Put(ctx, FromPostText(flowersKey, fulfilled))
			require.NoError(t, err)
			assert.True(t, changed)

			got, err := store.Get(ctx, flowersKey)
			require.NoError(t, err)
			assert.Equal(t, lexruntime.DialogStateFulfilled, got.DialogState.Value)
			assert.False(t, got.SlotToElicit.Valid, "slot to elicit of the previous turn is dropped")
			assert.False(t, got.IntentName.Valid)
			assert.True(t, got.Slots.IsNil())
			assert.Nil(t, got.DialogAction)
			assert.False(t, got.Turn)

			assert.Equal(t, "web", got.SessionAttributes.Value["channel"])
			assert.Equal(t, 1, got.ActiveContexts.Len())
			assert.Equal(t, 1, got.RecentIntentSummaryView.Len())
		})
	}
}

func TestStoreNewSessionResets(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.Put(ctx, elicitFlowerType())
			require.NoError(t, err)

			fresh := &Snapshot{Key: flowersKey}
			fresh.SessionID.Set("s-2")
			_, err = store.Put(ctx, fresh)
			require.NoError(t, err)

			got, err := store.Get(ctx, flowersKey)
			require.NoError(t, err)
			assert.Equal(t, "s-2", got.SessionID.Value)
			assert.True(t, got.SessionAttributes.IsNil())
			assert.True(t, got.ActiveContexts.IsNil())
		})
	}
}

func TestStoreRejectsIncompleteKey(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Put(context.Background(), &Snapshot{Key: Key{BotName: "OrderFlowers"}})
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestStoreConcurrentPuts(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					s := &Snapshot{Key: flowersKey}
					s.SessionID.Set("s-1")
					s.IntentName.Set([]string{"OrderFlowers", "CancelOrder"}[i%2])
					store.Put(ctx, s)
				}()
			}
			wg.Wait()
			got, err := store.Get(ctx, flowersKey)
			require.NoError(t, err)
			assert.Contains(t, []string{"OrderFlowers", "CancelOrder"}, got.IntentName.Value)
		})
	}
}

func TestRedisSnapshotExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewStore(StoreTypeRedis,
		WithRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
		WithRedisTTL(time.Minute),
		WithKeyPrefix("test:"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Put(context.Background(), elicitFlowerType())
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:OrderFlowers/PROD/user-42"))

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(context.Background(), flowersKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCorruptSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewStore(StoreTypeRedis, WithRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, mr.Set(defaultKeyPrefix+flowersKey.String(), "not snappy"))
	_, err = store.Get(context.Background(), flowersKey)
	assert.ErrorIs(t, err, ErrSessionStore)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewStoreErrors(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewStore("etcd")
	assert.ErrorIs(t, err, ErrInvalidStoreType)

	_, err = Open("etcd://localhost")
	assert.ErrorIs(t, err, ErrInvalidStoreType)

	s, err := Open("memory://")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = s.Get(context.Background(), flowersKey)
	assert.ErrorIs(t, err, ErrClosed)

	s, err = Open("redis://localhost:6379/2")
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

package models

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// the whole window rule in one round-trip: the key's TTL is the window,
// the DECR rolls back the overshoot so the stored hits never exceed the cap
var hitScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if hits > tonumber(ARGV[2]) then
	redis.call("DECR", KEYS[1])
	return -1
end
return hits`)

// RedisHitStore is the TTL-native alternative to MongoHitStore.
// Redis expires the record itself, so there is no lazy-expiry filter
// and no sweep to run - interchangeable with the document store.
type RedisHitStore struct {
	Client *redis.Client
}

// Hit implements HitStore
func (s *RedisHitStore) Hit(ctx context.Context, address string, window time.Duration, cap int64) (int64, bool, error) {

	hits, err := hitScript.Run(ctx, s.Client, []string{rateKey(address)}, int64(window/time.Second), cap).Int64()
	if err != nil {
		return 0, false, err
	}

	if hits < 0 {
		return cap, false, nil
	}

	return hits, true, nil
}

func rateKey(address string) string {
	return "rate_" + address
}

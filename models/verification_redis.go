package models

import (
	"context"
	"encoding/json"
	"forum-core/apperror"
	"time"

	"github.com/go-redis/redis/v8"
)

// atomic GET+DEL (GETDEL needs a newer redis than the pinned client supports)
var takeScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val then
	redis.call("DEL", KEYS[1])
end
return val`)

// tokenValue is what gets marshalled into the redis value.
// ExpiresAt rides along although redis expires the key itself - the model's
// expire-on-read check must work the same against both stores.
type tokenValue struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RedisTokenStore is the TTL-native alternative to MongoTokenStore.
// Same pattern as the token registry in the authentication package.
type RedisTokenStore struct {
	Client *redis.Client
}

// Save implements TokenStore
func (s *RedisTokenStore) Save(ctx context.Context, token string, subject string, issuedAt time.Time, expiresAt time.Time) error {

	b, err := json.Marshal(tokenValue{Subject: subject, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}

	return s.Client.Set(ctx, verifyKey(token), b, expiresAt.Sub(issuedAt)).Err()
}

// Take implements TokenStore
func (s *RedisTokenStore) Take(ctx context.Context, token string) (string, time.Time, error) {

	res, err := takeScript.Run(ctx, s.Client, []string{verifyKey(token)}).Result()
	if err != nil {
		if err == redis.Nil {
			// either never issued or already expired by redis -
			// indistinguishable here, the model reports not-found
			return "", time.Time{}, apperror.ErrNoData
		}
		return "", time.Time{}, err
	}

	val := tokenValue{}
	err = json.Unmarshal([]byte(res.(string)), &val)
	if err != nil {
		return "", time.Time{}, err
	}

	return val.Subject, val.ExpiresAt, nil
}

func verifyKey(token string) string {
	return "verify_" + token
}

package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/redis/go-redis/v9"
)

const (
	accountKeyPrefix = "session:account:"
	tokenKeyPrefix   = "session:token:"
)

// RedisStore keeps two keys per session, both expiring with the refresh
// token:
//
//	session:account:<id>   -> token
//	session:token:<token>  -> id
type RedisStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

// putScript swaps the account's token in one step. It refuses a token
// already owned by another account and returns 0 in that case.
//
//	KEYS: account key, token key   ARGV: token, account id, ttl ms, token key prefix
var putScript = redis.NewScript(`
	local owner = redis.call('GET', KEYS[2])
	if owner and owner ~= ARGV[2] then
		return 0
	end
	local prev = redis.call('GET', KEYS[1])
	if prev and prev ~= ARGV[1] then
		redis.call('DEL', ARGV[4] .. prev)
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
`)

// removeScript drops the token key, and the account key only while it
// still points at that token. It replies {account id, remaining ttl ms},
// or nil when the token is unknown.
//
//	KEYS: token key   ARGV: token, account key prefix
var removeScript = redis.NewScript(`
	local id = redis.call('GET', KEYS[1])
	if not id then
		return false
	end
	local ttl = redis.call('PTTL', KEYS[1])
	redis.call('DEL', KEYS[1])
	local account = ARGV[2] .. id
	if redis.call('GET', account) == ARGV[1] then
		redis.call('DEL', account)
	end
	return {id, ttl}
`)

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func accountKey(id string) string  { return accountKeyPrefix + id }
func tokenKey(token string) string { return tokenKeyPrefix + token }

func (s *RedisStore) Put(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session for %s already expired", accountID)
	}

	keys := []string{accountKey(accountID), tokenKey(token)}
	stored, err := putScript.Run(ctx, s.rdb, keys, token, accountID, ttl.Milliseconds(), tokenKeyPrefix).Int()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if stored == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	id, err := s.rdb.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return id, nil
}

// Remove only drops the account key when it still points at token, so a
// late logout with a superseded token cannot end the newer session.
func (s *RedisStore) Remove(ctx context.Context, token string) (*Record, error) {
	reply, err := removeScript.Run(ctx, s.rdb, []string{tokenKey(token)}, token, accountKeyPrefix).Slice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	if len(reply) != 2 {
		return nil, fmt.Errorf("redis error: unexpected reply %v", reply)
	}
	id, _ := reply[0].(string)
	ttl, _ := reply[1].(int64)

	rec := &Record{AccountID: id, Token: token}
	if ttl > 0 {
		rec.ExpiresAt = s.now().Add(time.Duration(ttl) * time.Millisecond)
	}
	return rec, nil
}

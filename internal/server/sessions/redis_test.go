package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var redisNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newRedisStoreWithMock(t *testing.T) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	s := NewRedisStore(rdb)
	s.now = func() time.Time { return redisNow }
	t.Cleanup(func() { _ = rdb.Close() })
	return s, mock
}

func expectPut(mock redismock.ClientMock, accountID, token string, ttl time.Duration) *redismock.ExpectedCmd {
	return mock.ExpectEvalSha(putScript.Hash(),
		[]string{"session:account:" + accountID, "session:token:" + token},
		token, accountID, ttl.Milliseconds(), "session:token:")
}

func expectRemove(mock redismock.ClientMock, token string) *redismock.ExpectedCmd {
	return mock.ExpectEvalSha(removeScript.Hash(), []string{"session:token:" + token}, token, "session:account:")
}

func TestRedisPut_RunsAtomicScript(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	expectPut(mock, "u1", "t1", time.Hour).SetVal(int64(1))

	require.NoError(t, s.Put(context.Background(), "u1", "t1", redisNow.Add(time.Hour)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPut_ConsecutiveRotations(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)
	ctx := context.Background()

	// each rotation is a single script call; the previous token key is
	// dropped server-side, so no read happens outside the script
	expectPut(mock, "u1", "t1", time.Hour).SetVal(int64(1))
	expectPut(mock, "u1", "t2", time.Hour).SetVal(int64(1))

	require.NoError(t, s.Put(ctx, "u1", "t1", redisNow.Add(time.Hour)))
	require.NoError(t, s.Put(ctx, "u1", "t2", redisNow.Add(time.Hour)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPut_TokenOwnedByAnotherAccount(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	expectPut(mock, "u2", "shared", time.Hour).SetVal(int64(0))

	err := s.Put(context.Background(), "u2", "shared", redisNow.Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPut_RejectsExpiredSession(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	err := s.Put(context.Background(), "u1", "t1", redisNow.Add(-time.Second))
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPut_ScriptError(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	expectPut(mock, "u1", "t1", time.Hour).SetErr(errors.New("conn reset"))

	err := s.Put(context.Background(), "u1", "t1", redisNow.Add(time.Hour))
	assert.ErrorContains(t, err, "redis error: conn reset")
}

func TestRedisGet(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)
	ctx := context.Background()

	mock.ExpectGet("session:token:t1").SetVal("u1")
	id, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	mock.ExpectGet("session:token:t0").RedisNil()
	_, err = s.Get(ctx, "t0")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectGet("session:token:tx").SetErr(errors.New("down"))
	_, err = s.Get(ctx, "tx")
	assert.ErrorContains(t, err, "redis error: down")
}

func TestRedisRemove_CurrentSession(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	expectRemove(mock, "t1").SetVal([]interface{}{"u1", int64(time.Hour / time.Millisecond)})

	rec, err := s.Remove(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, Record{AccountID: "u1", Token: "t1", ExpiresAt: redisNow.Add(time.Hour)}, *rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRemove_ExpiryUnknown(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	expectRemove(mock, "t1").SetVal([]interface{}{"u1", int64(-1)})

	rec, err := s.Remove(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u1", rec.AccountID)
	assert.True(t, rec.ExpiresAt.IsZero())
}

func TestRedisRemove_Absent(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)

	expectRemove(mock, "gone").RedisNil()

	rec, err := s.Remove(context.Background(), "gone")
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRemove_Errors(t *testing.T) {
	s, mock := newRedisStoreWithMock(t)
	ctx := context.Background()

	expectRemove(mock, "t1").SetErr(errors.New("down"))
	_, err := s.Remove(ctx, "t1")
	assert.ErrorContains(t, err, "redis error: down")

	expectRemove(mock, "t2").SetVal([]interface{}{"u1"})
	_, err = s.Remove(ctx, "t2")
	assert.ErrorContains(t, err, "unexpected reply")
}

package hotcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	c := NewRedisFromClient(db, 3600, "test:")

	mock.ExpectGet("test:k").SetVal("v")

	v, ok := c.Get(context.Background(), "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_GetMissAndError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	c := NewRedisFromClient(db, 3600, "test:")

	mock.ExpectGet("test:missing").RedisNil()
	mock.ExpectGet("test:broken").SetErr(errors.New("connection refused"))

	_, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
	_, ok = c.Get(context.Background(), "broken")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_SetWithTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	c := NewRedisFromClient(db, 60, "test:")

	mock.ExpectSet("test:k", "v", 60*time.Second).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "k", "v"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_DefaultPrefixNoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	c := NewRedisFromClient(db, 0, "")

	mock.ExpectSet("tm:k", "v", 0).SetVal("OK")
	mock.ExpectDel("tm:k").SetVal(1)

	require.NoError(t, c.Set(context.Background(), "k", "v"))
	require.NoError(t, c.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_FlushScansPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	c := NewRedisFromClient(db, 0, "test:")

	mock.ExpectScan(0, "test:*", flushBatch).SetVal([]string{"test:a", "test:b"}, 7)
	mock.ExpectDel("test:a", "test:b").SetVal(2)
	mock.ExpectScan(7, "test:*", flushBatch).SetVal([]string{}, 0)

	require.NoError(t, c.Flush(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_FlushScanError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	c := NewRedisFromClient(db, 0, "test:")

	mock.ExpectScan(0, "test:*", flushBatch).SetErr(errors.New("connection refused"))

	assert.Error(t, c.Flush(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/persistence"
	"go.uber.org/zap"
)

var _ persistence.SessionStorage = new(redisSessionStorage)

// redisSessionStorage keeps the flow state blob under one namespaced key per session,
// expiring with the key ttl.
type redisSessionStorage struct {
	*baseDao
	sessionId string
	ttl       time.Duration
}

func NewRedisSessionStorage(conf Config) *redisSessionStorage {
	return &redisSessionStorage{
		baseDao:   newBaseDao(conf),
		sessionId: conf.SessionId,
		ttl:       conf.TTL,
	}
}

func (r *redisSessionStorage) key() string {
	return r.baseDao.getNamespaceKey(persistence.FLOW_STATE_KEY, r.sessionId)
}

func (r *redisSessionStorage) Get(ctx context.Context) ([]byte, bool, error) {
	data, err := r.baseDao.redisClient.Get(ctx, r.key()).Bytes()
	if errors.Is(err, rd.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.Error("error in getting flow state", zap.String("session", r.sessionId), zap.Error(err))
		return nil, false, persistence.StorageLayerError{Message: err.Error()}
	}
	return data, true, nil
}

func (r *redisSessionStorage) Set(ctx context.Context, data []byte) error {
	if err := r.baseDao.redisClient.Set(ctx, r.key(), data, r.ttl).Err(); err != nil {
		logger.Error("error in saving flow state", zap.String("session", r.sessionId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisSessionStorage) Remove(ctx context.Context) error {
	if err := r.baseDao.redisClient.Del(ctx, r.key()).Err(); err != nil {
		logger.Error("error in deleting flow state", zap.String("session", r.sessionId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

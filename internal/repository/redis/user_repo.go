package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

// 会话 TTL，每次通过鉴权会顺延
const sessionTTL = 30 * time.Minute

// UserRepository 单活跃会话：每用户只保留最后一次登录的 access token，
// 新登录覆盖旧 token，旧会话随即失效
type UserRepository struct{}

func sessionKey(userID uint64) string {
	return "login:user:token:" + strconv.FormatUint(userID, 10)
}

func (r *UserRepository) AddUserToken(userID uint64, token string) error {
	if err := Client.Set(context.Background(), sessionKey(userID), token, sessionTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *UserRepository) GetUserToken(userID uint64) (string, error) {
	token, err := Client.Get(context.Background(), sessionKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrTokenNotFound
	case err != nil:
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *UserRepository) ExtendUserToken(userID uint64) error {
	if err := Client.Expire(context.Background(), sessionKey(userID), sessionTTL).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *UserRepository) DeleteUserToken(userID uint64) error {
	if err := Client.Del(context.Background(), sessionKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}

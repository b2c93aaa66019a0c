package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"Nova_Social/internal/model"

	"github.com/redis/go-redis/v9"
)

const NavStackPrefix = "nav:user"

// 乐观锁冲突重试次数，导航操作单用户竞争极少
const navUpdateRetries = 8

var ErrNavUnavailable = errors.New("nav store unavailable")

// NavRepository 导航栈按用户一个 key，整栈 JSON 存取，不设过期
// 读改写走 Update 的 WATCH 事务，同一用户并发操作不会互相覆盖
type NavRepository struct{}

func (r *NavRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", NavStackPrefix, userID)
}

func decodeStack(raw string) *model.NavStack {
	var stack model.NavStack
	if err := json.Unmarshal([]byte(raw), &stack); err != nil {
		// 脏数据当空栈重建
		return model.NewNavStack()
	}
	return &stack
}

// Get 不存在时返回空栈
func (r *NavRepository) Get(ctx context.Context, userID uint64) (*model.NavStack, error) {
	raw, err := Client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.NewNavStack(), nil
	}
	if err != nil {
		return nil, ErrNavUnavailable
	}
	return decodeStack(raw), nil
}

// Update 原子读改写：WATCH 住 key，提交前被别人改过就整段重试
// mutate 返回错误（如 NoHistory）时原样透传，不再写回
func (r *NavRepository) Update(ctx context.Context, userID uint64, mutate func(*model.NavStack) error) error {
	key := r.key(userID)

	txn := func(tx *redis.Tx) error {
		stack := model.NewNavStack()
		raw, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return ErrNavUnavailable
		default:
			stack = decodeStack(raw)
		}

		if err := mutate(stack); err != nil {
			return err
		}
		b, err := json.Marshal(stack)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		return err
	}

	for i := 0; i < navUpdateRetries; i++ {
		err := Client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrNavUnavailable
}

// InitEmpty 注册时初始化空栈
func (r *NavRepository) InitEmpty(ctx context.Context, userID uint64) error {
	b, err := json.Marshal(model.NewNavStack())
	if err != nil {
		return err
	}
	if err := Client.Set(ctx, r.key(userID), b, 0).Err(); err != nil {
		return ErrNavUnavailable
	}
	return nil
}

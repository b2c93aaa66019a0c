package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	VoteSetTTL       = 24 * time.Hour
	VoteCntTTL       = 24 * time.Hour
	LockTTL          = 300 * time.Millisecond
	VoteSetKeyPrefix = "vote:set:msg" // 某条消息已投票的用户ID集合
	VoteCntKeyPrefix = "vote:cnt:msg" // 某条消息的票数缓存
	LockKeyPrefix    = "lock:vote:msg"
)

// VoteCacheRepository 消息票数的读缓存，写路径先落 MySQL 再更新这里
// 缓存不可信时删 key，由读侧加锁重建
type VoteCacheRepository struct {
	voteSetTTL time.Duration
	voteCntTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewVoteCacheRepository() *VoteCacheRepository {
	return &VoteCacheRepository{
		voteSetTTL: VoteSetTTL,
		voteCntTTL: VoteCntTTL,
	}
}

func (r *VoteCacheRepository) voteSetKey(messageID uint64) string {
	return fmt.Sprintf("%s:%d", VoteSetKeyPrefix, messageID)
}
func (r *VoteCacheRepository) voteCntKey(messageID uint64) string {
	return fmt.Sprintf("%s:%d", VoteCntKeyPrefix, messageID)
}

// AddVote 写库成功后调用
func (r *VoteCacheRepository) AddVote(ctx context.Context, userID, messageID uint64) error {
	k := r.voteSetKey(messageID)
	if err := Client.SAdd(ctx, k, userID).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, k, r.voteSetTTL).Err()

	ck := r.voteCntKey(messageID)
	if err := Client.Incr(ctx, ck).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, ck, r.voteCntTTL).Err()
	return nil
}

// HasVotedCached 返回 (voted, cacheHit, err)，集合不存在按 miss 处理
func (r *VoteCacheRepository) HasVotedCached(ctx context.Context, userID, messageID uint64) (bool, bool, error) {
	k := r.voteSetKey(messageID)
	exists, err := Client.Exists(ctx, k).Result()
	if err != nil {
		return false, false, err
	}
	if exists == 0 {
		return false, false, nil
	}
	b, err := Client.SIsMember(ctx, k, userID).Result()
	return b, true, err
}

func (r *VoteCacheRepository) GetVoteCountCached(ctx context.Context, messageID uint64) (int64, bool, error) {
	ck := r.voteCntKey(messageID)
	val, err := Client.Get(ctx, ck).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetVoteCount 回源后回填
func (r *VoteCacheRepository) SetVoteCount(ctx context.Context, messageID uint64, cnt int64) error {
	ck := r.voteCntKey(messageID)
	return Client.Set(ctx, ck, cnt, r.voteCntTTL).Err()
}

// WarmHasVoted 惰性回填：只在集合已存在时写，避免无界扩张
func (r *VoteCacheRepository) WarmHasVoted(ctx context.Context, userID, messageID uint64, voted bool) {
	k := r.voteSetKey(messageID)
	if ok, _ := Client.Exists(ctx, k).Result(); ok > 0 {
		if voted {
			_ = Client.SAdd(ctx, k, userID).Err()
		}
		_ = Client.Expire(ctx, k, r.voteSetTTL).Err()
	}
}

// DeleteCount 删计数 key，可选延迟二删抵消并发回填窗口
func (r *VoteCacheRepository) DeleteCount(ctx context.Context, messageID uint64, delay ...time.Duration) error {
	key := r.voteCntKey(messageID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// Acquire 请求分布式锁
func (l *DistLock) Acquire(ctx context.Context, messageID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, messageID)
	return l.rdb().SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用 lua 保证只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, messageID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, messageID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.rdb(), []string{key}, token).Result()
	return err
}

func (l *DistLock) rdb() *redis.Client {
	if l.RDB != nil {
		return l.RDB
	}
	return Client
}

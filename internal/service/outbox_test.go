package service

import (
	"context"
	"errors"
	"testing"

	"Nova_Social/internal/model"
	"Nova_Social/internal/repository/mysql"

	"github.com/go-playground/assert/v2"
)

// memOutboxStore 内存版 outbox，List 的过滤语义与 mysql 实现一致
type memOutboxStore struct {
	rows map[uint64]*model.SocialOutbox
}

func newMemOutboxStore(rows ...*model.SocialOutbox) *memOutboxStore {
	m := &memOutboxStore{rows: map[uint64]*model.SocialOutbox{}}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memOutboxStore) List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error) {
	var out []model.SocialOutbox
	for _, r := range m.rows {
		if r.Status == 0 || (r.Status == 2 && r.Retry < mysql.OutboxMaxRetry) {
			out = append(out, *r)
		}
		if len(out) == batchSize {
			break
		}
	}
	return out, nil
}

func (m *memOutboxStore) RetryUpdate(ctx context.Context, id uint64) error {
	r := m.rows[id]
	r.Status = 2
	r.Retry++
	return nil
}

func (m *memOutboxStore) SuccessUpdate(ctx context.Context, id uint64) error {
	m.rows[id].Status = 1
	return nil
}

func TestOutboxRelayerDelivers(t *testing.T) {
	store := newMemOutboxStore(&model.SocialOutbox{ID: 1, EventType: "friend_add", UserA: 1, UserB: 2})
	var sent []uint64
	relayer := &OutboxRelayer{
		repo:      store,
		batchSize: 10,
		sender: func(ctx context.Context, ob *model.SocialOutbox) error {
			sent = append(sent, ob.ID)
			return nil
		},
	}

	relayer.drainOnce(context.Background())

	assert.Equal(t, sent, []uint64{1})
	assert.Equal(t, store.rows[1].Status, int8(1))
}

func TestOutboxRelayerRetriesFailedRows(t *testing.T) {
	store := newMemOutboxStore(&model.SocialOutbox{ID: 1, EventType: "friend_remove", UserA: 3, UserB: 4})
	attempts := 0
	relayer := &OutboxRelayer{
		repo:      store,
		batchSize: 10,
		sender: func(ctx context.Context, ob *model.SocialOutbox) error {
			attempts++
			if attempts < 3 {
				return errors.New("broker down")
			}
			return nil
		},
	}
	ctx := context.Background()

	// 两次失败后行必须还能被捞起，第三次投成
	relayer.drainOnce(ctx)
	assert.Equal(t, store.rows[1].Status, int8(2))
	assert.Equal(t, store.rows[1].Retry, 1)

	relayer.drainOnce(ctx)
	assert.Equal(t, store.rows[1].Retry, 2)

	relayer.drainOnce(ctx)
	assert.Equal(t, attempts, 3)
	assert.Equal(t, store.rows[1].Status, int8(1))
}

func TestOutboxRelayerGivesUpAfterMaxRetry(t *testing.T) {
	store := newMemOutboxStore(&model.SocialOutbox{ID: 1, EventType: "friend_add", UserA: 1, UserB: 2})
	attempts := 0
	relayer := &OutboxRelayer{
		repo:      store,
		batchSize: 10,
		sender: func(ctx context.Context, ob *model.SocialOutbox) error {
			attempts++
			return errors.New("broker down")
		},
	}
	ctx := context.Background()

	for i := 0; i < mysql.OutboxMaxRetry+3; i++ {
		relayer.drainOnce(ctx)
	}

	// 超过上限后不再捞起
	assert.Equal(t, attempts, mysql.OutboxMaxRetry)
	assert.Equal(t, store.rows[1].Retry, mysql.OutboxMaxRetry)
	assert.Equal(t, store.rows[1].Status, int8(2))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"github.com/go-playground/assert/v2"
)

// memNavStore 内存实现，Update 的语义与 redis 版一致：整段读改写原子
type memNavStore struct {
	mu     sync.Mutex
	stacks map[uint64]*model.NavStack
}

func newMemNavStore() *memNavStore {
	return &memNavStore{stacks: map[uint64]*model.NavStack{}}
}

func (m *memNavStore) load(userID uint64) *model.NavStack {
	s, ok := m.stacks[userID]
	if !ok {
		s = model.NewNavStack()
		m.stacks[userID] = s
	}
	return s
}

func (m *memNavStore) Get(ctx context.Context, userID uint64) (*model.NavStack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.load(userID)
	cp := &model.NavStack{Views: append([]string(nil), s.Views...), Cursor: s.Cursor}
	return cp, nil
}

func (m *memNavStore) Update(ctx context.Context, userID uint64, mutate func(*model.NavStack) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return mutate(m.load(userID))
}

func TestNavServicePushBackForward(t *testing.T) {
	svc := &NavService{repo: newMemNavStore()}
	ctx := context.Background()

	assert.Equal(t, svc.Push(ctx, 1, "A"), nil)
	assert.Equal(t, svc.Push(ctx, 1, "B"), nil)
	assert.Equal(t, svc.Push(ctx, 1, "C"), nil)

	v, err := svc.Back(ctx, 1)
	assert.Equal(t, err, nil)
	assert.Equal(t, v, "B")

	v, _ = svc.Back(ctx, 1)
	assert.Equal(t, v, "A")

	v, _ = svc.Forward(ctx, 1)
	assert.Equal(t, v, "B")

	cur, err := svc.Current(ctx, 1)
	assert.Equal(t, err, nil)
	assert.Equal(t, cur, "B")

	// push 截断前进历史
	assert.Equal(t, svc.Push(ctx, 1, "D"), nil)
	_, err = svc.Forward(ctx, 1)
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)
}

func TestNavServicePushRejectsEmptyView(t *testing.T) {
	svc := &NavService{repo: newMemNavStore()}
	err := svc.Push(context.Background(), 1, "")
	assert.Equal(t, errors.Is(err, pkg.ErrValidation), true)
}

func TestNavServiceConcurrentPushesLoseNothing(t *testing.T) {
	store := newMemNavStore()
	svc := &NavService{repo: store}
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = svc.Push(ctx, 7, fmt.Sprintf("view-%d", i))
		}(i)
	}
	wg.Wait()

	// 每次 push 都必须落在栈里，读改写互相覆盖会丢条目
	stack, err := store.Get(ctx, 7)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(stack.Views), n)
	assert.Equal(t, stack.Cursor, n-1)
}

func TestNavServiceErrorOnDistinctUsersIsolated(t *testing.T) {
	svc := &NavService{repo: newMemNavStore()}
	ctx := context.Background()

	assert.Equal(t, svc.Push(ctx, 1, "A"), nil)

	// 用户 2 的空栈不受用户 1 影响
	_, err := svc.Back(ctx, 2)
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)
}

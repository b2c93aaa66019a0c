package service

import (
	"context"
	"fmt"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/redis"
)

// navStore 栈的存取；Update 必须对同一用户的并发读改写保持原子
type navStore interface {
	Get(ctx context.Context, userID uint64) (*model.NavStack, error)
	Update(ctx context.Context, userID uint64, mutate func(*model.NavStack) error) error
}

// NavService 服务端保存的浏览历史，标准浏览器语义：
// push 截断前进历史，back/forward 移动游标
// 所有变更都走 store 的原子 Update，同一用户并发操作不会丢更新
type NavService struct {
	repo navStore
}

func NewNavService() *NavService {
	return &NavService{repo: &redis.NavRepository{}}
}

func (s *NavService) Push(ctx context.Context, userID uint64, view string) error {
	if view == "" {
		return fmt.Errorf("%w: empty view", pkg.ErrValidation)
	}
	return s.repo.Update(ctx, userID, func(stack *model.NavStack) error {
		stack.Push(view)
		return nil
	})
}

func (s *NavService) Back(ctx context.Context, userID uint64) (string, error) {
	var view string
	err := s.repo.Update(ctx, userID, func(stack *model.NavStack) error {
		v, err := stack.Back()
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	return view, err
}

func (s *NavService) Forward(ctx context.Context, userID uint64) (string, error) {
	var view string
	err := s.repo.Update(ctx, userID, func(stack *model.NavStack) error {
		v, err := stack.Forward()
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	return view, err
}

// Current 只读当前视图
func (s *NavService) Current(ctx context.Context, userID uint64) (string, error) {
	stack, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return stack.Current()
}

package model

import "Nova_Social/internal/pkg"

// NavStackLimit 单用户导航栈上限，超出时淘汰最旧的记录
const NavStackLimit = 100

// NavStack 浏览器式前进/后退历史：有序视图序列 + 游标
// push 会截断游标之后的前进历史，再把新视图追加到末尾
type NavStack struct {
	Views  []string `json:"views"`
	Cursor int      `json:"cursor"` // 当前视图下标，空栈为 -1
}

func NewNavStack() *NavStack {
	return &NavStack{Views: []string{}, Cursor: -1}
}

func (s *NavStack) Push(view string) {
	s.Views = append(s.Views[:s.Cursor+1], view)
	s.Cursor = len(s.Views) - 1
	if len(s.Views) > NavStackLimit {
		drop := len(s.Views) - NavStackLimit
		s.Views = s.Views[drop:]
		s.Cursor -= drop
	}
}

func (s *NavStack) Back() (string, error) {
	if s.Cursor <= 0 {
		return "", pkg.ErrNoHistory
	}
	s.Cursor--
	return s.Views[s.Cursor], nil
}

func (s *NavStack) Forward() (string, error) {
	if s.Cursor >= len(s.Views)-1 {
		return "", pkg.ErrNoHistory
	}
	s.Cursor++
	return s.Views[s.Cursor], nil
}

func (s *NavStack) Current() (string, error) {
	if s.Cursor < 0 || s.Cursor >= len(s.Views) {
		return "", pkg.ErrNoHistory
	}
	return s.Views[s.Cursor], nil
}

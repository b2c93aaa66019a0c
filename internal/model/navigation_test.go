package model

import (
	"errors"
	"fmt"
	"testing"

	"Nova_Social/internal/pkg"

	"github.com/go-playground/assert/v2"
)

func TestNavStackEmpty(t *testing.T) {
	s := NewNavStack()

	_, err := s.Current()
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)
	_, err = s.Back()
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)
	_, err = s.Forward()
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)
}

func TestNavStackBackForward(t *testing.T) {
	s := NewNavStack()
	s.Push("A")
	s.Push("B")
	s.Push("C")

	cur, err := s.Current()
	assert.Equal(t, err, nil)
	assert.Equal(t, cur, "C")

	v, _ := s.Back()
	assert.Equal(t, v, "B")
	v, _ = s.Back()
	assert.Equal(t, v, "A")

	// 已到栈底
	_, err = s.Back()
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)

	v, _ = s.Forward()
	assert.Equal(t, v, "B")
	v, _ = s.Forward()
	assert.Equal(t, v, "C")

	// 已到栈顶
	_, err = s.Forward()
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)
}

func TestNavStackPushTruncatesForward(t *testing.T) {
	s := NewNavStack()
	s.Push("A")
	s.Push("B")
	s.Push("C")
	s.Back() // 游标在 B
	s.Push("D")

	// C 的前进历史被截断
	_, err := s.Forward()
	assert.Equal(t, errors.Is(err, pkg.ErrNoHistory), true)

	cur, _ := s.Current()
	assert.Equal(t, cur, "D")

	v, _ := s.Back()
	assert.Equal(t, v, "B")
	v, _ = s.Back()
	assert.Equal(t, v, "A")
}

func TestNavStackEvictsOldest(t *testing.T) {
	s := NewNavStack()
	for i := 0; i < NavStackLimit+10; i++ {
		s.Push(fmt.Sprintf("view-%d", i))
	}

	assert.Equal(t, len(s.Views), NavStackLimit)

	cur, _ := s.Current()
	assert.Equal(t, cur, fmt.Sprintf("view-%d", NavStackLimit+9))

	// 一路退到底，最旧的应是被淘汰后的第一条
	var last string
	for {
		v, err := s.Back()
		if err != nil {
			break
		}
		last = v
	}
	assert.Equal(t, last, "view-10")
}

package model

import (
	"errors"
	"testing"

	"Nova_Social/internal/pkg"

	"github.com/go-playground/assert/v2"
)

func TestNewPollStateValidation(t *testing.T) {
	_, err := NewPollState("", []string{"a", "b"})
	assert.Equal(t, errors.Is(err, pkg.ErrValidation), true)

	_, err = NewPollState("q", []string{"only"})
	assert.Equal(t, errors.Is(err, pkg.ErrValidation), true)

	p, err := NewPollState("q", []string{"a", "b", "c"})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(p.Counts), 3)
	assert.Equal(t, p.TotalVotes(), int64(0))
}

func TestPollVoteAndSwitch(t *testing.T) {
	p, _ := NewPollState("晚饭吃什么", []string{"火锅", "烧烤"})

	changed, err := p.Vote(1, 0)
	assert.Equal(t, err, nil)
	assert.Equal(t, changed, true)
	assert.Equal(t, p.Counts[0], int64(1))

	// 重复选同一项是 no-op
	changed, err = p.Vote(1, 0)
	assert.Equal(t, err, nil)
	assert.Equal(t, changed, false)
	assert.Equal(t, p.Counts[0], int64(1))

	// 换选项：旧票转移，不是叠加
	changed, err = p.Vote(1, 1)
	assert.Equal(t, err, nil)
	assert.Equal(t, changed, true)
	assert.Equal(t, p.Counts[0], int64(0))
	assert.Equal(t, p.Counts[1], int64(1))

	changed, _ = p.Vote(2, 1)
	assert.Equal(t, changed, true)

	// 票数之和 == 参与人数
	assert.Equal(t, p.TotalVotes(), int64(2))
	assert.Equal(t, len(p.Votes), 2)
}

func TestPollVoteOptionOutOfRange(t *testing.T) {
	p, _ := NewPollState("q", []string{"a", "b"})

	_, err := p.Vote(1, -1)
	assert.Equal(t, errors.Is(err, pkg.ErrValidation), true)

	_, err = p.Vote(1, 2)
	assert.Equal(t, errors.Is(err, pkg.ErrValidation), true)
	assert.Equal(t, p.TotalVotes(), int64(0))
}

func TestPollRoundTrip(t *testing.T) {
	p, _ := NewPollState("q", []string{"a", "b"})
	p.Vote(7, 1)

	got, err := UnmarshalPoll(p.Marshal())
	assert.Equal(t, err, nil)
	assert.Equal(t, got.Question, "q")
	assert.Equal(t, got.Counts[1], int64(1))
	assert.Equal(t, got.Votes[7], 1)

	_, err = UnmarshalPoll("{not json")
	assert.Equal(t, errors.Is(err, pkg.ErrState), true)
}

func TestValidMsgType(t *testing.T) {
	assert.Equal(t, ValidMsgType(MsgTypeText), true)
	assert.Equal(t, ValidMsgType(MsgTypePoll), true)
	assert.Equal(t, ValidMsgType("video"), false)
	assert.Equal(t, ValidMsgType(""), false)
}

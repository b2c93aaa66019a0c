package service

import (
	"strings"
	"testing"

	"Nova_Social/internal/model"

	"github.com/go-playground/assert/v2"
)

func TestDMExcerpt(t *testing.T) {
	assert.Equal(t, dmExcerpt(&model.DirectMessage{Type: model.MsgTypeText, Content: "hello"}), "hello")
	assert.Equal(t, dmExcerpt(&model.DirectMessage{Type: model.MsgTypeImage}), "[image]")
	assert.Equal(t, dmExcerpt(&model.DirectMessage{Type: model.MsgTypeAudio}), "[audio]")

	// 媒体消息带文字说明时优先显示文字
	assert.Equal(t, dmExcerpt(&model.DirectMessage{Type: model.MsgTypeImage, Content: "看这个"}), "看这个")

	// 超长按字符数截断，不会把多字节字符劈开
	long := strings.Repeat("好", dmExcerptLen+20)
	got := dmExcerpt(&model.DirectMessage{Type: model.MsgTypeText, Content: long})
	assert.Equal(t, len([]rune(got)), dmExcerptLen)
}

func TestDirectThreadPeer(t *testing.T) {
	th := &model.DirectThread{UserLow: 3, UserHigh: 9}

	assert.Equal(t, th.Peer(3), uint64(9))
	assert.Equal(t, th.Peer(9), uint64(3))
	assert.Equal(t, th.Involves(3), true)
	assert.Equal(t, th.Involves(9), true)
	assert.Equal(t, th.Involves(4), false)
}

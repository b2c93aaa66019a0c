package mysql

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestWindowBoundsTailAnchored(t *testing.T) {
	// 120 条消息，offset=0 取最新 50 条：按旧→新数要跳过 70 条
	skip, count := WindowBounds(120, 0, 50)
	assert.Equal(t, skip, int64(70))
	assert.Equal(t, count, int64(50))

	// 下一页再往旧翻 50 条
	skip, count = WindowBounds(120, 50, 50)
	assert.Equal(t, skip, int64(20))
	assert.Equal(t, count, int64(50))

	// 最后一窗越过最旧端，只剩 20 条
	skip, count = WindowBounds(120, 100, 50)
	assert.Equal(t, skip, int64(0))
	assert.Equal(t, count, int64(20))
}

func TestWindowBoundsEdges(t *testing.T) {
	// offset 超出总量
	skip, count := WindowBounds(10, 10, 5)
	assert.Equal(t, skip, int64(0))
	assert.Equal(t, count, int64(0))

	// 空社区
	skip, count = WindowBounds(0, 0, 50)
	assert.Equal(t, count, int64(0))

	// limit 大于总量
	skip, count = WindowBounds(3, 0, 50)
	assert.Equal(t, skip, int64(0))
	assert.Equal(t, count, int64(3))

	// 非法入参
	_, count = WindowBounds(10, -1, 5)
	assert.Equal(t, count, int64(0))
	_, count = WindowBounds(10, 0, 0)
	assert.Equal(t, count, int64(0))
}

func TestWindowBoundsStableUnderAppend(t *testing.T) {
	// 翻页途中有新消息追加：同一 offset 锚定的窗口整体左移，
	// 窗口内容（按绝对位置）不会跳行或重复
	skip1, _ := WindowBounds(120, 50, 50)
	skip2, _ := WindowBounds(125, 55, 50)
	assert.Equal(t, skip1, skip2)
}

package graph

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestAddEdgeIdempotent(t *testing.T) {
	g := New()

	assert.Equal(t, g.AddEdge(1, 2), true)
	assert.Equal(t, g.AddEdge(1, 2), false)
	assert.Equal(t, g.AddEdge(2, 1), false)
	assert.Equal(t, g.AddEdge(1, 1), false)

	assert.Equal(t, g.HasEdge(1, 2), true)
	assert.Equal(t, g.HasEdge(2, 1), true)
	assert.Equal(t, g.Friends(1), []uint64{2})
}

func TestDegreeBFS(t *testing.T) {
	g := New()
	// 链：1-2-3-4-5
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.AddEdge(4, 5)

	d, ok := g.Degree(1, 1)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, 0)

	d, ok = g.Degree(1, 2)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, 1)

	d, ok = g.Degree(1, 3)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, 2)

	d, ok = g.Degree(1, 4)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, 3)

	// 4 度超出搜索上限
	_, ok = g.Degree(1, 5)
	assert.Equal(t, ok, false)

	// 不连通
	_, ok = g.Degree(1, 99)
	assert.Equal(t, ok, false)
}

func TestDegreePrefersShortestPath(t *testing.T) {
	g := New()
	// 1-2-4 与 1-3-5-4 两条路，应取短的那条
	g.AddEdge(1, 2)
	g.AddEdge(2, 4)
	g.AddEdge(1, 3)
	g.AddEdge(3, 5)
	g.AddEdge(5, 4)

	d, ok := g.Degree(1, 4)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, 2)
}

func TestConnectionsAtDegree(t *testing.T) {
	g := New()
	// 1-2, 1-3, 2-4, 3-4, 4-5
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)
	g.AddEdge(3, 4)
	g.AddEdge(4, 5)

	assert.Equal(t, g.ConnectionsAtDegree(1, 1), []uint64{2, 3})
	// 4 同时经 2 和 3 可达，只算一次最短距离
	assert.Equal(t, g.ConnectionsAtDegree(1, 2), []uint64{4})
	assert.Equal(t, g.ConnectionsAtDegree(1, 3), []uint64{5})

	// 非法/超限深度
	assert.Equal(t, len(g.ConnectionsAtDegree(1, 0)), 0)
	assert.Equal(t, len(g.ConnectionsAtDegree(1, DegreeCap+1)), 0)
	// 孤立用户
	assert.Equal(t, len(g.ConnectionsAtDegree(99, 1)), 0)
}

func TestMutualCountMaintained(t *testing.T) {
	g := New()
	// 1 和 2 的共同好友是 10、11
	g.AddEdge(1, 10)
	g.AddEdge(1, 11)
	g.AddEdge(2, 10)
	g.AddEdge(2, 11)

	assert.Equal(t, g.MutualCount(1, 2), 2)
	assert.Equal(t, g.MutualCount(2, 1), 2)

	g.RemoveEdge(2, 11)
	assert.Equal(t, g.MutualCount(1, 2), 1)

	g.RemoveEdge(2, 10)
	assert.Equal(t, g.MutualCount(1, 2), 0)
}

func TestRecommendOrdering(t *testing.T) {
	g := New()
	// 1 的好友：10、11、12
	g.AddEdge(1, 10)
	g.AddEdge(1, 11)
	g.AddEdge(1, 12)
	// 候选 2 有三个共同好友，候选 3 和 4 各一个
	g.AddEdge(2, 10)
	g.AddEdge(2, 11)
	g.AddEdge(2, 12)
	g.AddEdge(3, 10)
	g.AddEdge(4, 10)

	recs := g.Recommend(1, nil, RecommendOptions{MutualWeight: 1}, nil)

	// 共同好友数降序，同分按 id 升序
	assert.Equal(t, len(recs) >= 3, true)
	assert.Equal(t, recs[0].UserID, uint64(2))
	assert.Equal(t, recs[0].Mutuals, 3)
	assert.Equal(t, recs[1].UserID, uint64(3))
	assert.Equal(t, recs[2].UserID, uint64(4))
}

func TestRecommendExcludesFriendsAndPending(t *testing.T) {
	g := New()
	g.AddEdge(1, 10)
	g.AddEdge(2, 10)
	g.AddEdge(3, 10)

	// 2 已经是好友，3 有在途申请
	g.AddEdge(1, 2)
	exclude := map[uint64]struct{}{3: {}}

	recs := g.Recommend(1, exclude, RecommendOptions{MutualWeight: 1}, nil)
	for _, r := range recs {
		assert.Equal(t, r.UserID != uint64(2), true)
		assert.Equal(t, r.UserID != uint64(3), true)
		assert.Equal(t, r.UserID != uint64(1), true)
	}
}

func TestRecommendKarmaWeight(t *testing.T) {
	g := New()
	g.AddEdge(1, 10)
	g.AddEdge(2, 10)
	g.AddEdge(3, 10)

	karma := func(id uint64) int64 {
		if id == 3 {
			return 100
		}
		return 0
	}
	recs := g.Recommend(1, nil, RecommendOptions{MutualWeight: 1, KarmaWeight: 0.1}, karma)

	assert.Equal(t, recs[0].UserID, uint64(3))
	assert.Equal(t, recs[1].UserID, uint64(2))
}

func TestRecommendLimit(t *testing.T) {
	g := New()
	g.AddEdge(1, 10)
	for cand := uint64(2); cand <= 8; cand++ {
		g.AddEdge(cand, 10)
	}
	recs := g.Recommend(1, nil, RecommendOptions{MutualWeight: 1, Limit: 3}, nil)
	assert.Equal(t, len(recs), 3)
}

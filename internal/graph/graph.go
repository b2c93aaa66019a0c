package graph

import (
	"sort"
	"sync"
)

// DegreeCap BFS 搜索深度上限，对应 UI 的 1/2/3 度徽标
const DegreeCap = 3

// Graph 好友关系的内存邻接索引，启动时从库里灌入，之后随边的增删维护
// 共同好友计数随边增量维护，推荐查询不需要重扫全图
type Graph struct {
	mu     sync.RWMutex
	adj    map[uint64]map[uint64]struct{}
	mutual map[uint64]map[uint64]int // mutual[a][b] = a、b 的共同好友数
}

func New() *Graph {
	return &Graph{
		adj:    map[uint64]map[uint64]struct{}{},
		mutual: map[uint64]map[uint64]int{},
	}
}

func (g *Graph) ensure(id uint64) map[uint64]struct{} {
	n, ok := g.adj[id]
	if !ok {
		n = map[uint64]struct{}{}
		g.adj[id] = n
	}
	return n
}

// AddEdge 幂等加边，返回是否真的新增
func (g *Graph) AddEdge(a, b uint64) bool {
	if a == b {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	na := g.ensure(a)
	if _, ok := na[b]; ok {
		return false
	}
	nb := g.ensure(b)

	// 新边 (a,b)：a 的每个既有好友 c 与 b 多了一个共同好友，反之亦然
	for c := range na {
		g.bumpMutual(b, c, +1)
	}
	for c := range nb {
		g.bumpMutual(a, c, +1)
	}

	na[b] = struct{}{}
	nb[a] = struct{}{}
	return true
}

// RemoveEdge 幂等删边
func (g *Graph) RemoveEdge(a, b uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, ok := g.adj[a]
	if !ok {
		return false
	}
	if _, ok := na[b]; !ok {
		return false
	}
	nb := g.adj[b]

	delete(na, b)
	delete(nb, a)

	for c := range na {
		g.bumpMutual(b, c, -1)
	}
	for c := range nb {
		g.bumpMutual(a, c, -1)
	}
	return true
}

func (g *Graph) bumpMutual(a, b uint64, delta int) {
	if a == b {
		return
	}
	g.bumpMutualOne(a, b, delta)
	g.bumpMutualOne(b, a, delta)
}

func (g *Graph) bumpMutualOne(a, b uint64, delta int) {
	m, ok := g.mutual[a]
	if !ok {
		if delta <= 0 {
			return
		}
		m = map[uint64]int{}
		g.mutual[a] = m
	}
	m[b] += delta
	if m[b] <= 0 {
		delete(m, b)
	}
}

func (g *Graph) HasEdge(a, b uint64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adj[a][b]
	return ok
}

// Friends 返回排序后的好友 id 列表
func (g *Graph) Friends(id uint64) []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]uint64, 0, len(g.adj[id]))
	for f := range g.adj[id] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Degree 从 a 出发 BFS 求到 b 的最短路径长度，深度不超过 DegreeCap
// 够不到返回 (0, false)；a==b 返回 (0, true)
func (g *Graph) Degree(a, b uint64) (int, bool) {
	if a == b {
		return 0, true
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.adj[a]; !ok {
		return 0, false
	}

	type node struct {
		id    uint64
		depth int
	}
	queue := []node{{a, 0}}
	visited := map[uint64]struct{}{a: {}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id == b {
			return cur.depth, true
		}
		// 超过 3 度不再扩展
		if cur.depth >= DegreeCap {
			continue
		}
		for next := range g.adj[cur.id] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, node{next, cur.depth + 1})
		}
	}
	return 0, false
}

// ConnectionsAtDegree 返回与 a 最短距离恰为 degree 的全部用户 id，升序
// degree 超出 DegreeCap 或不合法时返回空
func (g *Graph) ConnectionsAtDegree(a uint64, degree int) []uint64 {
	if degree <= 0 || degree > DegreeCap {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.adj[a]; !ok {
		return nil
	}

	type node struct {
		id    uint64
		depth int
	}
	queue := []node{{a, 0}}
	visited := map[uint64]struct{}{a: {}}
	var out []uint64

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth == degree {
			out = append(out, cur.id)
			continue
		}
		for next := range g.adj[cur.id] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, node{next, cur.depth + 1})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RecommendOptions 打分权重可配置：共同好友数为主，karma 默认不计入
type RecommendOptions struct {
	MutualWeight float64
	KarmaWeight  float64
	Limit        int
}

type Recommendation struct {
	UserID  uint64
	Mutuals int
	Score   float64
}

// Recommend 好友的好友去掉已有好友/自己/exclude 集合（pending 申请的对端），
// 按分数降序排列，同分按 id 升序保证确定性
func (g *Graph) Recommend(userID uint64, exclude map[uint64]struct{}, opts RecommendOptions, karma func(uint64) int64) []Recommendation {
	if opts.MutualWeight == 0 && opts.KarmaWeight == 0 {
		opts.MutualWeight = 1
	}

	g.mu.RLock()
	friends := g.adj[userID]
	out := make([]Recommendation, 0, len(g.mutual[userID]))
	for cand, mutuals := range g.mutual[userID] {
		if cand == userID {
			continue
		}
		if _, isFriend := friends[cand]; isFriend {
			continue
		}
		if _, skip := exclude[cand]; skip {
			continue
		}
		score := opts.MutualWeight * float64(mutuals)
		if opts.KarmaWeight != 0 && karma != nil {
			score += opts.KarmaWeight * float64(karma(cand))
		}
		out = append(out, Recommendation{UserID: cand, Mutuals: mutuals, Score: score})
	}
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// MutualCount 两用户的共同好友数
func (g *Graph) MutualCount(a, b uint64) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mutual[a][b]
}

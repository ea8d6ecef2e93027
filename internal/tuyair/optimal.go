// internal/tuyair/optimal.go

package tuyair

import "bytes"

// pathStep 最短路径表中的一项：到达该位置的最小代价，以及最后一条边
type pathStep struct {
	cost     int
	length   int
	distance int // 0 表示字面块
	reached  bool
}

// costGraph 节点 i 表示前 i 个字节已编码。
// 字节顺序就是拓扑序，所以前向动态规划即可得到最短路径。
type costGraph struct {
	steps []pathStep
}

func newCostGraph(n int) *costGraph {
	g := &costGraph{steps: make([]pathStep, n+1)}
	g.steps[0].reached = true
	return g
}

// relax 从 pos 出发、代价为 cost 的边；代价相同保留先加入的边
func (g *costGraph) relax(pos, cost, length, distance int) {
	cost += g.steps[pos].cost
	next := &g.steps[pos+length]
	if !next.reached || cost < next.cost {
		*next = pathStep{cost: cost, length: length, distance: distance, reached: true}
	}
}

type pathEdge struct {
	pos, length, distance int
}

// path 从终点沿前驱回溯，返回正序的边
func (g *costGraph) path() []pathEdge {
	var edges []pathEdge
	for pos := len(g.steps) - 1; pos > 0; {
		step := g.steps[pos]
		pos -= step.length
		edges = append(edges, pathEdge{pos: pos, length: step.length, distance: step.distance})
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return edges
}

// distanceBlockCost 距离块的编码字节数
func distanceBlockCost(length int) int {
	if length < 9 {
		return 2
	}
	return 3
}

func compressOptimal(out *bytes.Buffer, data []byte, m *matcher) {
	n := len(data)
	g := newCostGraph(n)
	for pos := 0; pos < n; pos++ {
		if length, distance := m.longestMatch(pos); length >= MinMatch {
			for l := MinMatch; l <= length; l++ {
				g.relax(pos, distanceBlockCost(l), l, distance)
			}
		}
		for l := 1; l <= min(MaxLiteral, n-pos); l++ {
			g.relax(pos, 1+l, l, 0)
		}
	}

	for _, e := range g.path() {
		if e.distance == 0 {
			emitLiteralBlock(out, data[e.pos:e.pos+e.length])
		} else {
			emitDistanceBlock(out, e.length, e.distance)
		}
	}
}

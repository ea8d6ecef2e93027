// internal/tuyair/window.go

package tuyair

import (
	"bytes"
	"slices"
	"sort"
)

// suffixWindow 滑动窗口内起点的有序集合，按从该起点开始的后缀字典序排序。
// 与当前位置字典序相邻的后缀就是最长匹配的候选。
type suffixWindow struct {
	data   []byte
	size   int
	next   int   // 下一个待插入的位置
	sorted []int // 窗口内的起点
	last   int   // 最近一次插入在 sorted 中的下标
}

func newSuffixWindow(data []byte, size int) *suffixWindow {
	return &suffixWindow{
		data:   data,
		size:   size,
		sorted: make([]int, 0, min(size, len(data))),
	}
}

func (w *suffixWindow) suffix(p int) []byte {
	return w.data[p:]
}

// upperBound 第一个后缀严格大于 p 的下标
func (w *suffixWindow) upperBound(p int) int {
	key := w.suffix(p)
	return sort.Search(len(w.sorted), func(i int) bool {
		return bytes.Compare(w.suffix(w.sorted[i]), key) > 0
	})
}

func (w *suffixWindow) insert(p int) int {
	idx := w.upperBound(p)
	w.sorted = slices.Insert(w.sorted, idx, p)
	return idx
}

// evict 移除窗口外的起点 p
func (w *suffixWindow) evict(p int) {
	key := w.suffix(p)
	idx := sort.Search(len(w.sorted), func(i int) bool {
		return bytes.Compare(w.suffix(w.sorted[i]), key) >= 0
	})
	invariant(idx < len(w.sorted) && w.sorted[idx] == p, "position %d not in window", p)
	w.sorted = slices.Delete(w.sorted, idx, idx+1)
}

// advance 把 pos 及之前尚未插入的位置加入窗口，窗口满时先移除最旧的位置
func (w *suffixWindow) advance(pos int) {
	for w.next <= pos {
		if len(w.sorted) == w.size {
			w.evict(w.next - w.size)
		}
		w.last = w.insert(w.next)
		w.next++
	}
}

// candidates 返回 pos 的候选距离：先取字典序后继，再取前驱
func (w *suffixWindow) candidates(pos int) []int {
	w.advance(pos)
	distances := make([]int, 0, 2)
	for _, i := range [2]int{w.last + 1, w.last - 1} {
		if i >= 0 && i < len(w.sorted) {
			distances = append(distances, pos-w.sorted[i])
		}
	}
	return distances
}

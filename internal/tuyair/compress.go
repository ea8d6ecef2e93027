// internal/tuyair/compress.go

package tuyair

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Level 压缩等级
type Level int

const (
	// LevelCopy 只输出字面块，不压缩（约 3.1% 开销）
	LevelCopy Level = iota
	// LevelGreedyFirst 贪心，使用找到的第一个长度≥3的匹配
	LevelGreedyFirst
	// LevelGreedyBest 贪心，使用后缀索引找到的最长匹配（默认）
	LevelGreedyBest
	// LevelOptimal 最短路径最优压缩，最坏 O(n^3)，只适合小数据
	LevelOptimal
)

// DefaultLevel 默认压缩等级
const DefaultLevel = LevelGreedyBest

// 块格式限制
const (
	WindowSize = 1 << 13 // 回溯窗口
	MaxLiteral = 1 << 5  // 字面块最大长度
	MinMatch   = 3
	MaxMatch   = 255 + 9
)

var levelNames = map[Level]string{
	LevelCopy:        "copy",
	LevelGreedyFirst: "greedy-first",
	LevelGreedyBest:  "greedy-best",
	LevelOptimal:     "optimal",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Valid 等级是否在 0-3 之间
func (l Level) Valid() bool {
	return l >= LevelCopy && l <= LevelOptimal
}

// ParseLevel 解析压缩等级
func ParseLevel(s string) (Level, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Level(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return Level(n), nil
}

// Compress 按指定等级把数据压缩为 Tuya 块流
func Compress(data []byte, level Level) []byte {
	var out bytes.Buffer
	CompressTo(&out, data, level)
	return out.Bytes()
}

// CompressTo 把压缩结果写入 out。所有等级的输出都能无损还原出 data，
// 区别只在于输出大小和耗时。
func CompressTo(out *bytes.Buffer, data []byte, level Level) {
	m := &matcher{data: data}
	switch level {
	case LevelCopy:
		emitLiteralBlocks(out, data)
	case LevelGreedyFirst:
		compressGreedy(out, data, m.firstMatch)
	case LevelGreedyBest:
		w := newSuffixWindow(data, WindowSize)
		compressGreedy(out, data, func(pos int) (int, int) {
			return m.bestOf(pos, w.candidates(pos))
		})
	case LevelOptimal:
		compressOptimal(out, data, m)
	default:
		invariant(false, "compression level %d", level)
	}
}

func emitLiteralBlocks(out *bytes.Buffer, data []byte) {
	for i := 0; i < len(data); i += MaxLiteral {
		emitLiteralBlock(out, data[i:min(i+MaxLiteral, len(data))])
	}
}

// emitLiteralBlock 首字节为 长度-1，后跟原始字节
func emitLiteralBlock(out *bytes.Buffer, data []byte) {
	length := len(data) - 1
	invariant(length >= 0 && length < MaxLiteral, "literal block of %d bytes", len(data))
	out.WriteByte(byte(length))
	out.Write(data)
}

// emitDistanceBlock 高 3 位为长度字段，低 13 位为 distance-1；
// 长度字段为 7 时中间多一个字节保存剩余长度。
func emitDistanceBlock(out *bytes.Buffer, length, distance int) {
	distance--
	invariant(distance >= 0 && distance < WindowSize, "distance %d", distance+1)
	length -= 2
	invariant(length > 0, "match length %d", length+2)
	if length >= 7 {
		invariant(length-7 < 1<<8, "match length %d", length+2)
		out.WriteByte(byte(7<<5 | distance>>8))
		out.WriteByte(byte(length - 7))
	} else {
		out.WriteByte(byte(length<<5 | distance>>8))
	}
	out.WriteByte(byte(distance))
}

// compressGreedy 等级 1 和 2 共用的主循环
func compressGreedy(out *bytes.Buffer, data []byte, find func(pos int) (length, distance int)) {
	blockStart, pos := 0, 0
	for pos < len(data) {
		if length, distance := find(pos); length >= MinMatch {
			emitLiteralBlocks(out, data[blockStart:pos])
			emitDistanceBlock(out, length, distance)
			pos += length
			blockStart = pos
		} else {
			pos++
		}
	}
	emitLiteralBlocks(out, data[blockStart:pos])
}

// matcher 在窗口内比较匹配长度
type matcher struct {
	data []byte
}

// matchLength 从 pos 开始与 start 开始的数据逐字节比较
func (m *matcher) matchLength(pos, start int) int {
	limit := min(MaxMatch, len(m.data)-pos)
	length := 0
	for length < limit && m.data[pos+length] == m.data[start+length] {
		length++
	}
	return length
}

// firstMatch 按距离从小到大搜索，返回第一个长度≥3的匹配
func (m *matcher) firstMatch(pos int) (int, int) {
	for d := 1; d <= min(pos, WindowSize); d++ {
		if length := m.matchLength(pos, pos-d); length >= MinMatch {
			return length, d
		}
	}
	return 0, 0
}

// longestMatch 搜索窗口内全部距离，返回最长匹配，长度相同取距离最小
func (m *matcher) longestMatch(pos int) (int, int) {
	bestLength, bestDistance := 0, 0
	for d := 1; d <= min(pos, WindowSize); d++ {
		if length := m.matchLength(pos, pos-d); length > bestLength {
			bestLength, bestDistance = length, d
		}
	}
	return bestLength, bestDistance
}

// bestOf 在给定距离候选中取最长匹配，长度相同取距离最小
func (m *matcher) bestOf(pos int, distances []int) (int, int) {
	bestLength, bestDistance := 0, 0
	for _, d := range distances {
		length := m.matchLength(pos, pos-d)
		if length > bestLength || (length == bestLength && d < bestDistance) {
			bestLength, bestDistance = length, d
		}
	}
	return bestLength, bestDistance
}

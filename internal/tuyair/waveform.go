// internal/tuyair/waveform.go

package tuyair

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Timing 脉冲时序描述，每一项是以逗号/空格/分号/加号/减号分隔的微秒时长
type Timing struct {
	Header string `json:"header" yaml:"header"`
	One    string `json:"one" yaml:"one"`
	Zero   string `json:"zero" yaml:"zero"`
	Gap    string `json:"gap" yaml:"gap"`
}

// FollowMeTiming FollowMe 协议固定时序（微秒）
var FollowMeTiming = Timing{
	Header: "4497,4497",
	One:    "588,1657",
	Zero:   "588,588",
	Gap:    "588,5601",
}

// Waveform 解析后的时序
type Waveform struct {
	Header []int
	One    []int
	Zero   []int
	Gap    []int
}

var separators = regexp.MustCompile(`[\s,;+\-]+`)

// ParseDurations 把时序字符串规整为整数列表，重复分隔符合并为一个
func ParseDurations(s string) ([]int, error) {
	fields := separators.Split(strings.TrimSpace(s), -1)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad duration %q in %q", ErrInvalidTiming, f, s)
		}
		out = append(out, n)
	}
	return out, nil
}

// Compile 解析四段时序
func (t Timing) Compile() (*Waveform, error) {
	var (
		w   Waveform
		err error
	)
	if w.Header, err = ParseDurations(t.Header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if w.One, err = ParseDurations(t.One); err != nil {
		return nil, fmt.Errorf("one: %w", err)
	}
	if w.Zero, err = ParseDurations(t.Zero); err != nil {
		return nil, fmt.Errorf("zero: %w", err)
	}
	if w.Gap, err = ParseDurations(t.Gap); err != nil {
		return nil, fmt.Errorf("gap: %w", err)
	}
	return &w, nil
}

// Build 把位串展开为脉冲序列：header，每位对应的 one/zero 对，最后 gap
func (w *Waveform) Build(bits string) ([]int, error) {
	raw := make([]int, 0, len(w.Header)+len(bits)*len(w.One)+len(w.Gap))
	raw = append(raw, w.Header...)
	for i, c := range bits {
		switch c {
		case '0':
			raw = append(raw, w.Zero...)
		case '1':
			raw = append(raw, w.One...)
		default:
			return nil, fmt.Errorf("%w: %q at %d", ErrInvalidBits, c, i)
		}
	}
	raw = append(raw, w.Gap...)
	return raw, nil
}

// FrameSignal 命令帧与取反帧依次展开并拼接成一条脉冲序列
func (w *Waveform) FrameSignal(frame []byte) ([]int, error) {
	command, err := w.Build(ToBinary(frame))
	if err != nil {
		return nil, err
	}
	negated, err := w.Build(ToBinary(Negate(frame)))
	if err != nil {
		return nil, err
	}
	return append(command, negated...), nil
}


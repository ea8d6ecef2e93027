// internal/tuyair/frame.go

package tuyair

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// 温度范围 [MinTemperature, MaxTemperature)
const (
	MinTemperature = -30.0
	MaxTemperature = 70.0
)

// FrameSize 命令帧长度（含校验字节）
const FrameSize = 6

// followMeHeader FollowMe 命令的 4 个固定协议字节
var followMeHeader = [4]byte{0xA4, 0x82, 0x48, 0x7F}

// RoundingMode 温度取整方式
type RoundingMode int

const (
	// RoundHalfEven 四舍六入五成双，默认方式
	RoundHalfEven RoundingMode = iota
	// RoundHalfUp 四舍五入，.5 远离零
	RoundHalfUp
)

var roundingNames = map[RoundingMode]string{
	RoundHalfEven: "half_even",
	RoundHalfUp:   "half_up",
}

func (m RoundingMode) String() string {
	if name, ok := roundingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("RoundingMode(%d)", int(m))
}

// ParseRoundingMode 从配置字符串解析取整方式，空字符串为默认值
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "half_even", "even":
		return RoundHalfEven, nil
	case "half_up", "up":
		return RoundHalfUp, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRounding, s)
}

func (m RoundingMode) round(v float64) float64 {
	if m == RoundHalfUp {
		return math.Round(v)
	}
	return math.RoundToEven(v)
}

// BuildFrame 把温度转换为 6 字节命令帧：4 个协议字节 + 温度字节 + 校验字节
func BuildFrame(temperature float64, mode RoundingMode) ([]byte, error) {
	if math.IsNaN(temperature) || temperature < MinTemperature || temperature >= MaxTemperature {
		return nil, fmt.Errorf("%w: %v not in [%v, %v)", ErrTemperatureRange, temperature, MinTemperature, MaxTemperature)
	}

	value := int(mode.round(temperature)) + 1
	if value < 0 || value > math.MaxUint8 {
		return nil, fmt.Errorf("%w: value byte %d for %v does not fit in a byte", ErrTemperatureRange, value, temperature)
	}

	frame := make([]byte, 0, FrameSize)
	frame = append(frame, followMeHeader[:]...)
	frame = append(frame, byte(value))
	frame = append(frame, Checksum(frame))
	return frame, nil
}

// TemperatureCommand 使用默认取整方式构建命令帧
func TemperatureCommand(temperature float64) ([]byte, error) {
	return BuildFrame(temperature, RoundHalfEven)
}

// Checksum 计算协议校验字节。
// 每个字节先按位反转再求和，取 (256 - sum) mod 256，结果再按位反转。
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += bits.Reverse8(b)
	}
	return bits.Reverse8(-sum)
}

// Negate 返回逐字节取反后的帧，不重新计算校验
func Negate(frame []byte) []byte {
	out := make([]byte, len(frame))
	for i, b := range frame {
		out[i] = ^b
	}
	return out
}

// ToBinary 每个字节展开为 8 个字符，高位在前
func ToBinary(frame []byte) string {
	var sb strings.Builder
	sb.Grow(len(frame) * 8)
	for _, b := range frame {
		fmt.Fprintf(&sb, "%08b", b)
	}
	return sb.String()
}

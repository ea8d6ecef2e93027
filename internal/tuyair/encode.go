// internal/tuyair/encode.go

// Package tuyair 把温度编码为 Tuya 红外转发器可以直接发送的码串。
//
// 流程：命令帧（含校验）→ 取反帧 → 脉冲时序 → 小端 uint16 序列 →
// Tuya 块压缩 → base64。包内没有全局可变状态，可以并发调用。
package tuyair

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EncodeIR 把脉冲序列编码为 Tuya 码串
func EncodeIR(signal []int, level Level) (string, error) {
	if !level.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	payload := make([]byte, 2*len(signal))
	for i, t := range signal {
		if t < 0 || t > math.MaxUint16 {
			return "", fmt.Errorf("%w: pulse %d of %dus does not fit in 16 bits", ErrInvalidTiming, i, t)
		}
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(t))
	}
	return base64.StdEncoding.EncodeToString(Compress(payload, level)), nil
}

func decodeStream(code string) ([]byte, error) {
	code = strings.Join(strings.Fields(code), "")
	stream, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	return stream, nil
}

// CodeBlocks 码串中的压缩块
func CodeBlocks(code string) ([]Block, error) {
	stream, err := decodeStream(code)
	if err != nil {
		return nil, err
	}
	return ParseBlocks(stream)
}

// DecodeIR 把码串还原为脉冲序列（只还原压缩层，不解析帧）
func DecodeIR(code string) ([]int, error) {
	stream, err := decodeStream(code)
	if err != nil {
		return nil, err
	}
	payload, err := Decompress(stream)
	if err != nil {
		return nil, err
	}
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: odd payload length %d", ErrInvalidCode, len(payload))
	}
	signal := make([]int, len(payload)/2)
	for i := range signal {
		signal[i] = int(binary.LittleEndian.Uint16(payload[2*i:]))
	}
	return signal, nil
}

// ParseTemperature 解析温度字符串
func ParseTemperature(s string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: %q", ErrParseTemperature, s)
	}
	return t, nil
}

// Command 一次编码的全部中间结果
type Command struct {
	Temperature float64 `json:"temperature"`
	Frame       []byte  `json:"frame"`
	Pulses      []int   `json:"pulses"`
	Code        string  `json:"code"`
}

// Encoder 带选项的编码器，创建后只读，可并发使用
type Encoder struct {
	level    Level
	rounding RoundingMode
	waveform *Waveform
}

// NewEncoder 创建编码器
func NewEncoder(level Level, rounding RoundingMode, timing Timing) (*Encoder, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if _, ok := roundingNames[rounding]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRounding, int(rounding))
	}
	w, err := timing.Compile()
	if err != nil {
		return nil, err
	}
	return &Encoder{level: level, rounding: rounding, waveform: w}, nil
}

var defaultEncoder = mustEncoder(DefaultLevel, RoundHalfEven, FollowMeTiming)

func mustEncoder(level Level, rounding RoundingMode, timing Timing) *Encoder {
	e, err := NewEncoder(level, rounding, timing)
	if err != nil {
		panic(err)
	}
	return e
}

// DefaultEncoder 等级 2、四舍六入五成双、FollowMe 时序
func DefaultEncoder() *Encoder {
	return defaultEncoder
}

// Level 编码器的压缩等级
func (e *Encoder) Level() Level {
	return e.level
}

// Rounding 编码器的取整方式
func (e *Encoder) Rounding() RoundingMode {
	return e.rounding
}

// Command 构建帧、脉冲序列和码串
func (e *Encoder) Command(temperature float64) (*Command, error) {
	frame, err := BuildFrame(temperature, e.rounding)
	if err != nil {
		return nil, err
	}
	pulses, err := e.waveform.FrameSignal(frame)
	if err != nil {
		return nil, err
	}
	code, err := EncodeIR(pulses, e.level)
	if err != nil {
		return nil, err
	}
	return &Command{
		Temperature: temperature,
		Frame:       frame,
		Pulses:      pulses,
		Code:        code,
	}, nil
}

// Encode 只返回码串
func (e *Encoder) Encode(temperature float64) (string, error) {
	cmd, err := e.Command(temperature)
	if err != nil {
		return "", err
	}
	return cmd.Code, nil
}

// EncodeTemperature 用默认编码器把温度编码为码串
func EncodeTemperature(temperature float64) (string, error) {
	return defaultEncoder.Encode(temperature)
}

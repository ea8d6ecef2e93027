// internal/tuyair/errors.go

package tuyair

import (
	"errors"
	"fmt"
)

var (
	// ErrTemperatureRange 温度超出 [-30, 70) 或温度字节无法放入一个字节
	ErrTemperatureRange = errors.New("temperature out of range")
	// ErrParseTemperature 温度不是数字
	ErrParseTemperature = errors.New("temperature is not a number")
	ErrInvalidTiming    = errors.New("invalid timing specification")
	ErrInvalidBits      = errors.New("bit string must contain only '0' and '1'")
	ErrInvalidLevel     = errors.New("compression level must be 0-3")
	ErrInvalidRounding  = errors.New("unknown rounding mode")
	ErrTruncatedStream  = errors.New("truncated compressed stream")
	ErrBadDistance      = errors.New("back-reference points before start of output")
	ErrInvalidCode      = errors.New("invalid IR code")
)

// InvariantViolation 压缩器内部约束被破坏时 panic 的值。
// 正确的实现中永远不会出现，不能当作普通错误处理。
type InvariantViolation struct {
	Msg string
}

func (v InvariantViolation) Error() string {
	return "tuyair: invariant violation: " + v.Msg
}

func invariant(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(InvariantViolation{Msg: fmt.Sprintf(format, args...)})
	}
}

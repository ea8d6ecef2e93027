package tuyair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurations(t *testing.T) {
	cases := []struct {
		in       string
		expected []int
	}{
		{"4497, 4497", []int{4497, 4497}},
		{"588,5601", []int{588, 5601}},
		{" 1;2 +3--4,,,5 ", []int{1, 2, 3, 4, 5}},
		{"", []int{}},
		{"  ", []int{}},
	}
	for _, tc := range cases {
		got, err := ParseDurations(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.expected, got, "input %q", tc.in)
	}

	_, err := ParseDurations("588,abc")
	assert.ErrorIs(t, err, ErrInvalidTiming)
}

func TestWaveformBuild(t *testing.T) {
	w, err := FollowMeTiming.Compile()
	require.NoError(t, err)

	raw, err := w.Build("10")
	require.NoError(t, err)
	assert.Equal(t, []int{4497, 4497, 588, 1657, 588, 588, 588, 5601}, raw)

	raw, err = w.Build("")
	require.NoError(t, err)
	assert.Equal(t, []int{4497, 4497, 588, 5601}, raw)

	_, err = w.Build("102")
	assert.ErrorIs(t, err, ErrInvalidBits)
}

func TestFrameSignal(t *testing.T) {
	w, err := FollowMeTiming.Compile()
	require.NoError(t, err)

	frame, err := TemperatureCommand(21.0)
	require.NoError(t, err)

	signal, err := w.FrameSignal(frame)
	require.NoError(t, err)
	// 每帧：header 2 + 48 位 * 2 + gap 2
	require.Len(t, signal, 200)

	command, err := w.Build(ToBinary(frame))
	require.NoError(t, err)
	negated, err := w.Build(ToBinary(Negate(frame)))
	require.NoError(t, err)
	assert.Equal(t, command, signal[:100])
	assert.Equal(t, negated, signal[100:])

	// 第一个数据位为 0xA4 的最高位 1
	assert.Equal(t, []int{588, 1657}, signal[2:4])
	// 取反帧第一个数据位为 0
	assert.Equal(t, []int{588, 588}, signal[102:104])
}

func TestTimingCompileError(t *testing.T) {
	bad := FollowMeTiming
	bad.Gap = "588,x"
	_, err := bad.Compile()
	assert.ErrorIs(t, err, ErrInvalidTiming)
}

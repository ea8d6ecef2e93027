package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	encodeFlags.level = 2
	encodeFlags.rounding = "half_even"
	encodeFlags.raw = false
	encodeFlags.frame = false
	decodeBlocks = false
}

func TestEncodeCommand(t *testing.T) {
	resetFlags()
	out, err := execute(t, "encode", "21")
	require.NoError(t, err)
	assert.Equal(t, "CZERkRFMAnkGTAJAAcAH4BML4AMB4CMvQGPgDwPgC1PgBxvgDydAWwHhFYDH4A8/4AsL4Ad/4B8v4BMB4AtT4Acb4A8nQAMB4RU=\n", out)

	resetFlags()
	out, err = execute(t, "encode", "--frame", "--level", "3", "21")
	require.NoError(t, err)
	assert.Contains(t, out, "frame:   A4 82 48 7F 16 44")
	assert.True(t, strings.HasSuffix(out, "C5ERkRFMAnkGTAJMAsAH4BMLwAHgIy/AE+APA+AHU8Av4AdT4BF7AeEVQMfgDz/AC+ALh+ApL+ARAcBT4Q9PwFPgD3tAxw==\n"))

	resetFlags()
	_, err = execute(t, "encode", "abc")
	assert.Error(t, err)

	resetFlags()
	_, err = execute(t, "encode", "--level", "9", "21")
	assert.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	resetFlags()
	code := "CZERkRFMAnkGTAJAAcAH4BML4AMB4CMvQGPgDwPgC1PgBxvgDydAWwHhFYDH4A8/4AsL4Ad/4B8v4BMB4AtT4Acb4A8nQAMB4RU="
	out, err := execute(t, "decode", code)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "4497 4497 588 1657"))
	assert.Equal(t, 200, len(strings.Fields(out)))

	resetFlags()
	out, err = execute(t, "decode", "--blocks", code)
	require.NoError(t, err)
	// 第一个块是 10 字节的字面块
	assert.True(t, strings.HasPrefix(out, "  0 literal  91 11 91 11 4C 02 79 06 4C 02\n"), out)

	resetFlags()
	_, err = execute(t, "decode", "!!!")
	assert.Error(t, err)
}

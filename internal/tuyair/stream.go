// internal/tuyair/stream.go

package tuyair

import "fmt"

// Block 压缩流中的一个块。Literal 非空时为字面块，否则为距离块。
type Block struct {
	Literal  []byte
	Length   int
	Distance int
}

// IsLiteral 是否字面块
func (b Block) IsLiteral() bool {
	return b.Literal != nil
}

// Size 块展开后的字节数
func (b Block) Size() int {
	if b.IsLiteral() {
		return len(b.Literal)
	}
	return b.Length
}

// ParseBlocks 把压缩流拆分为块
func ParseBlocks(stream []byte) ([]Block, error) {
	var blocks []Block
	for pos := 0; pos < len(stream); {
		header := stream[pos]
		pos++
		field := int(header >> 5)
		if field == 0 {
			length := int(header&0x1F) + 1
			if pos+length > len(stream) {
				return nil, fmt.Errorf("%w: literal block of %d bytes at offset %d", ErrTruncatedStream, length, pos-1)
			}
			blocks = append(blocks, Block{Literal: stream[pos : pos+length]})
			pos += length
			continue
		}

		length := field
		if field == 7 {
			if pos >= len(stream) {
				return nil, fmt.Errorf("%w: missing length byte at offset %d", ErrTruncatedStream, pos)
			}
			length += int(stream[pos])
			pos++
		}
		if pos >= len(stream) {
			return nil, fmt.Errorf("%w: missing distance byte at offset %d", ErrTruncatedStream, pos)
		}
		distance := int(header&0x1F)<<8 | int(stream[pos])
		pos++
		blocks = append(blocks, Block{Length: length + 2, Distance: distance + 1})
	}
	return blocks, nil
}

// Decompress 依次回放字面块和距离块，还原原始数据
func Decompress(stream []byte) ([]byte, error) {
	blocks, err := ParseBlocks(stream)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, b := range blocks {
		if b.IsLiteral() {
			out = append(out, b.Literal...)
			continue
		}
		start := len(out) - b.Distance
		if start < 0 {
			return nil, fmt.Errorf("%w: distance %d with %d bytes of output", ErrBadDistance, b.Distance, len(out))
		}
		// 区间可能重叠，逐字节复制
		for i := 0; i < b.Length; i++ {
			out = append(out, out[start+i])
		}
	}
	return out, nil
}

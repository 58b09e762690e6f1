package writable

import "fmt"

// AppendVLong appends the Hadoop zero-compressed encoding of i.  Values in
// [-112, 127] take a single byte; otherwise the first byte holds the sign and
// the number of big-endian magnitude bytes that follow.
func AppendVLong(b []byte, i int64) []byte {
	if i >= -112 && i <= 127 {
		return append(b, byte(i))
	}
	n := -112
	if i < 0 {
		i ^= -1
		n = -120
	}
	for tmp := i; tmp != 0; tmp >>= 8 {
		n--
	}
	b = append(b, byte(int8(n)))
	if n < -120 {
		n = -(n + 120)
	} else {
		n = -(n + 112)
	}
	for idx := n; idx != 0; idx-- {
		b = append(b, byte(i>>uint((idx-1)*8)))
	}
	return b
}

// ConsumeVLong parses a zero-compressed long from the front of b, returning the
// value and the number of bytes used.
func ConsumeVLong(b []byte) (int64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("vlong: no bytes")
	}
	first := int8(b[0])
	n := vIntSize(first)
	if n == 1 {
		return int64(first), 1, nil
	}
	if len(b) < n {
		return 0, 0, fmt.Errorf("vlong: needs %d bytes, got %d", n, len(b))
	}
	var i int64
	for idx := 1; idx < n; idx++ {
		i = i<<8 | int64(b[idx])
	}
	if first < -120 || (first >= -112 && first < 0) {
		i ^= -1
	}
	return i, n, nil
}

// ConsumeVInt is ConsumeVLong restricted to the int32 range.
func ConsumeVInt(b []byte) (int32, int, error) {
	i, n, err := ConsumeVLong(b)
	if err != nil {
		return 0, 0, err
	}
	if i < -1<<31 || i > 1<<31-1 {
		return 0, 0, fmt.Errorf("vint: value %d out of int32 range", i)
	}
	return int32(i), n, nil
}

func vIntSize(first int8) int {
	switch {
	case first >= -112:
		return 1
	case first < -120:
		return -119 - int(first)
	default:
		return -111 - int(first)
	}
}

package writable

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Null is the Go value of a NullWritable.  It has no content.
type Null struct{}

func (Null) String() string { return "(null)" }

type NullCodec struct{}

func (NullCodec) Encode(Null) ([]byte, error) { return []byte{}, nil }

func (NullCodec) Decode(b []byte) (Null, error) {
	return Null{}, checkLen("NullWritable", b, 0)
}

type BooleanCodec struct{}

func (BooleanCodec) Encode(v bool) ([]byte, error) {
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (BooleanCodec) Decode(b []byte) (bool, error) {
	if err := checkLen("BooleanWritable", b, 1); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

type ByteCodec struct{}

func (ByteCodec) Encode(v int8) ([]byte, error) { return []byte{byte(v)}, nil }

func (ByteCodec) Decode(b []byte) (int8, error) {
	if err := checkLen("ByteWritable", b, 1); err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

type IntCodec struct{}

func (IntCodec) Encode(v int32) ([]byte, error) {
	return binary.BigEndian.AppendUint32(nil, uint32(v)), nil
}

func (IntCodec) Decode(b []byte) (int32, error) {
	if err := checkLen("IntWritable", b, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

type LongCodec struct{}

func (LongCodec) Encode(v int64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, uint64(v)), nil
}

func (LongCodec) Decode(b []byte) (int64, error) {
	if err := checkLen("LongWritable", b, 8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

type VIntCodec struct{}

func (VIntCodec) Encode(v int32) ([]byte, error) { return AppendVLong(nil, int64(v)), nil }

func (VIntCodec) Decode(b []byte) (int32, error) {
	v, n, err := ConsumeVInt(b)
	if err != nil {
		return 0, err
	}
	return v, checkLen("VIntWritable", b, n)
}

type VLongCodec struct{}

func (VLongCodec) Encode(v int64) ([]byte, error) { return AppendVLong(nil, v), nil }

func (VLongCodec) Decode(b []byte) (int64, error) {
	v, n, err := ConsumeVLong(b)
	if err != nil {
		return 0, err
	}
	return v, checkLen("VLongWritable", b, n)
}

type FloatCodec struct{}

func (FloatCodec) Encode(v float32) ([]byte, error) {
	return binary.BigEndian.AppendUint32(nil, math.Float32bits(v)), nil
}

func (FloatCodec) Decode(b []byte) (float32, error) {
	if err := checkLen("FloatWritable", b, 4); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

type DoubleCodec struct{}

func (DoubleCodec) Encode(v float64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(v)), nil
}

func (DoubleCodec) Decode(b []byte) (float64, error) {
	if err := checkLen("DoubleWritable", b, 8); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// TextCodec stores a VInt byte length followed by the UTF-8 bytes.
type TextCodec struct{}

func (TextCodec) Encode(v string) ([]byte, error) {
	b := AppendVLong(make([]byte, 0, len(v)+1), int64(len(v)))
	return append(b, v...), nil
}

func (TextCodec) Decode(b []byte) (string, error) {
	size, n, err := ConsumeVInt(b)
	if err != nil {
		return "", fmt.Errorf("Text length: %v", err)
	}
	if size < 0 {
		return "", fmt.Errorf("Text has negative length %d", size)
	}
	if err := checkLen("Text", b, n+int(size)); err != nil {
		return "", err
	}
	return string(b[n:]), nil
}

// BytesCodec stores a 4 byte big-endian length followed by the bytes.
type BytesCodec struct{}

func (BytesCodec) Encode(v []byte) ([]byte, error) {
	b := binary.BigEndian.AppendUint32(make([]byte, 0, len(v)+4), uint32(len(v)))
	return append(b, v...), nil
}

func (BytesCodec) Decode(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("BytesWritable needs at least 4 bytes, got %d", len(b))
	}
	size := binary.BigEndian.Uint32(b)
	if err := checkLen("BytesWritable", b, 4+int(size)); err != nil {
		return nil, err
	}
	return append([]byte{}, b[4:]...), nil
}

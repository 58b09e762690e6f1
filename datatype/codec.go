package datatype

import "fmt"

// Codec encodes and decodes a value of type T to and from a byte slice.
// Encode must be deterministic: the same value always yields the same bytes.
// Decode should return an error on malformed input rather than a zero value.
type Codec[T any] interface {
	Encode(T) ([]byte, error)
	Decode([]byte) (T, error)
}

// CodecFuncs adapts a pair of functions to the Codec interface.
type CodecFuncs[T any] struct {
	EncodeFunc func(T) ([]byte, error)
	DecodeFunc func([]byte) (T, error)
}

func (c CodecFuncs[T]) Encode(v T) ([]byte, error) {
	return c.EncodeFunc(v)
}

func (c CodecFuncs[T]) Decode(b []byte) (T, error) {
	return c.DecodeFunc(b)
}

// erased presents a Codec[T] as a Codec[any] for callers that only learn the
// concrete types from a file header.
type erased[T any] struct {
	c Codec[T]
}

func (e erased[T]) Encode(v any) ([]byte, error) {
	t, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as %s", v, typeName[T]())
	}
	return e.c.Encode(t)
}

func (e erased[T]) Decode(b []byte) (any, error) {
	return e.c.Decode(b)
}

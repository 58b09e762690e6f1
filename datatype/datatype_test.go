package datatype

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var stringCodec = CodecFuncs[string]{
	EncodeFunc: func(s string) ([]byte, error) { return []byte(s), nil },
	DecodeFunc: func(b []byte) (string, error) { return string(b), nil },
}

var sliceCodec = CodecFuncs[[]string]{
	EncodeFunc: func(s []string) ([]byte, error) { return []byte(strings.Join(s, ",")), nil },
	DecodeFunc: func(b []byte) ([]string, error) { return strings.Split(string(b), ","), nil },
}

func testRegistry(t *testing.T) *Registry {
	r := NewRegistry()
	require.NoError(t, RegisterKey[string](r, "test.Text", stringCodec))
	require.NoError(t, RegisterValue[[]string](r, "test.TextArray", sliceCodec))
	require.NoError(t, r.RegisterComputation("test.PageRank"))
	return r
}

func TestResolveBounds(t *testing.T) {
	r := testRegistry(t)

	typ, err := r.Resolve("test.Text", Key)
	require.NoError(t, err)
	require.Equal(t, "string", typ.GoType())
	require.True(t, typ.Bounds.Has(Value))

	_, err = r.Resolve("test.TextArray", Value)
	require.NoError(t, err)

	_, err = r.Resolve("test.TextArray", Key)
	require.True(t, errors.Is(err, ErrBound), "got %v", err)

	_, err = r.Resolve("test.PageRank", Value)
	require.True(t, errors.Is(err, ErrBound), "got %v", err)

	_, err = r.Resolve("test.PageRank", Computation)
	require.NoError(t, err)

	_, err = r.Resolve("test.Missing", Value)
	require.True(t, errors.Is(err, ErrUnknownType), "got %v", err)
}

func TestRegisterDuplicate(t *testing.T) {
	r := testRegistry(t)
	err := RegisterKey[string](r, "test.Text", stringCodec)
	require.True(t, errors.Is(err, ErrDuplicate))
	require.Error(t, r.RegisterComputation(""))
	require.Error(t, RegisterValue[string](r, "test.Nil", nil))
}

func TestAlias(t *testing.T) {
	r := testRegistry(t)
	require.NoError(t, r.Alias("com.example.Name", "test.Text"))

	typ, err := r.Resolve("com.example.Name", Key)
	require.NoError(t, err)
	require.Equal(t, "test.Text", typ.Name)

	require.True(t, errors.Is(r.Alias("com.example.Other", "test.Nope"), ErrUnknownType))
	require.True(t, errors.Is(r.Alias("com.example.Name", "test.Text"), ErrDuplicate))
	require.True(t, errors.Is(r.Alias("test.Text", "test.TextArray"), ErrDuplicate))

	require.NotContains(t, r.Names(), "com.example.Name")
	require.Contains(t, r.Chart(), "com.example.Name")
}

func TestCodecFor(t *testing.T) {
	r := testRegistry(t)
	typ, _ := r.Lookup("test.Text")

	c, err := CodecFor[string](typ)
	require.NoError(t, err)
	b, err := c.Encode("hi")
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), b)

	dyn, err := CodecFor[any](typ)
	require.NoError(t, err)
	v, err := dyn.Decode([]byte("there"))
	require.NoError(t, err)
	require.Equal(t, "there", v)
	_, err = dyn.Encode(42)
	require.Error(t, err)

	_, err = CodecFor[int64](typ)
	require.True(t, errors.Is(err, ErrBound), "got %v", err)

	comp, _ := r.Lookup("test.PageRank")
	_, err = CodecFor[any](comp)
	require.True(t, errors.Is(err, ErrBound))
}

func TestNullType(t *testing.T) {
	r := NewRegistry()
	null := CodecFuncs[struct{}]{
		EncodeFunc: func(struct{}) ([]byte, error) { return nil, nil },
		DecodeFunc: func([]byte) (struct{}, error) { return struct{}{}, nil },
	}
	require.NoError(t, RegisterNull[struct{}](r, "test.Null", null))
	typ, err := r.Resolve("test.Null", Key)
	require.NoError(t, err)
	require.True(t, typ.Null)
	require.Contains(t, r.Chart(), "(null)")
}

func TestBoundString(t *testing.T) {
	require.Equal(t, "none", Bound(0).String())
	require.Equal(t, "key|value", (Key | Value).String())
	require.Equal(t, "computation", Computation.String())
}

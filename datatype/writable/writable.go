/*
Package writable registers codecs for the Hadoop Writable value types under their
Java class names, so scenario files captured from Giraph jobs can be loaded and
re-saved byte for byte.

	Descriptor                           Go type   Bounds
	org.apache.hadoop.io.NullWritable    Null      key, value (null)
	org.apache.hadoop.io.BooleanWritable bool      key, value
	org.apache.hadoop.io.ByteWritable    int8      key, value
	org.apache.hadoop.io.IntWritable     int32     key, value
	org.apache.hadoop.io.LongWritable    int64     key, value
	org.apache.hadoop.io.VIntWritable    int32     key, value
	org.apache.hadoop.io.VLongWritable   int64     key, value
	org.apache.hadoop.io.FloatWritable   float32   value
	org.apache.hadoop.io.DoubleWritable  float64   value
	org.apache.hadoop.io.Text            string    key, value
	org.apache.hadoop.io.BytesWritable   []byte    value

Float and double writables are not keys: NaN is not equal to itself, so it
could never be found again as a neighbor id.
*/
package writable

import (
	"fmt"

	"github.com/janelia-flyem/graft/datatype"
	"github.com/janelia-flyem/graft/graft"
)

const (
	NullName    = "org.apache.hadoop.io.NullWritable"
	BooleanName = "org.apache.hadoop.io.BooleanWritable"
	ByteName    = "org.apache.hadoop.io.ByteWritable"
	IntName     = "org.apache.hadoop.io.IntWritable"
	LongName    = "org.apache.hadoop.io.LongWritable"
	VIntName    = "org.apache.hadoop.io.VIntWritable"
	VLongName   = "org.apache.hadoop.io.VLongWritable"
	FloatName   = "org.apache.hadoop.io.FloatWritable"
	DoubleName  = "org.apache.hadoop.io.DoubleWritable"
	TextName    = "org.apache.hadoop.io.Text"
	BytesName   = "org.apache.hadoop.io.BytesWritable"
)

func init() {
	if err := Register(datatype.Default); err != nil {
		graft.Errorf("Unable to register Hadoop writables: %v\n", err)
	}
}

// Register adds every writable codec to r.
func Register(r *datatype.Registry) error {
	regs := []func() error{
		func() error { return datatype.RegisterNull[Null](r, NullName, NullCodec{}) },
		func() error { return datatype.RegisterKey[bool](r, BooleanName, BooleanCodec{}) },
		func() error { return datatype.RegisterKey[int8](r, ByteName, ByteCodec{}) },
		func() error { return datatype.RegisterKey[int32](r, IntName, IntCodec{}) },
		func() error { return datatype.RegisterKey[int64](r, LongName, LongCodec{}) },
		func() error { return datatype.RegisterKey[int32](r, VIntName, VIntCodec{}) },
		func() error { return datatype.RegisterKey[int64](r, VLongName, VLongCodec{}) },
		func() error { return datatype.RegisterValue[float32](r, FloatName, FloatCodec{}) },
		func() error { return datatype.RegisterValue[float64](r, DoubleName, DoubleCodec{}) },
		func() error { return datatype.RegisterKey[string](r, TextName, TextCodec{}) },
		func() error { return datatype.RegisterValue[[]byte](r, BytesName, BytesCodec{}) },
	}
	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}

func checkLen(name string, b []byte, want int) error {
	if len(b) != want {
		return fmt.Errorf("%s needs %d bytes, got %d", name, want, len(b))
	}
	return nil
}

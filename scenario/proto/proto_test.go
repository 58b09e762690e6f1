package proto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func testMessage() *GiraphScenario {
	return &GiraphScenario{
		ClassUnderTest:       "org.example.Computation",
		VertexIDClass:        "id",
		VertexValueClass:     "value",
		EdgeValueClass:       "edge",
		IncomingMessageClass: "in",
		OutgoingMessageClass: "out",
		Scenarios: []*Scenario{
			{
				VertexID:    []byte("A"),
				VertexValue: []byte{1},
				Messages:    [][]byte{[]byte("hi")},
				Neighbors: []*Neighbor{
					{NeighborID: []byte("B"), HasEdgeValue: true, EdgeValue: []byte{5}, Msgs: [][]byte{[]byte("x")}},
					{NeighborID: []byte("C")},
					{NeighborID: []byte("D"), HasEdgeValue: true, EdgeValue: []byte{}},
				},
			},
			{VertexID: []byte("B"), VertexValue: []byte{}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	m := testMessage()
	b := m.Marshal()

	var got GiraphScenario
	require.NoError(t, got.Unmarshal(b))
	require.Equal(t, m.ClassUnderTest, got.ClassUnderTest)
	require.Equal(t, m.OutgoingMessageClass, got.OutgoingMessageClass)
	require.Len(t, got.Scenarios, 2)

	s := got.Scenarios[0]
	require.Equal(t, []byte("A"), s.VertexID)
	require.Equal(t, [][]byte{[]byte("hi")}, s.Messages)
	require.Len(t, s.Neighbors, 3)
	require.True(t, s.Neighbors[0].HasEdgeValue)
	require.Equal(t, []byte{5}, s.Neighbors[0].EdgeValue)
	require.Equal(t, [][]byte{[]byte("x")}, s.Neighbors[0].Msgs)
	require.False(t, s.Neighbors[1].HasEdgeValue)
	require.Empty(t, s.Neighbors[1].Msgs)
	require.True(t, s.Neighbors[2].HasEdgeValue, "an empty edge value is still present")
	require.Empty(t, s.Neighbors[2].EdgeValue)

	require.Empty(t, got.Scenarios[1].VertexValue)
	require.Equal(t, b, got.Marshal(), "re-marshal should be byte identical")
}

func TestKnownEncoding(t *testing.T) {
	n := &Neighbor{NeighborID: []byte("C")}
	require.Equal(t, []byte{0x0a, 0x01, 'C'}, n.Marshal())

	n = &Neighbor{NeighborID: []byte("B"), HasEdgeValue: true, EdgeValue: []byte{5}, Msgs: [][]byte{[]byte("x")}}
	want := []byte{
		0x0a, 0x01, 'B', // neighborId
		0x12, 0x01, 0x05, // edgeValue
		0x1a, 0x03, 0x0a, 0x01, 'x', // msg { msgData }
	}
	require.Equal(t, want, n.Marshal())
}

func TestUnknownFieldsSkipped(t *testing.T) {
	b := testMessage().Marshal()
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)
	b = protowire.AppendTag(b, 100, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("ignored"))

	var got GiraphScenario
	require.NoError(t, got.Unmarshal(b))
	require.Len(t, got.Scenarios, 2)
}

func TestMalformed(t *testing.T) {
	b := testMessage().Marshal()

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", b[:len(b)-3]},
		{"missing header", testMessage().Scenarios[0].Marshal()},
		{"bad tag", append(append([]byte{}, b...), 0xff)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got GiraphScenario
			err := got.Unmarshal(tc.data)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestMissingRequiredNested(t *testing.T) {
	var s Scenario
	err := s.Unmarshal(appendBytes(nil, fieldVertexID, []byte("A")))
	require.True(t, errors.Is(err, ErrMalformed))
	require.Contains(t, err.Error(), "vertexValue")

	nbr := appendBytes(nil, fieldEdgeValue, []byte{1})
	b := appendBytes(nil, fieldVertexID, []byte("A"))
	b = appendBytes(b, fieldVertexValue, []byte{1})
	b = appendBytes(b, fieldNeighbor, nbr)
	err = s.Unmarshal(b)
	require.True(t, errors.Is(err, ErrMalformed))
	require.Contains(t, err.Error(), "neighbor[0]")

	b = appendBytes(nil, fieldVertexID, []byte("A"))
	b = appendBytes(b, fieldVertexValue, []byte{1})
	b = protowire.AppendTag(b, fieldMessage, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)
	err = s.Unmarshal(b)
	require.True(t, errors.Is(err, ErrMalformed))
}

func TestUnmarshalHeader(t *testing.T) {
	b := testMessage().Marshal()

	var hdr GiraphScenario
	require.NoError(t, hdr.UnmarshalHeader(b[:len(b)-3]), "records after the header are not parsed")
	require.Equal(t, "org.example.Computation", hdr.ClassUnderTest)
	require.Equal(t, "out", hdr.OutgoingMessageClass)
	require.Empty(t, hdr.Scenarios)

	// A truncated scenario ahead of the last descriptor still fails.
	var partial []byte
	for num := fieldClassUnderTest; num < fieldOutgoingMessageClass; num++ {
		partial = appendString(partial, num, "t")
	}
	partial = protowire.AppendTag(partial, fieldScenario, protowire.BytesType)
	partial = protowire.AppendVarint(partial, 10)
	partial = append(partial, 0x0a, 0x00)
	require.True(t, errors.Is(hdr.UnmarshalHeader(partial), ErrMalformed))

	err := hdr.UnmarshalHeader(appendString(nil, fieldClassUnderTest, "c"))
	require.True(t, errors.Is(err, ErrMalformed), "got %v", err)
	require.Contains(t, err.Error(), "missing required header field 2")
}

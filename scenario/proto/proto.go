/*
Package proto holds the protobuf messages of a stored scenario file.  The
messages are framed directly with protowire and match this proto2 schema:

	message GiraphScenario {
	  required string classUnderTest = 1;
	  required string vertexIdClass = 2;
	  required string vertexValueClass = 3;
	  required string edgeValueClass = 4;
	  required string incomingMessageClass = 5;
	  required string outgoingMessageClass = 6;
	  repeated Scenario scenario = 7;
	}
	message Scenario {
	  required bytes vertexId = 1;
	  required bytes vertexValue = 2;
	  repeated InMsg message = 3;
	  repeated Neighbor neighbor = 4;
	}
	message Neighbor {
	  required bytes neighborId = 1;
	  optional bytes edgeValue = 2;
	  repeated OutMsg msg = 3;
	}
	message InMsg { required bytes msgData = 1; }
	message OutMsg { required bytes msgData = 1; }

InMsg and OutMsg are flattened to their msgData bytes.  Byte slices returned by
Unmarshal alias the input buffer.
*/
package proto

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is wrapped by every error returned from Unmarshal.
var ErrMalformed = errors.New("malformed scenario data")

// Field numbers.
const (
	fieldClassUnderTest       protowire.Number = 1
	fieldVertexIDClass        protowire.Number = 2
	fieldVertexValueClass     protowire.Number = 3
	fieldEdgeValueClass       protowire.Number = 4
	fieldIncomingMessageClass protowire.Number = 5
	fieldOutgoingMessageClass protowire.Number = 6
	fieldScenario             protowire.Number = 7

	fieldVertexID    protowire.Number = 1
	fieldVertexValue protowire.Number = 2
	fieldMessage     protowire.Number = 3
	fieldNeighbor    protowire.Number = 4

	fieldNeighborID protowire.Number = 1
	fieldEdgeValue  protowire.Number = 2
	fieldMsg        protowire.Number = 3

	fieldMsgData protowire.Number = 1
)

// GiraphScenario is the top-level message: the type descriptors of a file and
// its scenarios in order.
type GiraphScenario struct {
	ClassUnderTest       string
	VertexIDClass        string
	VertexValueClass     string
	EdgeValueClass       string
	IncomingMessageClass string
	OutgoingMessageClass string

	Scenarios []*Scenario
}

// Scenario is one captured vertex step.
type Scenario struct {
	VertexID    []byte
	VertexValue []byte
	Messages    [][]byte
	Neighbors   []*Neighbor
}

// Neighbor is a neighbor id with its optional edge value and the messages sent to it.
type Neighbor struct {
	NeighborID   []byte
	HasEdgeValue bool
	EdgeValue    []byte
	Msgs         [][]byte
}

// Marshal returns the wire encoding of m.  Fields are written in field number order.
func (m *GiraphScenario) Marshal() []byte {
	var b []byte
	b = appendString(b, fieldClassUnderTest, m.ClassUnderTest)
	b = appendString(b, fieldVertexIDClass, m.VertexIDClass)
	b = appendString(b, fieldVertexValueClass, m.VertexValueClass)
	b = appendString(b, fieldEdgeValueClass, m.EdgeValueClass)
	b = appendString(b, fieldIncomingMessageClass, m.IncomingMessageClass)
	b = appendString(b, fieldOutgoingMessageClass, m.OutgoingMessageClass)
	for _, s := range m.Scenarios {
		b = appendBytes(b, fieldScenario, s.Marshal())
	}
	return b
}

// Marshal returns the wire encoding of s.
func (s *Scenario) Marshal() []byte {
	var b []byte
	b = appendBytes(b, fieldVertexID, s.VertexID)
	b = appendBytes(b, fieldVertexValue, s.VertexValue)
	for _, msg := range s.Messages {
		b = appendBytes(b, fieldMessage, marshalMsgData(msg))
	}
	for _, n := range s.Neighbors {
		b = appendBytes(b, fieldNeighbor, n.Marshal())
	}
	return b
}

// Marshal returns the wire encoding of n.  The edge value field is written only
// when HasEdgeValue is set, even if EdgeValue is empty.
func (n *Neighbor) Marshal() []byte {
	var b []byte
	b = appendBytes(b, fieldNeighborID, n.NeighborID)
	if n.HasEdgeValue {
		b = appendBytes(b, fieldEdgeValue, n.EdgeValue)
	}
	for _, msg := range n.Msgs {
		b = appendBytes(b, fieldMsg, marshalMsgData(msg))
	}
	return b
}

func marshalMsgData(data []byte) []byte {
	return appendBytes(nil, fieldMsgData, data)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

package proto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// fieldFunc handles one field whose tag has been consumed, returning the number
// of bytes of b it used.  Returning -1 skips the field as unknown.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte, off int) (int, error)

func malformed(path string, off int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s at offset %d: %s", ErrMalformed, path, off, fmt.Sprintf(format, args...))
}

// walk iterates over the fields of a message starting at absolute offset base.
func walk(b []byte, path string, base int, fn fieldFunc) error {
	off := base
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed(path, off, "bad tag: %v", protowire.ParseError(n))
		}
		b, off = b[n:], off+n

		used, err := fn(num, typ, b, off)
		if err != nil {
			return err
		}
		if used < 0 {
			used = protowire.ConsumeFieldValue(num, typ, b)
			if used < 0 {
				return malformed(path, off, "bad field %d: %v", num, protowire.ParseError(used))
			}
		}
		b, off = b[used:], off+used
	}
	return nil
}

// bytesField consumes a length-delimited field value.
func bytesField(typ protowire.Type, b []byte, path string, off int) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, malformed(path, off, "wire type %d, expected length-delimited", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, malformed(path, off, "%v", protowire.ParseError(n))
	}
	return v, n, nil
}

// errHeaderDone stops a header walk once every header field has been read.
var errHeaderDone = errors.New("header complete")

func (m *GiraphScenario) headerFields() map[protowire.Number]*string {
	return map[protowire.Number]*string{
		fieldClassUnderTest:       &m.ClassUnderTest,
		fieldVertexIDClass:        &m.VertexIDClass,
		fieldVertexValueClass:     &m.VertexValueClass,
		fieldEdgeValueClass:       &m.EdgeValueClass,
		fieldIncomingMessageClass: &m.IncomingMessageClass,
		fieldOutgoingMessageClass: &m.OutgoingMessageClass,
	}
}

// headerField reads header field num into dst.
func headerField(dst *string, num protowire.Number, typ protowire.Type, b []byte, off int) (int, error) {
	v, n, err := bytesField(typ, b, fmt.Sprintf("GiraphScenario.field%d", num), off)
	if err != nil {
		return 0, err
	}
	*dst = string(v)
	return n, nil
}

func missingHeader(seen []bool, off int) error {
	for num := fieldClassUnderTest; num <= fieldOutgoingMessageClass; num++ {
		if !seen[num] {
			return malformed("GiraphScenario", off, "missing required header field %d", num)
		}
	}
	return nil
}

// UnmarshalHeader reads only the six type descriptors of a GiraphScenario.
// Scenarios are left unparsed and reading stops as soon as every descriptor
// has been seen, so framing errors after the header are not reported.
func (m *GiraphScenario) UnmarshalHeader(b []byte) error {
	*m = GiraphScenario{}
	seen := make([]bool, fieldOutgoingMessageClass+1)
	count := 0
	headers := m.headerFields()
	err := walk(b, "GiraphScenario", 0, func(num protowire.Number, typ protowire.Type, b []byte, off int) (int, error) {
		dst, found := headers[num]
		if !found {
			return -1, nil
		}
		n, err := headerField(dst, num, typ, b, off)
		if err != nil {
			return 0, err
		}
		if !seen[num] {
			seen[num] = true
			count++
		}
		if count == len(headers) {
			return 0, errHeaderDone
		}
		return n, nil
	})
	if errors.Is(err, errHeaderDone) {
		return nil
	}
	if err != nil {
		return err
	}
	return missingHeader(seen, len(b))
}

// Unmarshal parses a GiraphScenario from b.  Missing required fields and any
// framing that runs past the end of b are reported as ErrMalformed.
func (m *GiraphScenario) Unmarshal(b []byte) error {
	*m = GiraphScenario{}
	seen := make([]bool, fieldOutgoingMessageClass+1)
	headers := m.headerFields()
	err := walk(b, "GiraphScenario", 0, func(num protowire.Number, typ protowire.Type, b []byte, off int) (int, error) {
		if dst, found := headers[num]; found {
			seen[num] = true
			return headerField(dst, num, typ, b, off)
		}
		if num != fieldScenario {
			return -1, nil
		}
		path := fmt.Sprintf("scenario[%d]", len(m.Scenarios))
		v, n, err := bytesField(typ, b, path, off)
		if err != nil {
			return 0, err
		}
		s := new(Scenario)
		if err := s.unmarshal(v, path, off+n-len(v)); err != nil {
			return 0, err
		}
		m.Scenarios = append(m.Scenarios, s)
		return n, nil
	})
	if err != nil {
		return err
	}
	return missingHeader(seen, len(b))
}

// Unmarshal parses a single Scenario message.
func (s *Scenario) Unmarshal(b []byte) error {
	*s = Scenario{}
	return s.unmarshal(b, "scenario", 0)
}

func (s *Scenario) unmarshal(b []byte, path string, base int) error {
	var hasID, hasValue bool
	err := walk(b, path, base, func(num protowire.Number, typ protowire.Type, b []byte, off int) (int, error) {
		switch num {
		case fieldVertexID:
			v, n, err := bytesField(typ, b, path+".vertexId", off)
			s.VertexID, hasID = v, true
			return n, err
		case fieldVertexValue:
			v, n, err := bytesField(typ, b, path+".vertexValue", off)
			s.VertexValue, hasValue = v, true
			return n, err
		case fieldMessage:
			msgPath := fmt.Sprintf("%s.message[%d]", path, len(s.Messages))
			v, n, err := bytesField(typ, b, msgPath, off)
			if err != nil {
				return 0, err
			}
			data, err := unmarshalMsgData(v, msgPath, off+n-len(v))
			if err != nil {
				return 0, err
			}
			s.Messages = append(s.Messages, data)
			return n, nil
		case fieldNeighbor:
			nbrPath := fmt.Sprintf("%s.neighbor[%d]", path, len(s.Neighbors))
			v, n, err := bytesField(typ, b, nbrPath, off)
			if err != nil {
				return 0, err
			}
			nbr := new(Neighbor)
			if err := nbr.unmarshal(v, nbrPath, off+n-len(v)); err != nil {
				return 0, err
			}
			s.Neighbors = append(s.Neighbors, nbr)
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return err
	}
	if !hasID {
		return malformed(path, base, "missing required vertexId")
	}
	if !hasValue {
		return malformed(path, base, "missing required vertexValue")
	}
	return nil
}

func (n *Neighbor) unmarshal(b []byte, path string, base int) error {
	var hasID bool
	err := walk(b, path, base, func(num protowire.Number, typ protowire.Type, b []byte, off int) (int, error) {
		switch num {
		case fieldNeighborID:
			v, used, err := bytesField(typ, b, path+".neighborId", off)
			n.NeighborID, hasID = v, true
			return used, err
		case fieldEdgeValue:
			v, used, err := bytesField(typ, b, path+".edgeValue", off)
			n.EdgeValue, n.HasEdgeValue = v, true
			return used, err
		case fieldMsg:
			msgPath := fmt.Sprintf("%s.msg[%d]", path, len(n.Msgs))
			v, used, err := bytesField(typ, b, msgPath, off)
			if err != nil {
				return 0, err
			}
			data, err := unmarshalMsgData(v, msgPath, off+used-len(v))
			if err != nil {
				return 0, err
			}
			n.Msgs = append(n.Msgs, data)
			return used, nil
		}
		return -1, nil
	})
	if err != nil {
		return err
	}
	if !hasID {
		return malformed(path, base, "missing required neighborId")
	}
	return nil
}

func unmarshalMsgData(b []byte, path string, base int) ([]byte, error) {
	var data []byte
	var hasData bool
	err := walk(b, path, base, func(num protowire.Number, typ protowire.Type, b []byte, off int) (int, error) {
		if num != fieldMsgData {
			return -1, nil
		}
		v, n, err := bytesField(typ, b, path+".msgData", off)
		data, hasData = v, true
		return n, err
	})
	if err != nil {
		return nil, err
	}
	if !hasData {
		return nil, malformed(path, base, "missing required msgData")
	}
	return data, nil
}

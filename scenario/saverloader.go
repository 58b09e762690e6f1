package scenario

import (
	"context"
	"errors"
	"fmt"

	humanize "github.com/dustin/go-humanize"

	"github.com/janelia-flyem/graft/datatype"
	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/scenario/proto"
	"github.com/janelia-flyem/graft/storage"
	"github.com/janelia-flyem/graft/storage/local"
)

// Field names used in ResolutionError.
const (
	FieldComputation     = "computation"
	FieldVertexID        = "vertex id"
	FieldVertexValue     = "vertex value"
	FieldEdgeValue       = "edge value"
	FieldIncomingMessage = "incoming message"
	FieldOutgoingMessage = "outgoing message"
)

// Config selects the envelope of saved files.  The zero Config saves plain
// protobuf readable by any GiraphScenario parser.
type Config struct {
	Compression graft.Compression
	Checksum    graft.Checksum
}

// SaverLoader loads and saves scenario files whose header types resolve to
// the type parameters I, V, E, M1 and M2.
type SaverLoader[I comparable, V, E, M1, M2 any] struct {
	registry *datatype.Registry
	store    storage.Store
	config   Config
}

// New returns a SaverLoader resolving descriptors through registry and reading
// and writing files through store.  A nil registry means datatype.Default and a
// nil store means the local filesystem.
func New[I comparable, V, E, M1, M2 any](registry *datatype.Registry, store storage.Store, c Config) *SaverLoader[I, V, E, M1, M2] {
	if registry == nil {
		registry = datatype.Default
	}
	if store == nil {
		store = &local.Store{}
	}
	return &SaverLoader[I, V, E, M1, M2]{registry: registry, store: store, config: c}
}

// codecs are the header types of one file, resolved for the type parameters.
type codecs[I comparable, V, E, M1, M2 any] struct {
	id       datatype.Codec[I]
	value    datatype.Codec[V]
	edge     datatype.Codec[E]
	edgeNull bool
	in       datatype.Codec[M1]
	out      datatype.Codec[M2]
}

func resolveCodec[T any](r *datatype.Registry, field, name string, want datatype.Bound) (datatype.Codec[T], *datatype.Type, error) {
	t, err := r.Resolve(name, want)
	if err != nil {
		return nil, nil, &ResolutionError{Field: field, Descriptor: name, Err: err}
	}
	c, err := datatype.CodecFor[T](t)
	if err != nil {
		return nil, nil, &ResolutionError{Field: field, Descriptor: name, Err: err}
	}
	return c, t, nil
}

// Resolve checks that every descriptor of h is registered with the bounds its
// field needs and with codecs for the type parameters.
func (sl *SaverLoader[I, V, E, M1, M2]) Resolve(h Header) error {
	_, err := sl.resolve(h)
	return err
}

func (sl *SaverLoader[I, V, E, M1, M2]) resolve(h Header) (*codecs[I, V, E, M1, M2], error) {
	if _, err := sl.registry.Resolve(h.Computation, datatype.Computation); err != nil {
		return nil, &ResolutionError{Field: FieldComputation, Descriptor: h.Computation, Err: err}
	}
	c := new(codecs[I, V, E, M1, M2])
	var err error
	if c.id, _, err = resolveCodec[I](sl.registry, FieldVertexID, h.VertexID, datatype.Key); err != nil {
		return nil, err
	}
	if c.value, _, err = resolveCodec[V](sl.registry, FieldVertexValue, h.VertexValue, datatype.Value); err != nil {
		return nil, err
	}
	var edgeType *datatype.Type
	if c.edge, edgeType, err = resolveCodec[E](sl.registry, FieldEdgeValue, h.EdgeValue, datatype.Value); err != nil {
		return nil, err
	}
	c.edgeNull = edgeType.Null
	if c.in, _, err = resolveCodec[M1](sl.registry, FieldIncomingMessage, h.IncomingMessage, datatype.Value); err != nil {
		return nil, err
	}
	if c.out, _, err = resolveCodec[M2](sl.registry, FieldOutgoingMessage, h.OutgoingMessage, datatype.Value); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and decodes the scenario file at path.
func (sl *SaverLoader[I, V, E, M1, M2]) Load(ctx context.Context, path string) (*File[I, V, E, M1, M2], error) {
	timedLog := graft.NewTimeLog()
	data, err := sl.store.ReadAll(ctx, path)
	if err != nil {
		return nil, err
	}
	f, err := sl.Decode(data)
	if err != nil {
		return nil, err
	}
	timedLog.Debugf("Loaded %d scenarios from %s in %s (%s)", f.Len(), path, sl.store, humanize.Bytes(uint64(len(data))))
	return f, nil
}

// Save encodes f and writes it to path.  Nothing is written if encoding fails.
func (sl *SaverLoader[I, V, E, M1, M2]) Save(ctx context.Context, path string, f *File[I, V, E, M1, M2]) error {
	timedLog := graft.NewTimeLog()
	data, err := sl.Encode(f)
	if err != nil {
		return err
	}
	if err := sl.store.WriteAll(ctx, path, data); err != nil {
		return err
	}
	timedLog.Debugf("Saved %d scenarios to %s in %s (%s)", f.Len(), path, sl.store, humanize.Bytes(uint64(len(data))))
	return nil
}

// Decode parses a stored scenario file, with or without an envelope.  The
// header types are resolved before any record is parsed.
func (sl *SaverLoader[I, V, E, M1, M2]) Decode(data []byte) (*File[I, V, E, M1, M2], error) {
	body, _, _, err := graft.DeserializeData(data)
	if err != nil {
		return nil, &MalformedError{Record: -1, Err: err}
	}
	var hdr proto.GiraphScenario
	if err := hdr.UnmarshalHeader(body); err != nil {
		return nil, &MalformedError{Record: -1, Err: err}
	}
	h := Header{
		Computation:     hdr.ClassUnderTest,
		VertexID:        hdr.VertexIDClass,
		VertexValue:     hdr.VertexValueClass,
		EdgeValue:       hdr.EdgeValueClass,
		IncomingMessage: hdr.IncomingMessageClass,
		OutgoingMessage: hdr.OutgoingMessageClass,
	}
	c, err := sl.resolve(h)
	if err != nil {
		return nil, err
	}

	var msg proto.GiraphScenario
	if err := msg.Unmarshal(body); err != nil {
		return nil, &MalformedError{Record: -1, Err: err}
	}

	f := NewFile[I, V, E, M1, M2](h)
	for i, s := range msg.Scenarios {
		r, err := c.decodeRecord(s)
		if err != nil {
			return nil, &MalformedError{Record: i, Err: err}
		}
		f.AddRecord(r)
	}
	return f, nil
}

func (c *codecs[I, V, E, M1, M2]) decodeRecord(s *proto.Scenario) (*Record[I, V, E, M1, M2], error) {
	id, err := c.id.Decode(s.VertexID)
	if err != nil {
		return nil, fmt.Errorf("vertex id: %w", err)
	}
	value, err := c.value.Decode(s.VertexValue)
	if err != nil {
		return nil, fmt.Errorf("vertex value: %w", err)
	}
	r := NewRecord[I, V, E, M1, M2]()
	r.SetVertexID(id)
	r.SetVertexValue(value)

	for i, data := range s.Messages {
		msg, err := c.in.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("incoming message %d: %w", i, err)
		}
		r.AddIncomingMessage(msg)
	}

	for i, nbr := range s.Neighbors {
		nbrID, err := c.id.Decode(nbr.NeighborID)
		if err != nil {
			return nil, fmt.Errorf("neighbor %d id: %w", i, err)
		}
		edgeValue := None[E]()
		if nbr.HasEdgeValue && !c.edgeNull {
			v, err := c.edge.Decode(nbr.EdgeValue)
			if err != nil {
				return nil, fmt.Errorf("neighbor %d edge value: %w", i, err)
			}
			edgeValue = Some(v)
		}
		r.AddNeighbor(nbrID, edgeValue)

		for j, data := range nbr.Msgs {
			msg, err := c.out.Decode(data)
			if err != nil {
				return nil, fmt.Errorf("neighbor %d outgoing message %d: %w", i, j, err)
			}
			r.AddOutgoingMessage(nbrID, msg)
		}
	}
	return r, nil
}

// Encode returns the stored form of f using the configured envelope.  Encoding
// the same unmodified file twice yields identical bytes.
func (sl *SaverLoader[I, V, E, M1, M2]) Encode(f *File[I, V, E, M1, M2]) ([]byte, error) {
	if f == nil {
		return nil, errors.New("cannot encode nil scenario file")
	}
	c, err := sl.resolve(f.header)
	if err != nil {
		return nil, err
	}
	msg := &proto.GiraphScenario{
		ClassUnderTest:       f.header.Computation,
		VertexIDClass:        f.header.VertexID,
		VertexValueClass:     f.header.VertexValue,
		EdgeValueClass:       f.header.EdgeValue,
		IncomingMessageClass: f.header.IncomingMessage,
		OutgoingMessageClass: f.header.OutgoingMessage,
		Scenarios:            make([]*proto.Scenario, 0, len(f.records)),
	}
	for i, r := range f.records {
		s, err := c.encodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		msg.Scenarios = append(msg.Scenarios, s)
	}
	return graft.SerializeData(msg.Marshal(), sl.config.Compression, sl.config.Checksum)
}

func (c *codecs[I, V, E, M1, M2]) encodeRecord(r *Record[I, V, E, M1, M2]) (*proto.Scenario, error) {
	if err := r.checkLoaded(); err != nil {
		return nil, err
	}
	s := new(proto.Scenario)
	var err error
	if s.VertexID, err = c.id.Encode(r.vertexID.value); err != nil {
		return nil, fmt.Errorf("vertex id: %w", err)
	}
	if s.VertexValue, err = c.value.Encode(r.vertexValue.value); err != nil {
		return nil, fmt.Errorf("vertex value: %w", err)
	}
	for i, msg := range r.inMsgs {
		data, err := c.in.Encode(msg)
		if err != nil {
			return nil, fmt.Errorf("incoming message %d: %w", i, err)
		}
		s.Messages = append(s.Messages, data)
	}

	for pair := r.neighbors.Oldest(); pair != nil; pair = pair.Next() {
		nbr := &proto.Neighbor{}
		if nbr.NeighborID, err = c.id.Encode(pair.Key); err != nil {
			return nil, fmt.Errorf("neighbor %v id: %w", pair.Key, err)
		}
		if v, present := pair.Value.EdgeValue.Get(); present && !c.edgeNull {
			if nbr.EdgeValue, err = c.edge.Encode(v); err != nil {
				return nil, fmt.Errorf("neighbor %v edge value: %w", pair.Key, err)
			}
			nbr.HasEdgeValue = true
		}
		for j, msg := range pair.Value.OutgoingMessages {
			data, err := c.out.Encode(msg)
			if err != nil {
				return nil, fmt.Errorf("neighbor %v outgoing message %d: %w", pair.Key, j, err)
			}
			nbr.Msgs = append(nbr.Msgs, data)
		}
		s.Neighbors = append(s.Neighbors, nbr)
	}
	return s, nil
}

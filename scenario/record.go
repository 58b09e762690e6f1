package scenario

import (
	"reflect"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NeighborEntry is what a record holds for one neighbor.
type NeighborEntry[E, M any] struct {
	EdgeValue        Option[E]
	OutgoingMessages []M
}

// Record is one captured vertex step.  Type parameters are the vertex id,
// vertex value, edge value, incoming message and outgoing message types.
//
// Neighbors are kept in the order they were first referenced.  Adding an edge
// value or an outgoing message for a known neighbor updates its entry in place.
// A Record is not safe for concurrent mutation.
type Record[I comparable, V, E, M1, M2 any] struct {
	vertexID    Option[I]
	vertexValue Option[V]
	inMsgs      []M1
	neighbors   *orderedmap.OrderedMap[I, *NeighborEntry[E, M2]]
}

// NewRecord returns an empty record.  Accessors return ErrNotInitialized until
// both SetVertexID and SetVertexValue have been called.
func NewRecord[I comparable, V, E, M1, M2 any]() *Record[I, V, E, M1, M2] {
	r := new(Record[I, V, E, M1, M2])
	r.Reset()
	return r
}

// Reset clears the record back to its unpopulated state.
func (r *Record[I, V, E, M1, M2]) Reset() {
	r.vertexID = None[I]()
	r.vertexValue = None[V]()
	r.inMsgs = nil
	r.neighbors = orderedmap.New[I, *NeighborEntry[E, M2]]()
}

func (r *Record[I, V, E, M1, M2]) checkLoaded() error {
	if r == nil || !r.vertexID.IsPresent() || !r.vertexValue.IsPresent() {
		return ErrNotInitialized
	}
	if r.neighbors == nil {
		r.neighbors = orderedmap.New[I, *NeighborEntry[E, M2]]()
	}
	return nil
}

func (r *Record[I, V, E, M1, M2]) SetVertexID(id I) {
	r.vertexID = Some(id)
}

func (r *Record[I, V, E, M1, M2]) SetVertexValue(v V) {
	r.vertexValue = Some(v)
}

func (r *Record[I, V, E, M1, M2]) AddIncomingMessage(msg M1) {
	r.inMsgs = append(r.inMsgs, msg)
}

// entry returns the neighbor entry for id, creating it with an absent edge
// value and no messages if needed.
func (r *Record[I, V, E, M1, M2]) entry(id I) *NeighborEntry[E, M2] {
	if r.neighbors == nil {
		r.neighbors = orderedmap.New[I, *NeighborEntry[E, M2]]()
	}
	nbr, found := r.neighbors.Get(id)
	if !found {
		nbr = &NeighborEntry[E, M2]{EdgeValue: None[E]()}
		r.neighbors.Set(id, nbr)
	}
	return nbr
}

// AddNeighbor sets the edge value of neighbor id, adding the neighbor if needed.
// Outgoing messages already recorded for the neighbor are kept.
func (r *Record[I, V, E, M1, M2]) AddNeighbor(id I, edgeValue Option[E]) {
	r.entry(id).EdgeValue = edgeValue
}

// SetEdgeValue is AddNeighbor with a present edge value.
func (r *Record[I, V, E, M1, M2]) SetEdgeValue(id I, edgeValue E) {
	r.AddNeighbor(id, Some(edgeValue))
}

// AddOutgoingMessage appends msg to the messages sent to neighbor id, adding the
// neighbor with an absent edge value if needed.
func (r *Record[I, V, E, M1, M2]) AddOutgoingMessage(id I, msg M2) {
	nbr := r.entry(id)
	nbr.OutgoingMessages = append(nbr.OutgoingMessages, msg)
}

func (r *Record[I, V, E, M1, M2]) VertexID() (I, error) {
	if err := r.checkLoaded(); err != nil {
		var zero I
		return zero, err
	}
	return r.vertexID.value, nil
}

func (r *Record[I, V, E, M1, M2]) VertexValue() (V, error) {
	if err := r.checkLoaded(); err != nil {
		var zero V
		return zero, err
	}
	return r.vertexValue.value, nil
}

// IncomingMessages returns a copy of the received messages in arrival order.
func (r *Record[I, V, E, M1, M2]) IncomingMessages() ([]M1, error) {
	if err := r.checkLoaded(); err != nil {
		return nil, err
	}
	return slices.Clone(r.inMsgs), nil
}

// Neighbors returns the neighbor ids in the order they were first referenced.
func (r *Record[I, V, E, M1, M2]) Neighbors() ([]I, error) {
	if err := r.checkLoaded(); err != nil {
		return nil, err
	}
	ids := make([]I, 0, r.neighbors.Len())
	for pair := r.neighbors.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids, nil
}

func (r *Record[I, V, E, M1, M2]) NumNeighbors() (int, error) {
	if err := r.checkLoaded(); err != nil {
		return 0, err
	}
	return r.neighbors.Len(), nil
}

// Neighbor returns a copy of the entry for neighbor id.
func (r *Record[I, V, E, M1, M2]) Neighbor(id I) (NeighborEntry[E, M2], error) {
	if err := r.checkLoaded(); err != nil {
		return NeighborEntry[E, M2]{}, err
	}
	nbr, found := r.neighbors.Get(id)
	if !found {
		return NeighborEntry[E, M2]{}, ErrNeighborNotFound
	}
	return NeighborEntry[E, M2]{
		EdgeValue:        nbr.EdgeValue,
		OutgoingMessages: slices.Clone(nbr.OutgoingMessages),
	}, nil
}

// EdgeValue returns the edge value to neighbor id, which may be absent.  An id
// that is not a neighbor returns ErrNeighborNotFound.
func (r *Record[I, V, E, M1, M2]) EdgeValue(id I) (Option[E], error) {
	nbr, err := r.Neighbor(id)
	if err != nil {
		return None[E](), err
	}
	return nbr.EdgeValue, nil
}

// OutgoingMessages returns the messages sent to neighbor id in send order.
func (r *Record[I, V, E, M1, M2]) OutgoingMessages(id I) ([]M2, error) {
	nbr, err := r.Neighbor(id)
	if err != nil {
		return nil, err
	}
	return nbr.OutgoingMessages, nil
}

func (r *Record[I, V, E, M1, M2]) numNeighbors() int {
	if r.neighbors == nil {
		return 0
	}
	return r.neighbors.Len()
}

// equalOpts compare values structurally, unexported fields included, and treat
// nil and empty message slices alike.
var equalOpts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
}

func equalValues(a, b any) bool {
	return cmp.Equal(a, b, equalOpts...)
}

// Equal returns true if both records hold equal vertex ids and values, equal
// incoming message sequences, and the same neighbor set with equal edge values
// and outgoing message sequences.  Neighbor order is ignored.
func (r *Record[I, V, E, M1, M2]) Equal(o *Record[I, V, E, M1, M2]) bool {
	if r == nil || o == nil {
		return r == o
	}
	if !equalValues(r.vertexID, o.vertexID) || !equalValues(r.vertexValue, o.vertexValue) {
		return false
	}
	if !equalValues(r.inMsgs, o.inMsgs) {
		return false
	}
	if r.numNeighbors() != o.numNeighbors() {
		return false
	}
	if r.numNeighbors() == 0 {
		return true
	}
	for pair := r.neighbors.Oldest(); pair != nil; pair = pair.Next() {
		other, found := o.neighbors.Get(pair.Key)
		if !found || !equalValues(*pair.Value, *other) {
			return false
		}
	}
	return true
}

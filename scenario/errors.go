package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Record accessors before both the vertex id
	// and the vertex value have been set.
	ErrNotInitialized = errors.New("scenario has not been loaded or initialized")

	// ErrNeighborNotFound is returned when looking up an id that is not a neighbor.
	// A known neighbor without an edge value is not an error; its edge value is absent.
	ErrNeighborNotFound = errors.New("neighbor not found")
)

// ResolutionError reports a header type descriptor that is not registered or
// whose registered type cannot serve its field.
type ResolutionError struct {
	Field      string
	Descriptor string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s type %q: %v", e.Field, e.Descriptor, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// MalformedError reports stored data that cannot be decoded: bad framing, a
// failed checksum, or value bytes rejected by a codec.  Record is the index of
// the offending record, or -1 if the failure is not within a record.
type MalformedError struct {
	Record int
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("malformed scenario file: %v", e.Err)
	}
	return fmt.Sprintf("malformed scenario file, record %d: %v", e.Record, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

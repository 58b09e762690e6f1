package scenario

// Header holds the type descriptors shared by every record of a file.
type Header struct {
	Computation     string
	VertexID        string
	VertexValue     string
	EdgeValue       string
	IncomingMessage string
	OutgoingMessage string
}

// File is an ordered collection of records sharing one Header.
type File[I comparable, V, E, M1, M2 any] struct {
	header  Header
	records []*Record[I, V, E, M1, M2]
}

// NewFile returns an empty file whose records will be typed by h.
func NewFile[I comparable, V, E, M1, M2 any](h Header) *File[I, V, E, M1, M2] {
	return &File[I, V, E, M1, M2]{header: h}
}

func (f *File[I, V, E, M1, M2]) Header() Header {
	return f.header
}

// AddRecord appends r.  Records are saved in the order they were added.
func (f *File[I, V, E, M1, M2]) AddRecord(r *Record[I, V, E, M1, M2]) {
	f.records = append(f.records, r)
}

// Records returns the records in order.  The slice is a copy; the records are not.
func (f *File[I, V, E, M1, M2]) Records() []*Record[I, V, E, M1, M2] {
	out := make([]*Record[I, V, E, M1, M2], len(f.records))
	copy(out, f.records)
	return out
}

func (f *File[I, V, E, M1, M2]) Len() int {
	return len(f.records)
}

// Equal returns true if both files have the same header and pairwise equal records.
func (f *File[I, V, E, M1, M2]) Equal(o *File[I, V, E, M1, M2]) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.header != o.header || len(f.records) != len(o.records) {
		return false
	}
	for i := range f.records {
		if !f.records[i].Equal(o.records[i]) {
			return false
		}
	}
	return true
}

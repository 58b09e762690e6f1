package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/janelia-flyem/graft/scenario"
)

type (
	anyFile   = scenario.File[any, any, any, any, any]
	anyRecord = scenario.Record[any, any, any, any, any]
)

// dumper writes a readable listing of a scenario file.  Plain dumpers never
// emit color codes so their output can be diffed.
type dumper struct {
	w      io.Writer
	label  func(a ...interface{}) string
	absent func(a ...interface{}) string
}

func newDumper(w io.Writer, plain bool) *dumper {
	if plain {
		return &dumper{w: w, label: fmt.Sprint, absent: fmt.Sprint}
	}
	return &dumper{
		w:      w,
		label:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		absent: color.New(color.FgYellow).SprintFunc(),
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case []byte:
		return fmt.Sprintf("0x%x", v)
	}
	return fmt.Sprint(v)
}

// dumpFile lists the header and every record of f.  A positive size is the
// stored size of the file.
func (d *dumper) dumpFile(name string, f *anyFile, size int) error {
	var text strings.Builder
	h := f.Header()
	header := func(field, descriptor string) {
		fmt.Fprintf(&text, "%s %s\n", d.label(fmt.Sprintf("%-18s", field+":")), descriptor)
	}
	header("file", name)
	if size > 0 {
		header("size", humanize.Bytes(uint64(size)))
	}
	header(scenario.FieldComputation, h.Computation)
	header(scenario.FieldVertexID, h.VertexID)
	header(scenario.FieldVertexValue, h.VertexValue)
	header(scenario.FieldEdgeValue, h.EdgeValue)
	header(scenario.FieldIncomingMessage, h.IncomingMessage)
	header(scenario.FieldOutgoingMessage, h.OutgoingMessage)
	header("records", strconv.Itoa(f.Len()))

	for i, r := range f.Records() {
		if err := d.dumpRecord(&text, i, r); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	_, err := io.WriteString(d.w, text.String())
	return err
}

func (d *dumper) dumpRecord(text *strings.Builder, i int, r *anyRecord) error {
	id, err := r.VertexID()
	if err != nil {
		return err
	}
	value, err := r.VertexValue()
	if err != nil {
		return err
	}
	fmt.Fprintf(text, "\n%s vertex %s = %s\n", d.label(fmt.Sprintf("record %d", i)), formatValue(id), formatValue(value))

	in, err := r.IncomingMessages()
	if err != nil {
		return err
	}
	for _, msg := range in {
		fmt.Fprintf(text, "  <- %s\n", formatValue(msg))
	}

	ids, err := r.Neighbors()
	if err != nil {
		return err
	}
	for _, nbrID := range ids {
		nbr, err := r.Neighbor(nbrID)
		if err != nil {
			return err
		}
		edge := d.absent("(absent)")
		if v, present := nbr.EdgeValue.Get(); present {
			edge = formatValue(v)
		}
		fmt.Fprintf(text, "  neighbor %s edge %s\n", formatValue(nbrID), edge)
		for _, msg := range nbr.OutgoingMessages {
			fmt.Fprintf(text, "    -> %s\n", formatValue(msg))
		}
	}
	return nil
}

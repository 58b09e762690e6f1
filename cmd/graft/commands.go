package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/scenario"
	"github.com/janelia-flyem/graft/scenario/proto"
)

func (c *command) saverLoader(sc scenario.Config) *scenario.SaverLoader[any, any, any, any, any] {
	return scenario.New[any, any, any, any, any](c.registry, c.store, sc)
}

// acceptComputation registers the computation named in the header of data so
// files from any computation can be inspected.
func (c *command) acceptComputation(data []byte) error {
	body, _, _, err := graft.DeserializeData(data)
	if err != nil {
		return err
	}
	var msg proto.GiraphScenario
	if err := msg.UnmarshalHeader(body); err != nil {
		return err
	}
	if _, found := c.registry.Lookup(msg.ClassUnderTest); found {
		return nil
	}
	graft.Debugf("Accepting computation %q from file header\n", msg.ClassUnderTest)
	return c.registry.RegisterComputation(msg.ClassUnderTest)
}

// load returns the decoded file at path with its stored bytes.
func (c *command) load(ctx context.Context, path string) (*anyFile, []byte, error) {
	data, err := c.store.ReadAll(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if c.trust {
		if err := c.acceptComputation(data); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	f, err := c.saverLoader(c.config).Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, data, nil
}

func (c *command) dump(ctx context.Context, path string) error {
	f, data, err := c.load(ctx, path)
	if err != nil {
		return err
	}
	return newDumper(c.out, c.plain).dumpFile(path, f, len(data))
}

func (c *command) diff(ctx context.Context, pathA, pathB string) error {
	a, _, err := c.load(ctx, pathA)
	if err != nil {
		return err
	}
	b, _, err := c.load(ctx, pathB)
	if err != nil {
		return err
	}
	if a.Equal(b) {
		fmt.Fprintf(c.out, "%s and %s hold equal scenarios\n", pathA, pathB)
		return nil
	}

	var textA, textB strings.Builder
	if err := newDumper(&textA, true).dumpFile(pathA, a, 0); err != nil {
		return err
	}
	if err := newDumper(&textB, true).dumpFile(pathB, b, 0); err != nil {
		return err
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(textA.String()),
		B:        difflib.SplitLines(textB.String()),
		FromFile: pathA,
		ToFile:   pathB,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return err
	}
	if text == "" {
		// Equal listings that compare unequal differ only in neighbor order.
		text = "records list the same neighbors in a different order\n"
	}
	fmt.Fprint(c.out, text)
	return errDiffer
}

// verify re-encodes the file at path with its own envelope settings and checks
// the result matches the stored bytes.
func (c *command) verify(ctx context.Context, path string) error {
	f, data, err := c.load(ctx, path)
	if err != nil {
		return err
	}
	_, compress, checksum, err := graft.DeserializeData(data)
	if err != nil {
		return err
	}
	encoded, err := c.saverLoader(scenario.Config{Compression: compress, Checksum: checksum}).Encode(f)
	if err != nil {
		return fmt.Errorf("%s: re-encoding: %w", path, err)
	}
	if !bytes.Equal(data, encoded) {
		off := 0
		for off < len(data) && off < len(encoded) && data[off] == encoded[off] {
			off++
		}
		return fmt.Errorf("%s: re-encoded file differs at byte %d (stored %s, re-encoded %s)",
			path, off, humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(len(encoded))))
	}
	fmt.Fprintf(c.out, "%s: %d records, %s, compression %s, checksum %s: reproduced exactly\n",
		path, f.Len(), humanize.Bytes(uint64(len(data))), compress, checksum)
	return nil
}

func (c *command) convert(ctx context.Context, src, dst string) error {
	f, data, err := c.load(ctx, src)
	if err != nil {
		return err
	}
	sl := c.saverLoader(c.config)
	if err := sl.Save(ctx, dst, f); err != nil {
		return err
	}
	saved, err := c.store.ReadAll(ctx, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s (%s) -> %s (%s, compression %s, checksum %s)\n", src, humanize.Bytes(uint64(len(data))),
		dst, humanize.Bytes(uint64(len(saved))), c.config.Compression, c.config.Checksum)
	return nil
}

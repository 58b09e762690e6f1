package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/janelia-flyem/graft/datatype"
	"github.com/janelia-flyem/graft/datatype/writable"
	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/scenario"
	"github.com/janelia-flyem/graft/storage/blobstore"
)

const testComputation = "org.apache.giraph.examples.SimpleShortestPathsComputation"

var testHeader = scenario.Header{
	Computation:     testComputation,
	VertexID:        writable.LongName,
	VertexValue:     writable.DoubleName,
	EdgeValue:       writable.FloatName,
	IncomingMessage: writable.DoubleName,
	OutgoingMessage: writable.DoubleName,
}

type testFile = scenario.File[int64, float64, float32, float64, float64]

func newCommand(t *testing.T, trust bool) (*command, *bytes.Buffer) {
	t.Helper()
	reg := datatype.NewRegistry()
	require.NoError(t, writable.Register(reg))
	if !trust {
		require.NoError(t, reg.RegisterComputation(testComputation))
	}
	var out bytes.Buffer
	return &command{
		registry: reg,
		store:    blobstore.New(memblob.OpenBucket(nil), "mem://"),
		trust:    trust,
		plain:    true,
		out:      &out,
	}, &out
}

func makeFile(edge float32) *testFile {
	r := scenario.NewRecord[int64, float64, float32, float64, float64]()
	r.SetVertexID(1)
	r.SetVertexValue(0.5)
	r.AddIncomingMessage(2.5)
	r.SetEdgeValue(2, edge)
	r.AddOutgoingMessage(2, 3)
	r.AddNeighbor(3, scenario.None[float32]())

	f := scenario.NewFile[int64, float64, float32, float64, float64](testHeader)
	f.AddRecord(r)
	return f
}

func save(t *testing.T, c *command, path string, f *testFile, sc scenario.Config) {
	t.Helper()
	reg := datatype.NewRegistry()
	require.NoError(t, writable.Register(reg))
	require.NoError(t, reg.RegisterComputation(testComputation))
	sl := scenario.New[int64, float64, float32, float64, float64](reg, c.store, sc)
	require.NoError(t, sl.Save(context.Background(), path, f))
}

func TestDump(t *testing.T) {
	c, out := newCommand(t, false)
	save(t, c, "step", makeFile(1.5), scenario.Config{})

	require.NoError(t, c.do(context.Background(), []string{"dump", "step"}))
	text := out.String()
	require.Contains(t, text, testComputation)
	require.Contains(t, text, "records:           1")
	require.Contains(t, text, "record 0 vertex 1 = 0.5")
	require.Contains(t, text, "  <- 2.5\n")
	require.Contains(t, text, "  neighbor 2 edge 1.5\n    -> 3\n")
	require.Contains(t, text, "  neighbor 3 edge (absent)\n")
}

func TestTrustComputation(t *testing.T) {
	c, _ := newCommand(t, true)
	save(t, c, "step", makeFile(1.5), scenario.Config{})

	c.trust = false
	err := c.do(context.Background(), []string{"dump", "step"})
	var rerr *scenario.ResolutionError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	require.Equal(t, scenario.FieldComputation, rerr.Field)

	c.trust = true
	require.NoError(t, c.do(context.Background(), []string{"dump", "step"}))
}

func TestDiff(t *testing.T) {
	c, out := newCommand(t, false)
	save(t, c, "expected", makeFile(1.5), scenario.Config{})
	save(t, c, "same", makeFile(1.5), scenario.Config{Compression: graft.Snappy})
	save(t, c, "actual", makeFile(4), scenario.Config{})

	require.NoError(t, c.do(context.Background(), []string{"diff", "expected", "same"}))
	require.Contains(t, out.String(), "equal scenarios")

	out.Reset()
	err := c.do(context.Background(), []string{"diff", "expected", "actual"})
	require.True(t, errors.Is(err, errDiffer))
	require.Contains(t, out.String(), "--- expected")
	require.Contains(t, out.String(), "+++ actual")
	require.Contains(t, out.String(), "-  neighbor 2 edge 1.5")
	require.Contains(t, out.String(), "+  neighbor 2 edge 4")
}

func TestVerifyAndConvert(t *testing.T) {
	ctx := context.Background()
	c, out := newCommand(t, false)
	save(t, c, "plain", makeFile(1.5), scenario.Config{})

	require.NoError(t, c.do(ctx, []string{"verify", "plain"}))
	require.Contains(t, out.String(), "reproduced exactly")

	c.config = scenario.Config{Compression: graft.Zstd, Checksum: graft.XXHash}
	require.NoError(t, c.do(ctx, []string{"convert", "plain", "packed"}))
	packed, err := c.store.ReadAll(ctx, "packed")
	require.NoError(t, err)
	require.True(t, graft.HasEnvelope(packed))

	out.Reset()
	require.NoError(t, c.do(ctx, []string{"verify", "packed"}))
	require.Contains(t, out.String(), "compression zstd, checksum xxhash")

	require.NoError(t, c.do(ctx, []string{"diff", "plain", "packed"}))
}

func TestVerifyNonCanonical(t *testing.T) {
	ctx := context.Background()
	c, _ := newCommand(t, false)
	save(t, c, "plain", makeFile(1.5), scenario.Config{})
	data, err := c.store.ReadAll(ctx, "plain")
	require.NoError(t, err)

	// An unknown trailing field is skipped on load but not written back.
	data = append(data, 0x78, 0x01)
	require.NoError(t, c.store.WriteAll(ctx, "extra", data))
	require.NoError(t, c.do(ctx, []string{"dump", "extra"}))
	err = c.do(ctx, []string{"verify", "extra"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "differs at byte")
}

func TestCommandErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := newCommand(t, false)
	require.Error(t, c.do(ctx, []string{"frobnicate"}))
	require.Error(t, c.do(ctx, []string{"dump"}))
	require.Error(t, c.do(ctx, []string{"diff", "a"}))
	require.Error(t, c.do(ctx, []string{"dump", "missing"}))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "graft.toml")
	config := `
[logging]
logfile = "logs/graft.log"
max_log_size = 10
max_log_age = 7
level = "warning"

[store]
ref = "scenarios"

[format]
compression = "snappy"
checksum = "crc32"

[types]
computations = ["org.example.PageRank"]

[types.aliases]
"com.example.VertexId" = "org.apache.hadoop.io.LongWritable"
`
	require.NoError(t, os.WriteFile(filename, []byte(config), 0644))

	tc, err := loadConfig(filename)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "logs", "graft.log"), tc.Logging.Logfile)
	require.Equal(t, 10, tc.Logging.MaxSize)
	require.Equal(t, 7, tc.Logging.MaxAge)
	require.Equal(t, "warning", tc.Logging.Level)
	require.Equal(t, filepath.Join(dir, "scenarios"), tc.Store.Ref)

	sc, err := tc.saveConfig()
	require.NoError(t, err)
	require.Equal(t, scenario.Config{Compression: graft.Snappy, Checksum: graft.CRC32}, sc)

	reg := datatype.NewRegistry()
	require.NoError(t, writable.Register(reg))
	require.NoError(t, tc.registerTypes(reg))
	_, err = reg.Resolve("org.example.PageRank", datatype.Computation)
	require.NoError(t, err)
	alias, err := reg.Resolve("com.example.VertexId", datatype.Key)
	require.NoError(t, err)
	require.Equal(t, writable.LongName, alias.Name)

	tc.Format.Checksum = "md5"
	_, err = tc.saveConfig()
	require.Error(t, err)
}

func TestLoadConfigKeepsURLs(t *testing.T) {
	tc := &tomlConfig{Store: storeConfig{Ref: "gs://bucket/scenarios"}}
	require.NoError(t, tc.convertPathsToAbsolute("/etc/graft/graft.toml"))
	require.Equal(t, "gs://bucket/scenarios", tc.Store.Ref)

	empty, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "", empty.Store.Ref)
	require.True(t, strings.HasPrefix(helpMessage, "\ngraft"))
}

// Command-line tool for inspecting, comparing and re-saving Giraph debugger
// scenario files.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/janelia-flyem/graft/datatype"
	_ "github.com/janelia-flyem/graft/datatype/writable"
	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/scenario"
	"github.com/janelia-flyem/graft/storage"
	_ "github.com/janelia-flyem/graft/storage/badger"
	_ "github.com/janelia-flyem/graft/storage/blobstore"
	_ "github.com/janelia-flyem/graft/storage/local"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	// Path to a TOML configuration file.
	configFile = flag.String("config", "", "")

	// Store reference, overriding [store].ref.
	storeRef = flag.String("store", "", "")

	// Envelope settings for saved files, overriding [format].
	compression = flag.String("compression", "", "")
	checksum    = flag.String("checksum", "", "")

	// Accept the computation named in each file header.
	trust = flag.Bool("trust", false, "")

	// Disable colored output.
	noColor = flag.Bool("nocolor", false, "")
)

const helpMessage = `
graft inspects and re-saves Giraph debugger scenario files

Usage: graft [options] <command>

      -config      =string   TOML configuration file.
      -store       =string   Store reference: a directory, a bucket URL (file://, mem://,
                             gs://, s3://) or badger:///path.  Default is the working directory.
      -compression =string   Compression of saved files: none, snappy, zstd.
      -checksum    =string   Checksum of saved files: none, crc32, xxhash.
      -trust       (flag)    Accept the computation named in each file header.
      -nocolor     (flag)    Disable colored output.
      -verbose     (flag)    Log at debug level, overriding [logging].level.
  -h, -help        (flag)    Show help message

Commands:

	dump    <path>          List the header and records of a scenario file.
	diff    <path> <path>   Compare two scenario files; exit status 1 if they differ.
	verify  <path>          Check that re-saving a file reproduces it byte for byte.
	convert <src> <dst>     Re-save a file using the configured compression and checksum.
	types                   List the registered type descriptors.
	engines                 List the compiled storage engines.
	version                 Print the version of this executable.
`

// errDiffer is returned by diff when the files are not equal.
var errDiffer = errors.New("scenario files differ")

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = func() {
		fmt.Print(helpMessage)
	}
	flag.Parse()

	if flag.NArg() >= 1 && strings.ToLower(flag.Args()[0]) == "help" {
		*showHelp = true
	}
	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *noColor {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, flag.Args())
	stop()
	graft.Shutdown()
	if err != nil {
		if !errors.Is(err, errDiffer) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	tc, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	if err := tc.Logging.Apply(); err != nil {
		return err
	}
	if *runVerbose {
		graft.SetLevel(graft.DebugLevel)
	}

	if *storeRef != "" {
		tc.Store.Ref = *storeRef
	}
	if *compression != "" {
		tc.Format.Compression = *compression
	}
	if *checksum != "" {
		tc.Format.Checksum = *checksum
	}
	if err := tc.registerTypes(datatype.Default); err != nil {
		return err
	}
	sc, err := tc.saveConfig()
	if err != nil {
		return err
	}

	switch args[0] {
	case "types":
		fmt.Print(datatype.Default.Chart())
		return nil
	case "engines":
		fmt.Print(storage.EnginesAvailable())
		return nil
	case "version":
		fmt.Printf("graft %s\n", graft.Version())
		return nil
	}

	store, err := storage.OpenStore(tc.Store.Ref)
	if err != nil {
		return err
	}
	defer store.Close()

	c := &command{
		registry: datatype.Default,
		store:    store,
		config:   sc,
		trust:    *trust,
		out:      os.Stdout,
	}
	return c.do(ctx, args)
}

// command runs the commands that read or write scenario files.
type command struct {
	registry *datatype.Registry
	store    storage.Store
	config   scenario.Config
	trust    bool
	plain    bool
	out      io.Writer
}

func (c *command) do(ctx context.Context, args []string) error {
	name, args := args[0], args[1:]
	want := map[string]int{"dump": 1, "diff": 2, "verify": 1, "convert": 2}
	n, found := want[name]
	if !found {
		return fmt.Errorf("unknown command %q; try 'graft help'", name)
	}
	if len(args) != n {
		return fmt.Errorf("%s needs %d argument(s), got %d", name, n, len(args))
	}

	switch name {
	case "dump":
		return c.dump(ctx, args[0])
	case "diff":
		return c.diff(ctx, args[0], args[1])
	case "verify":
		return c.verify(ctx, args[0])
	default:
		return c.convert(ctx, args[0], args[1])
	}
}

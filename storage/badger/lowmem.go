//go:build lowmem

package badger

import (
	"net/url"

	"github.com/dgraph-io/badger/v3"

	"github.com/janelia-flyem/graft/graft"
)

func getOptions(directory string, params url.Values) (badger.Options, error) {
	opts := badger.DefaultOptions(directory).WithValueThreshold(DefaultValueThreshold)

	// Low-memory options
	graft.Infof("Using Badger with low memory options.\n")
	opts = opts.WithValueLogFileSize(1<<20 - 1) // 1 MB value log file
	opts = opts.WithMemTableSize(1 << 20)
	opts = opts.WithNumMemtables(1)
	opts = opts.WithBlockCacheSize(1 << 20)
	opts = opts.WithIndexCacheSize(1 << 20)
	return applyParams(opts, params)
}

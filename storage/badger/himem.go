//go:build !lowmem

package badger

import (
	"net/url"

	"github.com/dgraph-io/badger/v3"
)

func getOptions(directory string, params url.Values) (badger.Options, error) {
	opts := badger.DefaultOptions(directory)
	return applyParams(opts, params)
}

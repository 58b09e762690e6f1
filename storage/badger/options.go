package badger

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dgraph-io/badger/v3"
)

// DefaultValueThreshold is the value size above which low-memory builds keep
// values in the value log.  Scenario files are usually a few kilobytes.
const DefaultValueThreshold = 1 << 10

// applyParams sets the options given as query parameters of a badger reference:
//
//	readonly=true            open the database read-only
//	value_threshold=N        bytes above which values go to the value log
//	value_log_file_size=N    size of each value log file in bytes
func applyParams(opts badger.Options, params url.Values) (badger.Options, error) {
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		switch key {
		case "readonly":
			readOnly, err := strconv.ParseBool(value)
			if err != nil {
				return opts, fmt.Errorf("badger readonly %q: %w", value, err)
			}
			opts = opts.WithReadOnly(readOnly)
		case "value_threshold":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return opts, fmt.Errorf("badger value_threshold %q: %w", value, err)
			}
			opts = opts.WithValueThreshold(n)
		case "value_log_file_size":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return opts, fmt.Errorf("badger value_log_file_size %q: %w", value, err)
			}
			opts = opts.WithValueLogFileSize(n)
		default:
			return opts, fmt.Errorf("unknown badger option %q", key)
		}
	}
	return opts, nil
}

/*
	Package storage provides a unified interface to the places scenario files
	are kept.  A Store only reads and writes whole files; encoding happens above
	the storage level.

	Storage engines register themselves from init() and are selected by the
	scheme of a store reference:

		/data/scenarios            local filesystem (storage/local)
		file:///data/scenarios     gocloud.dev bucket (storage/blobstore)
		mem://, gs://b, s3://b     gocloud.dev bucket (storage/blobstore)
		badger:///data/scen.db     badger key/value database (storage/badger)
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blang/semver"
)

// ErrNotFound is wrapped by errors for paths that hold no data.
var ErrNotFound = errors.New("scenario file not found")

// Store reads and writes whole scenario files.  A failed WriteAll must leave any
// previous content at path intact.
type Store interface {
	ReadAll(ctx context.Context, path string) ([]byte, error)
	WriteAll(ctx context.Context, path string, data []byte) error
	Close() error
	fmt.Stringer
}

// Engine is a storage implementation able to open stores.
type Engine interface {
	GetName() string
	GetDescription() string
	GetSemVer() semver.Version

	// Schemes returns the reference schemes handled by this engine.  The empty
	// scheme means plain filesystem paths.
	Schemes() []string

	// NewStore opens a store for the reference.
	NewStore(ref string) (Store, error)
}

var (
	enginesMu sync.RWMutex
	engines   = make(map[string]Engine)
	schemes   = make(map[string]Engine)
)

// RegisterEngine makes a storage engine available under its name and schemes.
func RegisterEngine(e Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[e.GetName()] = e
	for _, scheme := range e.Schemes() {
		schemes[scheme] = e
	}
}

// GetEngine returns the engine of the given name or nil if it isn't compiled in.
func GetEngine(name string) Engine {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	return engines[name]
}

// EnginesAvailable returns a chart of the compiled storage engines.
func EnginesAvailable() string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)

	var text strings.Builder
	text.WriteString("\nStorage engines compiled into this executable\n\n")
	fmt.Fprintf(&text, "%-10s %-10s %-30s %s\n", "Name", "Version", "Schemes", "Description")
	for _, name := range names {
		e := engines[name]
		var sch []string
		for _, s := range e.Schemes() {
			if s == "" {
				s = "(path)"
			} else {
				s += "://"
			}
			sch = append(sch, s)
		}
		fmt.Fprintf(&text, "%-10s %-10s %-30s %s\n", name, e.GetSemVer(), strings.Join(sch, " "), e.GetDescription())
	}
	return text.String() + "\n"
}

// Scheme returns the scheme of a store reference or "" for plain paths.
func Scheme(ref string) string {
	i := strings.Index(ref, "://")
	if i <= 0 {
		return ""
	}
	return ref[:i]
}

// OpenStore opens a store for the reference using the engine registered for its scheme.
func OpenStore(ref string) (Store, error) {
	scheme := Scheme(ref)
	enginesMu.RLock()
	e, found := schemes[scheme]
	enginesMu.RUnlock()
	if !found {
		if scheme == "" {
			return nil, fmt.Errorf("no storage engine for filesystem paths is compiled in")
		}
		return nil, fmt.Errorf("no storage engine handles %q references", scheme+"://")
	}
	return e.NewStore(ref)
}

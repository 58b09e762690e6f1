// Package badger implements a scenario Store on the badger key/value database,
// convenient for keeping many captured supersteps of a run in one directory.
package badger

import (
	"fmt"

	"github.com/blang/semver"

	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/storage"
)

const (
	// DefaultVersionsToKeep is the number of versions of a path badger retains.
	DefaultVersionsToKeep = 1

	// DefaultSyncWrites forces writes to disk before a transaction commits.
	DefaultSyncWrites = true
)

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		graft.Errorf("Unable to make semver in badger: %v\n", err)
	}
	e := Engine{"badger", "BadgerDB", ver}
	storage.RegisterEngine(e)
}

// --- Engine Implementation ------

type Engine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e Engine) GetName() string {
	return e.name
}

func (e Engine) GetDescription() string {
	return e.desc
}

func (e Engine) GetSemVer() semver.Version {
	return e.semver
}

func (e Engine) Schemes() []string {
	return []string{"badger"}
}

func (e Engine) String() string {
	return fmt.Sprintf("%s [%s]", e.name, e.semver)
}

// NewStore opens the database named by a "badger:///path/to/dir" reference,
// optionally followed by a query of options (see applyParams).
func (e Engine) NewStore(ref string) (storage.Store, error) {
	dir, params, err := directoryFromRef(ref)
	if err != nil {
		return nil, err
	}
	return OpenWithParams(dir, params)
}

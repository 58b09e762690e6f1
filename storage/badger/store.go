package badger

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/storage"
)

// Store keeps scenario files as values of a badger database keyed by path.
// Each write is a single transaction, so readers see either the old or the new file.
type Store struct {
	db        *badger.DB
	directory string
}

// graftLogger routes badger's own logging to the graft logger.
type graftLogger struct{}

func (graftLogger) Errorf(format string, args ...interface{})   { graft.Errorf(format, args...) }
func (graftLogger) Warningf(format string, args ...interface{}) { graft.Warningf(format, args...) }
func (graftLogger) Infof(format string, args ...interface{})    { graft.Debugf(format, args...) }
func (graftLogger) Debugf(format string, args ...interface{})   { graft.Debugf(format, args...) }

// Open opens, creating if needed, the badger database in directory.
func Open(directory string) (*Store, error) {
	return OpenWithParams(directory, nil)
}

// OpenWithParams is Open with the options of a badger reference query.
func OpenWithParams(directory string, params url.Values) (*Store, error) {
	directory, err := graft.ExpandHome(directory)
	if err != nil {
		return nil, err
	}
	opts, err := getOptions(directory, params)
	if err != nil {
		return nil, err
	}
	opts = opts.WithLogger(graftLogger{}).
		WithNumVersionsToKeep(DefaultVersionsToKeep).
		WithSyncWrites(DefaultSyncWrites)

	graft.Debugf("Opening badger @ path %s\n", directory)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, directory: directory}, nil
}

func (s *Store) String() string {
	return fmt.Sprintf("badger @ %s", s.directory)
}

// ReadAll returns the value stored under path.
func (s *Store) ReadAll(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s in %s", storage.ErrNotFound, path, s)
	}
	return data, err
}

// WriteAll stores data under path in one transaction.
func (s *Store) WriteAll(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), data)
	})
}

// Paths returns the stored paths with the given prefix in key order.
func (s *Store) Paths(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			paths = append(paths, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return paths, err
}

func (s *Store) Close() error {
	graft.Debugf("Closing badger @ path %s\n", s.directory)
	return s.db.Close()
}

// directoryFromRef splits a "badger:///dir?opt=value" reference into its
// directory and options.
func directoryFromRef(ref string) (string, url.Values, error) {
	dir, query, _ := strings.Cut(strings.TrimPrefix(ref, "badger://"), "?")
	if dir == "" {
		return "", nil, fmt.Errorf("badger reference %q has no directory", ref)
	}
	params, err := url.ParseQuery(query)
	if err != nil {
		return "", nil, fmt.Errorf("badger reference %q: %w", ref, err)
	}
	return dir, params, nil
}

// Package blobstore implements a Store over a gocloud.dev bucket, so scenario
// files can live in Google Cloud Storage, S3, a local directory tree or memory.
package blobstore

import (
	"context"
	"fmt"

	"github.com/blang/semver"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/storage"
)

// ContentType is set on every written object.
const ContentType = "application/x-protobuf"

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		graft.Errorf("Unable to make semver in blobstore: %v\n", err)
	}
	storage.RegisterEngine(Engine{"blob", "gocloud.dev bucket (GCS, S3, fileblob, memblob)", ver})
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
	return []string{"file", "mem", "gs", "s3"}
}

func (e Engine) String() string {
	return fmt.Sprintf("%s [%s]", e.name, e.semver)
}

func (e Engine) NewStore(ref string) (storage.Store, error) {
	return Open(context.Background(), ref)
}

// Store keeps each scenario file as one object of a bucket.
type Store struct {
	bucket *blob.Bucket
	ref    string
}

// Open opens the bucket at the given URL, e.g. "gs://my-bucket" or "file:///data/scenarios".
func Open(ctx context.Context, ref string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, ref)
	if err != nil {
		graft.Errorf("Can't open bucket reference @ %q: %v\n", ref, err)
		return nil, err
	}
	return &Store{bucket: bucket, ref: ref}, nil
}

// New wraps an already opened bucket.  The store takes ownership of it.
func New(bucket *blob.Bucket, ref string) *Store {
	return &Store{bucket: bucket, ref: ref}
}

func (s *Store) String() string {
	return fmt.Sprintf("bucket @ %s", s.ref)
}

// ReadAll returns the object stored under path.
func (s *Store) ReadAll(ctx context.Context, path string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, path)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %w", storage.ErrNotFound, err)
		}
		return nil, err
	}
	return data, nil
}

// WriteAll stores data under path.  Bucket writes only become visible once the
// whole object has been written, so a failed write leaves the old object.
func (s *Store) WriteAll(ctx context.Context, path string, data []byte) error {
	return s.bucket.WriteAll(ctx, path, data, &blob.WriterOptions{ContentType: ContentType})
}

func (s *Store) Close() error {
	return s.bucket.Close()
}

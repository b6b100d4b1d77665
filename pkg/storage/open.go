package storage

import (
	"context"
	"path/filepath"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string // file (default), sqlite, redis or mongo

	Dir           string // file and sqlite: data directory
	RedisURL      string
	RedisPrefix   string
	MongoURI      string
	MongoDatabase string
}

// Open returns the store selected by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		return NewSQLiteStore(filepath.Join(dir, "ontoforge.db"))
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "redis backend requires a URL")
		}
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisPrefix)
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "mongo backend requires a URI")
		}
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unknown storage backend %q", opts.Backend)
}

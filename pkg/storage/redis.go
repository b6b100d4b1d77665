package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the keys written by RedisStore.
const DefaultRedisPrefix = "ontoforge:"

// RedisStore keeps the workspace in Redis under three keys: the metadata
// string, a hash of ontology documents by ID, and a list holding their
// order. Saves run in a MULTI/EXEC transaction.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis instance at url
// (redis://[:password@]host:port/db).
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) metaKey() string  { return s.prefix + "meta" }
func (s *RedisStore) docsKey() string  { return s.prefix + "ontologies" }
func (s *RedisStore) orderKey() string { return s.prefix + "order" }

func (s *RedisStore) Save(ctx context.Context, st *State) error {
	meta, recs, err := encodeState(st)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.metaKey(), meta, 0)
		pipe.Del(ctx, s.docsKey(), s.orderKey())
		if len(recs) == 0 {
			return nil
		}
		fields := make([]any, 0, 2*len(recs))
		ids := make([]any, 0, len(recs))
		for _, r := range recs {
			fields = append(fields, r.ID, r.Payload)
			ids = append(ids, r.ID)
		}
		pipe.HSet(ctx, s.docsKey(), fields...)
		pipe.RPush(ctx, s.orderKey(), ids...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*State, error) {
	meta, err := s.client.Get(ctx, s.metaKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meta: %w", err)
	}
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	docs, err := s.client.HGetAll(ctx, s.docsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("get ontologies: %w", err)
	}
	recs := make([]record, 0, len(ids))
	for _, id := range ids {
		doc, ok := docs[id]
		if !ok {
			return nil, fmt.Errorf("ontology %s listed but not stored", id)
		}
		recs = append(recs, record{ID: id, Payload: []byte(doc)})
	}
	return decodeState(meta, recs)
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)

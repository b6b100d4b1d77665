package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "ontoforge"

// MongoStore keeps the workspace in two MongoDB collections: "workspace"
// holds the metadata document and "ontologies" one document per ontology.
//
// Saves are not transactional, so a failed save can leave a mix of old and
// new ontologies; the metadata is written last.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

type mongoOntology struct {
	ID       string `bson:"_id"`
	Position int    `bson:"position"`
	Payload  string `bson:"payload"`
}

type mongoMeta struct {
	ID      string `bson:"_id"`
	Payload string `bson:"payload"`
}

// NewMongoStore connects to uri and uses database (DefaultMongoDatabase if
// empty).
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) ontologies() *mongo.Collection { return s.db.Collection("ontologies") }
func (s *MongoStore) workspace() *mongo.Collection  { return s.db.Collection("workspace") }

func (s *MongoStore) Save(ctx context.Context, st *State) error {
	meta, recs, err := encodeState(st)
	if err != nil {
		return err
	}
	ids := make([]string, len(recs))
	upsert := options.Replace().SetUpsert(true)
	for i, r := range recs {
		ids[i] = r.ID
		doc := mongoOntology{ID: r.ID, Position: i, Payload: string(r.Payload)}
		if _, err := s.ontologies().ReplaceOne(ctx, bson.M{"_id": r.ID}, doc, upsert); err != nil {
			return fmt.Errorf("save ontology %s: %w", r.ID, err)
		}
	}
	if _, err := s.ontologies().DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("prune ontologies: %w", err)
	}
	if _, err := s.workspace().ReplaceOne(ctx, bson.M{"_id": "meta"},
		mongoMeta{ID: "meta", Payload: string(meta)}, upsert); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context) (*State, error) {
	var meta mongoMeta
	err := s.workspace().FindOne(ctx, bson.M{"_id": "meta"}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find meta: %w", err)
	}

	cur, err := s.ontologies().Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find ontologies: %w", err)
	}
	var docs []mongoOntology
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode ontologies: %w", err)
	}
	recs := make([]record, len(docs))
	for i, d := range docs {
		recs[i] = record{ID: d.ID, Payload: []byte(d.Payload)}
	}
	return decodeState([]byte(meta.Payload), recs)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)

package offsets

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "roadline"
	DefaultMongoCollection = "marker_offsets"
)

// offsetDoc is the stored document. The offset key is the document ID.
type offsetDoc struct {
	Key       string    `bson:"_id"`
	DX        float64   `bson:"dx"`
	DY        float64   `bson:"dy"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per offset key.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore uses collection coll of database db on client. Empty names
// use the defaults.
func NewMongoStore(client *mongo.Client, db, coll string) *MongoStore {
	if db == "" {
		db = DefaultMongoDatabase
	}
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}
}

func (s *MongoStore) Get(ctx context.Context, key string) (geom.Offset, error) {
	var doc offsetDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return geom.Offset{}, nil
	}
	if err != nil {
		return geom.Offset{}, errors.Wrap(errors.ErrCodeStorage, err, "get offset %s", key)
	}
	return geom.Offset{DX: doc.DX, DY: doc.DY}, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, o geom.Offset) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"dx": o.DX, "dy": o.DY, "updated_at": time.Now().UTC()}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "set offset %s", key)
	}
	return nil
}

func (s *MongoStore) All(ctx context.Context) (map[string]geom.Offset, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list offsets")
	}
	var docs []offsetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list offsets")
	}
	out := make(map[string]geom.Offset, len(docs))
	for _, d := range docs {
		out[d.Key] = geom.Offset{DX: d.DX, DY: d.DY}
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete offset %s", key)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

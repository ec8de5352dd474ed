// Package mongo keeps session records as documents of the session_records
// collection, one document per key.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quantiva/dashboard/internal/core/domain"
)

const (
	recordCollection = "session_records"
	appName          = "quantiva-dashboard"
	defaultTimeout   = 10 * time.Second
)

// Config names the deployment and the database holding session_records.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RecordStorage upserts records by _id.
type RecordStorage struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Key       string `bson:"_id"`
	Value     []byte `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

// Open connects, pings the primary and returns a store that owns the client.
func Open(ctx context.Context, cfg Config) (*RecordStorage, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	s := NewRecordStorage(client.Database(cfg.Database))
	s.client = client
	return s, nil
}

// NewRecordStorage wraps an existing database handle. Close is then a no-op;
// the caller keeps ownership of the client.
func NewRecordStorage(db *mongo.Database) *RecordStorage {
	return &RecordStorage{coll: db.Collection(recordCollection)}
}

func (s *RecordStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrRecordNotFound
	case err != nil:
		return nil, fmt.Errorf("mongo find record: %w", err)
	}
	return rec.Value, nil
}

func (s *RecordStorage) Set(ctx context.Context, key string, value []byte) error {
	doc := mongoRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC().Unix()}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("mongo upsert record: %w", err)
	}
	return nil
}

func (s *RecordStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete record: %w", err)
	}
	return nil
}

func (s *RecordStorage) Ping(ctx context.Context) error {
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *RecordStorage) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/quantiva/dashboard/internal/core/domain"
)

func TestRecordStorage(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "test." + recordCollection

	mt.Run("get existing record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "quantiva_user"},
			{Key: "value", Value: []byte(`{"id":"1"}`)},
			{Key: "updated_at", Value: int64(1700000000)},
		}))

		got, err := NewRecordStorage(mt.DB).Get(context.Background(), "quantiva_user")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if string(got) != `{"id":"1"}` {
			mt.Fatalf("expected record, got %q", got)
		}
	})

	mt.Run("get missing record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewRecordStorage(mt.DB).Get(context.Background(), "quantiva_user")
		if !errors.Is(err, domain.ErrRecordNotFound) {
			mt.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "quantiva_user"}}}},
		))

		if err := NewRecordStorage(mt.DB).Set(context.Background(), "quantiva_user", []byte("v")); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("set surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key",
		}))

		if err := NewRecordStorage(mt.DB).Set(context.Background(), "quantiva_user", []byte("v")); err == nil {
			mt.Fatalf("expected error")
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := NewRecordStorage(mt.DB).Delete(context.Background(), "quantiva_user"); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := NewRecordStorage(mt.DB).Ping(context.Background()); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})
}

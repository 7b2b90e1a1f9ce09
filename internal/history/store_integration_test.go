package history

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Requires a running mongod; skipped unless MONGO_TEST_URI is set.
func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil { t.Fatalf("connect: %v", err) }
	defer client.Disconnect(context.Background())

	store, err := NewMongoStore(ctx, client, "walletchat_test")
	if err != nil { t.Fatalf("store: %v", err) }

	id, err := store.Save(ctx, "user-1", []Message{
		{ID: "1", Role: "user", Content: "show my transactions"},
		{ID: "2", Role: "assistant", Content: "here", Action: "transactions"},
	})
	if err != nil || id == "" { t.Fatalf("save: id=%q err=%v", id, err) }

	chats, err := store.List(ctx, "user-1", 10)
	if err != nil { t.Fatalf("list: %v", err) }
	if len(chats) == 0 || chats[0].ID == "" { t.Fatalf("chats=%d", len(chats)) }

	if err := store.Delete(ctx, "user-1", id); err != nil { t.Fatalf("delete: %v", err) }
	if err := store.Delete(ctx, "user-1", id); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("second delete err=%v", err)
	}
}

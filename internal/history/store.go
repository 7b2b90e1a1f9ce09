package history

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Message is one persisted chat message. Action carries the classified
// intent alongside assistant replies so transcripts can be replayed.
type Message struct {
	ID      string `bson:"id" json:"id"`
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
	Action  string `bson:"action,omitempty" json:"action,omitempty"`
}

// Chat is one saved transcript.
type Chat struct {
	ID        string    `bson:"-" json:"id"`
	OID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Messages  []Message `bson:"messages" json:"messages"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Store persists chat transcripts per user, newest first.
type Store interface {
	Save(ctx context.Context, userID string, messages []Message) (string, error)
	List(ctx context.Context, userID string, limit int) ([]Chat, error)
	Delete(ctx context.Context, userID, chatID string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore sets up the chats collection with a user_id/created_at index
// matching the newest-first listing.
func NewMongoStore(ctx context.Context, client *mongo.Client, dbName string) (*MongoStore, error) {
	coll := client.Database(dbName).Collection("chats")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	return &MongoStore{coll: coll}, nil
}

// Save sanitizes and stores a transcript. Empty transcripts are rejected so
// a blank submit never creates a document.
func (s *MongoStore) Save(ctx context.Context, userID string, messages []Message) (string, error) {
	if userID == "" {
		return "", errors.New("missing user id")
	}
	clean := sanitize(messages)
	if len(clean) == 0 {
		return "", errors.New("empty transcript")
	}
	res, err := s.coll.InsertOne(ctx, Chat{
		UserID:    userID,
		Messages:  clean,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *MongoStore) List(ctx context.Context, userID string, limit int) ([]Chat, error) {
	if userID == "" {
		return nil, errors.New("missing user id")
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var chats []Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	for i := range chats {
		chats[i].ID = chats[i].OID.Hex()
	}
	return chats, nil
}

func (s *MongoStore) Delete(ctx context.Context, userID, chatID string) error {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return errors.New("invalid chat id")
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{
		{Key: "_id", Value: oid},
		{Key: "user_id", Value: userID},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// sanitize drops messages that would persist as empty husks and fills
// required fields, mirroring what the UI expects to read back.
func sanitize(in []Message) []Message {
	out := make([]Message, 0, len(in))
	for _, m := range in {
		if m.Content == "" && m.Action == "" {
			continue
		}
		if m.Role == "" {
			m.Role = "user"
		}
		out = append(out, m)
	}
	return out
}

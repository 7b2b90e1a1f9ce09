package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionStore maps a bearer session token to the authenticated wallet
// address. Sessions are issued by the external embedded-wallet auth
// provider; this service only reads them.
type SessionStore interface {
	WalletFor(ctx context.Context, token string) (string, error)
	Ping(ctx context.Context) error
}

type cacheEntry struct {
	wallet    string
	expiresAt time.Time
}

type MongoSessionStore struct {
	coll     *mongo.Collection
	cacheTTL time.Duration
	mu       sync.RWMutex
	cache    map[string]cacheEntry
}

type sessionDoc struct {
	Token  string `bson:"token"`
	Wallet string `bson:"wallet"`
	Active bool   `bson:"active"`
	UserID string `bson:"user_id,omitempty"`
}

// NewMongoSessionStore sets up the collection and unique index on token.
func NewMongoSessionStore(ctx context.Context, client *mongo.Client, dbName string, ttl time.Duration) (*MongoSessionStore, error) {
	coll := client.Database(dbName).Collection("wallet_sessions")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoSessionStore{
		coll:     coll,
		cacheTTL: ttl,
		cache:    make(map[string]cacheEntry),
	}, nil
}

// WalletFor returns the wallet address bound to token, or "" when the token
// is unknown or inactive. Lookups are cached briefly, negative results too.
func (s *MongoSessionStore) WalletFor(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("missing token")
	}
	s.mu.RLock()
	ce, ok := s.cache[token]
	s.mu.RUnlock()
	if ok && time.Now().Before(ce.expiresAt) {
		return ce.wallet, nil
	}
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "token", Value: token}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.put(token, "")
			return "", nil
		}
		return "", err
	}
	wallet := doc.Wallet
	if !doc.Active {
		wallet = ""
	}
	s.put(token, wallet)
	return wallet, nil
}

func (s *MongoSessionStore) put(token, wallet string) {
	s.mu.Lock()
	s.cache[token] = cacheEntry{wallet: wallet, expiresAt: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()
}

func (s *MongoSessionStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// Upsert registers or refreshes a session binding. Used by provisioning
// tooling and integration tests, not by the request path.
func (s *MongoSessionStore) Upsert(ctx context.Context, token, wallet, userID string, active bool) error {
	if token == "" {
		return errors.New("missing token")
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "token", Value: token}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "wallet", Value: wallet},
			{Key: "active", Value: active},
			{Key: "user_id", Value: userID},
		}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	w := wallet
	if !active {
		w = ""
	}
	s.put(token, w)
	return nil
}

// HashPrefix returns the first 8 hex chars of SHA-256(token) for logging.
func HashPrefix(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:8]
}

type ctxKey string

const ctxKeyWallet ctxKey = "wallet"

// WithWallet binds the authenticated wallet address to the context.
func WithWallet(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, ctxKeyWallet, address)
}

// WalletFrom returns the authenticated wallet address, "" when the request
// carried no valid session.
func WalletFrom(ctx context.Context) string {
	w, _ := ctx.Value(ctxKeyWallet).(string)
	return w
}

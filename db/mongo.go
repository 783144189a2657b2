package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blog-api/config"
)

// BlogsCollection holds BlogPost documents.
const BlogsCollection = "blogs"

// State is the lifecycle of the store connection.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Listening
	Failed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Listening:
		return "listening"
	case Failed:
		return "failed"
	default:
		return "disconnected"
	}
}

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
	state      atomic.Int32
)

// ErrNotInitialized is returned when the store is used before Init succeeded.
var ErrNotInitialized = errors.New("mongo client is not initialized")

// Init connects the process-wide Mongo client, verifies it with a ping and
// ensures indexes. It must succeed before the HTTP server accepts traffic.
func Init(ctx context.Context, cfg config.MongoConfig) error {
	var initErr error
	clientOnce.Do(func() {
		state.Store(int32(Connecting))
		ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			initErr = fmt.Errorf("connect mongo: %w", err)
			state.Store(int32(Failed))
			return
		}
		d := cl.Database(cfg.DBName)
		if err := prepare(ctx, cl, d); err != nil {
			// 실패한 클라이언트는 전역에 남기지 않는다.
			_ = cl.Disconnect(context.Background())
			initErr = err
			state.Store(int32(Failed))
			return
		}
		client, db = cl, d
		state.Store(int32(Connected))
	})
	if initErr == nil && client == nil {
		return ErrNotInitialized
	}
	return initErr
}

// prepare verifies the connection and creates indexes on d.
func prepare(ctx context.Context, cl *mongo.Client, d *mongo.Database) error {
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	if err := EnsureIndexes(ctx, d); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

func Database() *mongo.Database { return db }

// CurrentState reports the connection lifecycle state.
func CurrentState() State { return State(state.Load()) }

// MarkListening moves a connected store to Listening once the HTTP listener
// is about to accept traffic. Any other state is left unchanged.
func MarkListening() bool {
	return state.CompareAndSwap(int32(Connected), int32(Listening))
}

// Ping checks that the store is reachable.
func Ping(ctx context.Context) error {
	if db == nil {
		return ErrNotInitialized
	}
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Disconnect closes the process-wide client.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	err := client.Disconnect(ctx)
	state.Store(int32(Disconnected))
	return err
}

// EnsureIndexes creates the indexes used by list and author queries.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	// blogs: created_at asc (list order), author (author search)
	_, err := d.Collection(BlogsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_created_at_asc"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("idx_author"),
		},
	})
	return err
}

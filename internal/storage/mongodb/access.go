package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Access encapsulates the client and the service database.
type Access struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  Timeout
}

var (
	DefaultURI               = "mongodb://localhost:27017"
	DefaultConnectTimeout    = 10 * time.Second
	DefaultDisconnectTimeout = 10 * time.Second
	DefaultPingTimeout       = 2 * time.Second
	DefaultIndexTimeout      = 5 * time.Second
)

type Config struct {
	URI      string
	Database string
	Timeout
}

// Timeout bounds connection management calls only. Collection reads and
// writes run on the caller's context.
type Timeout struct {
	Connect    time.Duration
	Disconnect time.Duration
	Ping       time.Duration
	Index      time.Duration
}

var ErrNoDBName = errors.New("no database name")

// Connect dials the server and pings it before returning.
func Connect(ctx context.Context, cfg Config) (*Access, error) {
	if cfg.Database == "" {
		return nil, ErrNoDBName
	}
	cfg = fixConfig(cfg)

	cctx, cancel := context.WithTimeout(ctx, cfg.Timeout.Connect)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("unable to connect mongo server: %w", err)
	}

	a := &Access{client: client, database: client.Database(cfg.Database), timeout: cfg.Timeout}
	if err := a.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("db", cfg.Database).Msg("connected to mongodb")
	return a, nil
}

// Disconnect is suitable for defer.
func (a *Access) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout.Disconnect)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("unable to disconnect mongo server: %w", err)
	}
	return nil
}

func (a *Access) Database() *mongo.Database { return a.database }

func (a *Access) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout.Ping)
	defer cancel()
	if err := a.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("unable to ping mongo server: %w", err)
	}
	return nil
}

func fixConfig(c Config) Config {
	if c.URI == "" {
		c.URI = DefaultURI
	}
	if c.Timeout.Connect == 0 {
		c.Timeout.Connect = DefaultConnectTimeout
	}
	if c.Timeout.Disconnect == 0 {
		c.Timeout.Disconnect = DefaultDisconnectTimeout
	}
	if c.Timeout.Ping == 0 {
		c.Timeout.Ping = DefaultPingTimeout
	}
	if c.Timeout.Index == 0 {
		c.Timeout.Index = DefaultIndexTimeout
	}
	return c
}

////////////////////////////////////////////////////////////////////////////////

type IndexDescription struct {
	unique bool
	keys   []string
}

func NewIndexDescription(unique bool, keys ...string) IndexDescription {
	return IndexDescription{unique: unique, keys: keys}
}

func (id IndexDescription) AsBSON() bson.D {
	out := bson.D{}
	for _, k := range id.keys {
		out = append(out, bson.E{Key: k, Value: 1})
	}
	return out
}

// CollectionDefinition names a collection and the indexes it must carry.
type CollectionDefinition struct {
	Name    string
	Indexes []IndexDescription
}

// Collection returns the named collection with its indexes in place.
// Creating an index that already exists is a no-op on the server.
func (a *Access) Collection(ctx context.Context, def CollectionDefinition) (*mongo.Collection, error) {
	if def.Name == "" {
		return nil, errors.New("no collection name")
	}
	c := a.database.Collection(def.Name)
	for _, idx := range def.Indexes {
		if err := a.Index(ctx, c, idx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (a *Access) Index(ctx context.Context, c *mongo.Collection, d IndexDescription) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout.Index)
	defer cancel()
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    d.AsBSON(),
		Options: options.Index().SetUnique(d.unique),
	})
	if err != nil {
		return fmt.Errorf("create index on %s: %w", c.Name(), err)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// IsDuplicate reports a duplicate key error from a single or bulk write.
func IsDuplicate(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, mongo.ErrNoDocuments)
}

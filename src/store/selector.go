package store

import (
	"context"
	"log"
	"time"

	"forms-backend/src/database"
	"forms-backend/src/metrics"

	"go.mongodb.org/mongo-driver/mongo"
)

// Options drives backend selection at startup.
type Options struct {
	URI            string
	DBName         string
	ConnectTimeout time.Duration
	Mongo          MongoOptions
	// SeedDurable seeds an empty durable store with the sample data set.
	SeedDurable bool
}

// Backend is the storage decision made once per process. It never changes
// after Open returns; handlers receive it by injection.
type Backend struct {
	Mode      Mode
	Forms     FormStore
	Responses ResponseStore

	client *mongo.Client
}

// Open tries the durable store once, bounded by ConnectTimeout. Any failure
// selects the seeded in-memory fallback; there is no later reconnect.
func Open(ctx context.Context, opts Options) *Backend {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	client, err := database.ConnectMongoDB(ctx, opts.URI, opts.ConnectTimeout)
	if err != nil {
		log.Println("⚠️ MongoDB connection failed, using fallback data:", err)
		return NewFallbackBackend()
	}

	ms := NewMongoStore(client.Database(opts.DBName), opts.Mongo)
	if err := ms.EnsureIndexes(ctx); err != nil {
		log.Println("⚠️ Error ensuring indexes:", err)
	}
	if opts.SeedDurable {
		if _, err := ms.SeedIfEmpty(ctx); err != nil {
			log.Println("❌ Error seeding database:", err)
		}
	}

	log.Printf("📊 Database: MongoDB (%s)", opts.DBName)
	b := newBackend(ModeDurable, ms.Forms(), ms.Responses())
	b.client = client
	return b
}

// NewFallbackBackend returns a backend over a freshly seeded MemoryStore.
func NewFallbackBackend() *Backend {
	mem := NewSeededMemoryStore()
	log.Println("📊 Database: Fallback Mode (in-memory sample data)")
	return newBackend(ModeFallback, mem.Forms(), mem.Responses())
}

// NewBackend wraps the given stores; used by tests and tools that build stores directly.
func NewBackend(mode Mode, forms FormStore, responses ResponseStore) *Backend {
	return newBackend(mode, forms, responses)
}

func newBackend(mode Mode, forms FormStore, responses ResponseStore) *Backend {
	metrics.SetBackendMode(string(mode))
	return &Backend{
		Mode:      mode,
		Forms:     InstrumentForms(forms, mode),
		Responses: InstrumentResponses(responses, mode),
	}
}

// Close releases the durable client, if any.
func (b *Backend) Close(ctx context.Context) {
	database.DisconnectMongoDB(ctx, b.client)
}

package connect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joshua-takyi/gatherly/internal/config"
	"github.com/joshua-takyi/gatherly/internal/models"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

// Store is an opened event store together with the function that releases
// its connection.
type Store struct {
	models.EventStore
	Close func() error
}

// OpenStore connects the backend selected by cfg.StoreBackend and prepares
// its schema or indexes.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory event store; events are lost on restart")
		return &Store{EventStore: models.MemoryNewRepo(), Close: func() error { return nil }}, nil

	case config.BackendSQLite:
		db, err := SQLiteOpen(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo := models.SQLiteNewRepo(db)
		if err := repo.InitSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Connected to SQLite successfully", "path", cfg.SQLitePath)
		return &Store{EventStore: repo, Close: db.Close}, nil

	case config.BackendMongo:
		client, err := MongoDBConnect(ctx, cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			return nil, err
		}
		repo := models.MongodbNewRepo(client, cfg.MongoDBDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure MongoDB indexes", "error", err)
		}
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)
		return &Store{EventStore: repo, Close: func() error { return MongoDBDisconnect(client) }}, nil

	case config.BackendPostgres:
		pool, err := PostgresConnect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		repo := models.PostgresNewRepo(pool)
		if err := repo.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("Connected to PostgreSQL successfully")
		return &Store{EventStore: repo, Close: func() error { pool.Close(); return nil }}, nil
	}

	return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}

func SQLiteOpen(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %v", err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %v", err)
	}
	return db, nil
}

func MongoDBConnect(ctx context.Context, uri, password string) (*mongo.Client, error) {
	fullUri := strings.Replace(uri, "<password>", password, 1)

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	clientOptions := options.Client().ApplyURI(fullUri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	return client, nil
}

func MongoDBDisconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %v", err)
	}
	return nil
}

// PostgresConnect creates a pgx pool, retrying while the database container
// is still starting.
func PostgresConnect(ctx context.Context, databaseURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn("Postgres connect attempt failed", "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

func InitSupabase(url, key string) (*supabase.Client, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase: %v", err)
	}
	return client, nil
}

func CloudinaryCredentials(cloudName, apiKey, apiSecret string) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %v", err)
	}
	return cld, nil
}

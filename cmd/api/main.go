// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"roomfinder/internal/adapter/natsapi"
	"roomfinder/internal/adapter/ratelimit"
	"roomfinder/internal/adapter/storage"
	"roomfinder/internal/config"
	"roomfinder/internal/domain/room"
	"roomfinder/internal/logger"
	"roomfinder/internal/server"
	"roomfinder/internal/service/livesearch"
	"roomfinder/internal/service/rooms"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.ServiceName)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize the listing store
	store, closeStore, err := initStore(ctx, cfg.Store, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize listing store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	// Initialize services
	roomService := rooms.NewService(store, rooms.ServiceConfig{
		Collection: cfg.Store.Collection,
	}, zlog)

	// Optional rate limiter
	var limiter server.Limiter
	if cfg.Redis.Addr != "" {
		rdb, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			zlog.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()

		limiter = ratelimit.NewLimiter(rdb, ratelimit.Config{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
			Prefix:   cfg.RateLimit.Prefix,
		}, zlog)
	} else {
		zlog.Info("REDIS_ADDR not set, rate limiting disabled")
	}

	// Optional NATS responder
	if cfg.NATS.URL != "" {
		natsConn, err := initNATS(cfg.NATS, zlog)
		if err != nil {
			zlog.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsConn.Close()

		responder := natsapi.NewResponder(roomService, natsapi.Config{
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			QueueGroup:     cfg.NATS.QueueGroup,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, zlog)
		if err := responder.Start(natsConn); err != nil {
			zlog.Fatal("Failed to start NATS responder", zap.Error(err))
		}
		defer responder.Stop()
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		roomService,
		livesearch.Config{FilterDelay: cfg.Live.FilterDebounce},
		limiter,
		zlog,
	)

	// Start HTTP server
	go func() {
		zlog.Info("Starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	zlog.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server shutdown error", zap.Error(err))
	}

	zlog.Info("Shutdown complete")
}

// initStore opens the configured listing store and returns its close func
func initStore(ctx context.Context, cfg config.StoreConfig, zlog *zap.Logger) (room.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := initMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				zlog.Warn("MongoDB disconnect error", zap.Error(err))
			}
		}
		return storage.NewMongoStore(client.Database(cfg.Mongo.Database), zlog), closeFn, nil

	case config.DriverFirestore:
		return storage.NewFirestoreStore(storage.FirestoreConfig{
			BaseURL:   cfg.Firestore.BaseURL,
			ProjectID: cfg.Firestore.ProjectID,
			Database:  cfg.Firestore.Database,
			APIKey:    cfg.Firestore.APIKey,
			PageSize:  cfg.Firestore.PageSize,
			Timeout:   cfg.Firestore.Timeout,
		}, zlog), func() {}, nil

	case config.DriverPostgres:
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewDocumentStore(db), db.Close, nil

	case config.DriverMemory:
		if cfg.SeedFile == "" {
			zlog.Warn("STORE_SEED_FILE not set, memory store starts empty")
			return storage.NewMemoryStore(), func() {}, nil
		}
		store, err := storage.LoadMemoryStore(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Initialize MongoDB client
func initMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetMaxPoolSize(cfg.MaxPoolSize))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping MongoDB: %w", err)
	}

	return client, nil
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("unable to ping Redis: %w", err)
	}

	return rdb, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, zlog *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("roomfinder"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			zlog.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			zlog.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			zlog.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authsvc "bookflow/internal/app/services/auth"
	bookingsvc "bookflow/internal/app/services/booking"
	domainbooking "bookflow/internal/domain/booking"
	domainroom "bookflow/internal/domain/room"
	domainuser "bookflow/internal/domain/user"
	"bookflow/internal/infra/broker/kafka"
	"bookflow/internal/infra/config"
	mongodb "bookflow/internal/infra/db/mongo"
	ginserver "bookflow/internal/infra/http/gin"
	"bookflow/internal/infra/obs"
	"bookflow/internal/infra/security"
	"bookflow/internal/infra/storage/memory"
	"bookflow/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	stores, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage initialization failed", "error", err)
		os.Exit(1)
	}
	defer stores.close()

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	uploader := buildUploader(cfg, logger)

	tokens := security.JWTManager{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}
	authService := &authsvc.Service{
		Users:     stores.users,
		Passwords: security.BcryptHasher{},
		Tokens:    tokens,
		Logger:    logger,
	}
	engine := &bookingsvc.Service{
		Rooms:    stores.rooms,
		Bookings: stores.bookings,
		Events:   publisher,
		Logger:   logger,
	}

	if err := seedRooms(ctx, cfg, stores, logger); err != nil {
		logger.Warn("room fixtures load failed", "error", err, "path", cfg.RoomFixtures)
	}

	handlers := ginserver.Handlers{
		Auth:    ginserver.AuthHandler{Service: authService, Logger: logger, CookieSecure: !cfg.IsDev()},
		Room:    ginserver.RoomHandler{Rooms: stores.rooms, Engine: engine, Uploader: uploader, Logger: logger},
		Booking: ginserver.BookingHandler{Engine: engine, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Tokens:  tokens,
			Logger:  logger,
		}.Handle,
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: stores.ready}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type stores struct {
	rooms    domainroom.Repository
	bookings domainbooking.Repository
	users    domainuser.Repository
	// roomsEmpty reports whether fixtures should be imported.
	roomsEmpty func(ctx context.Context) (bool, error)
	ready      func() error
	close      func()
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	if cfg.MongoURI == "" {
		logger.Info("no MONGO_URI configured, using in-memory storage")
		rooms := memory.NewRoomRepository()
		return stores{
			rooms:      rooms,
			bookings:   memory.NewBookingRepository(),
			users:      memory.NewUserRepository(),
			roomsEmpty: func(context.Context) (bool, error) { return rooms.Empty(), nil },
			ready:      func() error { return nil },
			close:      func() {},
		}, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return stores{}, err
	}
	rooms := mongodb.NewRoomRepository(client.DB)
	bookings := mongodb.NewBookingRepository(client.DB)
	users := mongodb.NewUserRepository(client.DB)
	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := bookings.EnsureIndexes(indexCtx); err != nil {
		return stores{}, fmt.Errorf("booking indexes: %w", err)
	}
	if err := users.EnsureIndexes(indexCtx); err != nil {
		return stores{}, fmt.Errorf("user indexes: %w", err)
	}
	logger.Info("mongo storage ready", "database", cfg.MongoDB)
	return stores{
		rooms:      rooms,
		bookings:   bookings,
		users:      users,
		roomsEmpty: rooms.Empty,
		ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
		close: func() {},
	}, nil
}

func buildPublisher(cfg config.Config, logger *slog.Logger) (bookingsvc.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no KAFKA_BROKERS configured, events stay local")
		return bookingsvc.NoopPublisher{}, func() {}
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Warn("kafka producer unavailable, events stay local", "error", err)
		return bookingsvc.NoopPublisher{}, func() {}
	}
	logger.Info("kafka producer ready", "brokers", cfg.KafkaBrokers)
	publisher := &kafka.EventPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
	return publisher, func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	if cfg.S3Endpoint == "" {
		logger.Info("no S3_ENDPOINT configured, photo uploads disabled")
		return s3.NoopUploader{}
	}
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("s3 uploader unavailable, photo uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

// seedRooms imports the room fixtures once, on an empty catalog.
func seedRooms(ctx context.Context, cfg config.Config, st stores, logger *slog.Logger) error {
	if cfg.RoomFixtures == "" {
		return nil
	}
	empty, err := st.roomsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	data, err := os.ReadFile(cfg.RoomFixtures)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("room fixtures file not found, skipping", "path", cfg.RoomFixtures)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []roomFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	imported := 0
	for _, fx := range fixtures {
		room, err := domainroom.NewRoom(domainroom.CreateParams{
			ID:          domainroom.RoomID(fx.ID),
			Title:       fx.Title,
			Description: fx.Description,
			PriceCents:  fx.PriceCents,
			Capacity:    fx.Capacity,
			Amenities:   append([]string(nil), fx.Amenities...),
			PhotoURL:    fx.PhotoURL,
			Now:         now,
		})
		if err != nil {
			logger.Error("fixture invalid", "room_id", fx.ID, "error", err)
			continue
		}
		if err := st.rooms.Save(ctx, room); err != nil {
			logger.Error("cannot store fixture room", "room_id", fx.ID, "error", err)
			continue
		}
		imported++
	}
	logger.Info("room fixtures imported", "count", imported, "path", cfg.RoomFixtures)
	return nil
}

type roomFixture struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	PhotoURL    string   `json:"photo_url"`
}

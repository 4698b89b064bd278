package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/storelab/orders-service/internal/config"
	"github.com/storelab/orders-service/internal/health"
	"github.com/storelab/orders-service/internal/order"
	"github.com/storelab/orders-service/internal/product"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := run(); err != nil {
		slog.Error("orders service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database connected")

	if err := ensureSchema(db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	nc, err := nats.Connect(cfg.NatsURL, nats.Name("orders-service"))
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer nc.Drain()
	slog.Info("bus connected", "url", nc.ConnectedUrl())

	validator := product.NewNatsValidator(nc, cfg.ValidateTimeout)
	repo := order.NewPostgresRepository(db)
	service := order.NewService(repo, validator)
	handler := order.NewHandler(service, slog.Default())

	if err := handler.Register(nc); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	health.NewHandler(db, nc).Register(app)
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			slog.Error("health server stopped", "error", err)
		}
	}()

	slog.Info("orders service listening", "http", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	return app.Shutdown()
}

func openDB(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
        id           UUID PRIMARY KEY,
        total_amount DOUBLE PRECISION NOT NULL,
        total_items  INT NOT NULL,
        status       TEXT NOT NULL DEFAULT 'PENDING',
        paid         BOOLEAN NOT NULL DEFAULT FALSE,
        created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
    )`); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS order_items (
        id         BIGSERIAL PRIMARY KEY,
        order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
        product_id INT NOT NULL,
        quantity   INT NOT NULL,
        price      DOUBLE PRECISION NOT NULL
    )`); err != nil {
		return err
	}

	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`)
	return err
}

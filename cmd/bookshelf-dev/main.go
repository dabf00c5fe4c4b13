package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"bookshelf/internal/app"
	"bookshelf/migrations"
)

func main() {
	ctx := context.Background()

	log.Println("Starting ClickHouse testcontainer...")

	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword("devpassword"),
		clickhouseTC.WithDatabase("default"),
	)
	if err != nil {
		log.Fatalf("Failed to start ClickHouse container: %v", err)
	}

	// Ensure container cleanup on exit
	defer func() {
		log.Println("Stopping ClickHouse container...")
		if err := clickhouseContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}()

	host, err := clickhouseContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	if err != nil {
		log.Fatalf("Failed to get container port: %v", err)
	}

	log.Printf("ClickHouse started at %s:%s", host, port.Port())

	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", host, port.Port())},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: "default",
			Password: "devpassword",
		},
	})
	if err := migrations.Up(db); err != nil {
		db.Close()
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	db.Close()
	log.Println("Event log schema is up to date")

	// Set environment variables for the application
	os.Setenv("USE_CLICKHOUSE", "true")
	os.Setenv("CLICKHOUSE_HOST", host)
	os.Setenv("CLICKHOUSE_PORT", port.Port())
	os.Setenv("CLICKHOUSE_DATABASE", "default")
	os.Setenv("CLICKHOUSE_USER", "default")
	os.Setenv("CLICKHOUSE_PASSWORD", "devpassword")
	os.Setenv("CLICKHOUSE_USE_TLS", "false")
	os.Setenv("LOG_DEVELOPMENT", "true")

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "5000")
	}

	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set. The Telegram bot stays disabled.")
	}

	log.Println("Starting application with ClickHouse event log...")

	application, err := app.New()
	if err != nil {
		log.Printf("Failed to create application: %v", err)
		return
	}

	// Run blocks until SIGINT/SIGTERM, then shuts the app down
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

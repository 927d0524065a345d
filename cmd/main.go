package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TradeBudgetSaas/internal/appmanager"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func InitPgxPool() (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_NAME"))
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}
	return pool, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	appmanager.SetDB(db)

	pool, err := InitPgxPool()
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pool.Close()
	appmanager.SetPgxPool(pool)

	configPath := "services.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "../services.yaml"
	}
	configs, err := appmanager.LoadServiceSequence(configPath)
	if err != nil {
		log.Fatalf("Failed to load service sequence: %v", err)
	}

	manager := appmanager.NewAppManager()
	manager.AutoRegisterServices(configs)

	if err := manager.StartAll(); err != nil {
		log.Fatalf("Failed to start services: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down services...")
	if err := manager.StopAll(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Shutdown complete")
}

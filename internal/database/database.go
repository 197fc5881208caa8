package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"sharpshop/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service owns the Postgres connection pool
type Service struct {
	db *sql.DB
}

// DSN builds a pgx connection URL from configuration
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// New opens the pool. The connection is verified lazily by Health.
func New(cfg config.DatabaseConfig) (*Service, error) {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Service{db: db}, nil
}

// DB exposes the pool to repositories
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health pings the database and reports pool statistics
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := map[string]string{}
	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprint(dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprint(dbStats.InUse)
	stats["idle"] = fmt.Sprint(dbStats.Idle)
	return stats
}

// Close releases the pool
func (s *Service) Close() error {
	return s.db.Close()
}

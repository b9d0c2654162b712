package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ge-course-scraper/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type DatabaseConfig struct {
	Dialect    repository.Dialect
	Connection *sql.DB
}

// DataSourceName builds the connection string for the configured driver.
// An explicit DB_DSN wins over the postgres parts.
func DataSourceName(env *DbEnv, dialect repository.Dialect) string {
	if env.DSN != "" {
		return env.DSN
	}
	if dialect == repository.DialectSQLite {
		return "file:courses.db?_pragma=busy_timeout(5000)"
	}
	if env.Password == "" {
		return fmt.Sprintf(
			"postgresql://%s@%s:%s/%s?sslmode=disable",
			env.User,
			env.Host,
			env.Port,
			env.Database,
		)
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		env.User,
		env.Password,
		env.Host,
		env.Port,
		env.Database,
	)
}

// NewDBConfig opens the database and ensures the schema exists.
func NewDBConfig(ctx context.Context, env *EnvConfig) (*DatabaseConfig, error) {
	dialect, err := repository.ParseDialect(env.Db.Driver)
	if err != nil {
		return nil, err
	}
	connection, err := sql.Open(dialect.DriverName(), DataSourceName(env.Db, dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == repository.DialectSQLite {
		connection.SetMaxOpenConns(1)
	}
	connection.SetConnMaxIdleTime(5 * time.Minute)

	if err := connection.PingContext(ctx); err != nil {
		connection.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := repository.EnsureSchema(ctx, connection, dialect); err != nil {
		connection.Close()
		return nil, err
	}
	return &DatabaseConfig{
		Dialect:    dialect,
		Connection: connection,
	}, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"docportal/internal/config"
)

// ApplicationName is reported to Postgres so portal sessions show up in pg_stat_activity.
const ApplicationName = "docportal"

const (
	pingTimeout       = 5 * time.Second
	connectTimeoutSec = "10"
)

var (
	sqlOpen = sql.Open

	registerOnce sync.Once
	driverName   string
	registerErr  error
)

// BuildPostgresDSN renders c as a postgres:// URL.
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"host", c.Host}, {"port", c.Port}, {"user", c.User}, {"name", c.Name},
	} {
		if f.v == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("invalid database config: missing %s", strings.Join(missing, ", "))
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("application_name", ApplicationName)
	q.Set("connect_timeout", connectTimeoutSec)
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// tracedDriver registers the otelsql wrapper around pgx once per process.
func tracedDriver() (string, error) {
	registerOnce.Do(func() {
		driverName, registerErr = otelsql.Register("pgx",
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithSQLCommenter(true),
		)
	})
	return driverName, registerErr
}

// NewPostgres opens a traced pool, applies the pool limits, and pings it once.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	name, err := tracedDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}

// Ping checks connectivity, bounded by a short timeout.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

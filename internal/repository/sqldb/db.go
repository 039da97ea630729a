package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config carries the connection parameters for the database. Host, User,
// Password and Name are required for the postgres driver; Path is the file
// location for sqlite.
type Config struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

// DB is the process-wide database handle. It is opened once at startup,
// passed to the repositories that need it, and closed by the owner at
// shutdown. Rebind lets queries be written with ? placeholders regardless
// of the driver underneath.
type DB struct {
	*sql.DB
	driver string
}

// Open validates the configuration, opens the connection pool and verifies
// it with a ping. Missing required parameters fail fast before any network
// round trip; transport or auth failures from the database surface
// unmodified.
func Open(ctx context.Context, cfg Config, logger *logrus.Logger) (*DB, error) {
	driver := strings.TrimSpace(cfg.Driver)
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		handle *sql.DB
		err    error
	)
	switch driver {
	case DriverPostgres:
		handle, err = openPostgres(cfg, logger)
	case DriverSQLite:
		handle, err = openSQLite(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{DB: handle, driver: driver}, nil
}

func openPostgres(cfg Config, logger *logrus.Logger) (*sql.DB, error) {
	var missing []string
	if strings.TrimSpace(cfg.Host) == "" {
		missing = append(missing, "host")
	}
	if strings.TrimSpace(cfg.User) == "" {
		missing = append(missing, "username")
	}
	if cfg.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(cfg.Name) == "" {
		missing = append(missing, "database name")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("database configuration incomplete: missing %s", strings.Join(missing, ", "))
	}

	logger.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"username": cfg.User,
		"password": "[REDACTED]",
		"database": cfg.Name,
	}).Info("connecting to database")

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	handle, err := sql.Open("pgx", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	handle.SetMaxOpenConns(10)
	handle.SetMaxIdleConns(5)
	return handle, nil
}

func openSQLite(cfg Config, logger *logrus.Logger) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("database configuration incomplete: missing sqlite path")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	logger.WithField("path", path).Info("opening sqlite database")

	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// reasonable defaults for sqlite with concurrent readers
	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)

	if _, err := handle.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		handle.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return handle, nil
}

// Driver reports which driver the handle was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Rebind rewrites ? placeholders to the $N form postgres expects. SQLite
// takes ? as-is.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// serialPK returns the dialect's autoincrementing primary key column clause.
func (db *DB) serialPK() string {
	if db.driver == DriverPostgres {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Check runs a trivial query to confirm the connection is alive. Used by
// the connectivity probe endpoint.
func (db *DB) Check(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database check: %w", err)
	}
	return nil
}

// internal/pgsqlpool/pool.go
package pgsqlpool

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// ConnectionConfig holds configuration for a database connection
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // disable, require, verify-ca, verify-full

	// Pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns a config with sensible defaults
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
	}
}

// DSN returns the lib/pq keyword/value connection string. Values are
// quoted so passwords may contain spaces and quotes.
func (c *ConnectionConfig) DSN() string {
	parts := []string{
		"host=" + quoteValue(c.Host),
		fmt.Sprintf("port=%d", c.Port),
		"user=" + quoteValue(c.User),
		"dbname=" + quoteValue(c.DBName),
		"sslmode=" + quoteValue(c.SSLMode),
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteValue(c.Password))
	}
	return strings.Join(parts, " ")
}

func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Validate checks if the connection config is valid
func (c *ConnectionConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be greater than 0")
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections cannot be negative")
	}
	return nil
}

// Pool manages named database connections and the prepared statements
// issued on them
type Pool struct {
	mu          sync.RWMutex
	connections map[string]*sql.DB
	statements  map[string]map[string]*sql.Stmt // connection -> query -> stmt
}

// NewPool creates a new connection pool
func NewPool() *Pool {
	return &Pool{
		connections: make(map[string]*sql.DB),
		statements:  make(map[string]map[string]*sql.Stmt),
	}
}

// AddConnection opens, configures and pings a new named connection
func (p *Pool) AddConnection(ctx context.Context, name string, config *ConnectionConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config for connection %s: %w", name, err)
	}

	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return fmt.Errorf("failed to open connection %s: %w", name, err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping connection %s: %w", name, err)
	}

	if err := p.AddDB(name, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// AddDB registers an already opened handle under name
func (p *Pool) AddDB(name string, db *sql.DB) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.connections[name]; exists {
		return fmt.Errorf("connection %s already exists", name)
	}
	p.connections[name] = db
	return nil
}

// GetConnection returns a named database connection
func (p *Pool) GetConnection(name string) (*sql.DB, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	db, exists := p.connections[name]
	if !exists {
		return nil, fmt.Errorf("connection %s not found", name)
	}

	return db, nil
}

// RemoveConnection closes and removes a named connection
func (p *Pool) RemoveConnection(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, exists := p.connections[name]
	if !exists {
		return fmt.Errorf("connection %s not found", name)
	}

	delete(p.connections, name)
	closeStatements(p.statements[name])
	delete(p.statements, name)
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close connection %s: %w", name, err)
	}
	return nil
}

// ListConnections returns the connection names in order
func (p *Pool) ListConnections() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.connections))
	for name := range p.connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheck checks if a named connection is healthy
func (p *Pool) HealthCheck(ctx context.Context, name string) error {
	db, err := p.GetConnection(name)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("health check failed for connection %s: %w", name, err)
	}

	return nil
}

// Prepare returns a statement for query on the named connection, preparing
// it on first use. Statements live until their connection is removed.
func (p *Pool) Prepare(ctx context.Context, connectionName, query string) (*sql.Stmt, error) {
	p.mu.RLock()
	stmt, ok := p.statements[connectionName][query]
	p.mu.RUnlock()
	if ok {
		return stmt, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	db, exists := p.connections[connectionName]
	if !exists {
		return nil, fmt.Errorf("connection %s not found", connectionName)
	}
	if stmt, ok := p.statements[connectionName][query]; ok {
		return stmt, nil
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement on %s: %w", connectionName, err)
	}
	if p.statements[connectionName] == nil {
		p.statements[connectionName] = make(map[string]*sql.Stmt)
	}
	p.statements[connectionName][query] = stmt
	return stmt, nil
}

// StatementCount returns how many statements are prepared on a connection
func (p *Pool) StatementCount(connectionName string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.statements[connectionName])
}

// Exists runs a prepared SELECT EXISTS(...) style query returning one boolean
func (p *Pool) Exists(ctx context.Context, connectionName, query string, args ...any) (bool, error) {
	stmt, err := p.Prepare(ctx, connectionName, query)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := stmt.QueryRowContext(ctx, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func closeStatements(stmts map[string]*sql.Stmt) {
	for _, stmt := range stmts {
		stmt.Close()
	}
}

// Close closes all connections
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for name, db := range p.connections {
		closeStatements(p.statements[name])
		if err := db.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close connection %s: %w", name, err)
		}
	}

	p.connections = make(map[string]*sql.DB)
	p.statements = make(map[string]map[string]*sql.Stmt)

	return lastErr
}

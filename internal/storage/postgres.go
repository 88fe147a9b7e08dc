// internal/storage/postgres.go
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"rrguard.io/internal/models"
	"rrguard.io/internal/pgsqlpool"
)

// PostgresGateway implements Gateway over a PowerDNS style records table
// (id, name, type, content, ttl, prio) reached through a named pool
// connection.
type PostgresGateway struct {
	pool           *pgsqlpool.Pool
	connectionName string
	tablePrefix    string

	existsNameTypeNot string
	existsNameType    string
	existsNameContent string
	existsContentIn   string
}

// Config holds configuration for PostgreSQL storage
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TablePrefix     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
	}
}

// NewPostgresGateway opens the named connection in pool and prepares the
// gateway's queries
func NewPostgresGateway(ctx context.Context, pool *pgsqlpool.Pool, connectionName string, config *Config) (*PostgresGateway, error) {
	connConfig := &pgsqlpool.ConnectionConfig{
		Host:            config.Host,
		Port:            config.Port,
		User:            config.User,
		Password:        config.Password,
		DBName:          config.DBName,
		SSLMode:         config.SSLMode,
		MaxOpenConns:    config.MaxOpenConns,
		MaxIdleConns:    config.MaxIdleConns,
		ConnMaxLifetime: config.ConnMaxLifetime,
		ConnMaxIdleTime: config.ConnMaxIdleTime,
	}

	if err := pool.AddConnection(ctx, connectionName, connConfig); err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return NewPostgresGatewayFromPool(pool, connectionName, config.TablePrefix), nil
}

// NewPostgresGatewayFromPool uses a connection already registered in pool
func NewPostgresGatewayFromPool(pool *pgsqlpool.Pool, connectionName, tablePrefix string) *PostgresGateway {
	g := &PostgresGateway{
		pool:           pool,
		connectionName: connectionName,
		tablePrefix:    tablePrefix,
	}

	table := pq.QuoteIdentifier(g.TableName(LogicalRecordsTable))

	g.existsNameTypeNot = fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE LOWER(name) = LOWER($1) AND type <> $2 AND id <> $3
		)`, table)

	g.existsNameType = fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE LOWER(name) = LOWER($1) AND type = $2 AND id <> $3
		)`, table)

	g.existsNameContent = fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE LOWER(name) = LOWER($1) AND type = $2 AND LOWER(content) = LOWER($3) AND id <> $4
		)`, table)

	g.existsContentIn = fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE LOWER(content) = LOWER($1) AND type = ANY($2)
		)`, table)

	return g
}

// ExistsWithNameAndTypeNot implements Gateway
func (g *PostgresGateway) ExistsWithNameAndTypeNot(ctx context.Context, name string, excludedType models.RecordType, excludeID int) (bool, error) {
	exists, err := g.pool.Exists(ctx, g.connectionName, g.existsNameTypeNot, name, excludedType.String(), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to query records at %s not of type %s: %w", name, excludedType, err)
	}
	return exists, nil
}

// ExistsWithNameAndType implements Gateway
func (g *PostgresGateway) ExistsWithNameAndType(ctx context.Context, name string, rtype models.RecordType, excludeID int) (bool, error) {
	exists, err := g.pool.Exists(ctx, g.connectionName, g.existsNameType, name, rtype.String(), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to query %s records at %s: %w", rtype, name, err)
	}
	return exists, nil
}

// ExistsWithNameTypeAndContent implements Gateway
func (g *PostgresGateway) ExistsWithNameTypeAndContent(ctx context.Context, name string, rtype models.RecordType, content string, excludeID int) (bool, error) {
	exists, err := g.pool.Exists(ctx, g.connectionName, g.existsNameContent, name, rtype.String(), strings.TrimSpace(content), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to query %s records at %s with content %s: %w", rtype, name, content, err)
	}
	return exists, nil
}

// ExistsWithContentAndTypeIn implements Gateway
func (g *PostgresGateway) ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error) {
	exists, err := g.pool.Exists(ctx, g.connectionName, g.existsContentIn, strings.TrimSpace(content), pq.Array(typeStrings(types)))
	if err != nil {
		return false, fmt.Errorf("failed to query records with content %s: %w", content, err)
	}
	return exists, nil
}

// TableName implements Gateway. Every logical table shares the prefix.
func (g *PostgresGateway) TableName(logical string) string {
	return g.tablePrefix + logical
}

// Health checks the underlying connection
func (g *PostgresGateway) Health(ctx context.Context) error {
	return g.pool.HealthCheck(ctx, g.connectionName)
}

// Close removes the gateway's connection from the pool
func (g *PostgresGateway) Close() error {
	return g.pool.RemoveConnection(g.connectionName)
}

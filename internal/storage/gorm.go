// internal/storage/gorm.go
package storage

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rrguard.io/internal/models"
)

// recordRow maps the records table for GORM
type recordRow struct {
	ID       int    `gorm:"primaryKey;column:id"`
	Name     string `gorm:"column:name;size:255;index"`
	Type     string `gorm:"column:type;size:10"`
	Content  string `gorm:"column:content;type:text"`
	TTL      int    `gorm:"column:ttl"`
	Priority int    `gorm:"column:prio"`
}

// GormGateway implements Gateway for MySQL and SQLite record stores
type GormGateway struct {
	db     *gorm.DB
	prefix string
	table  string
}

// OpenGorm opens a MySQL or SQLite database by driver name
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return db, nil
}

// NewGormGateway queries the records table named tablePrefix + "records"
func NewGormGateway(db *gorm.DB, tablePrefix string) *GormGateway {
	g := &GormGateway{db: db, prefix: tablePrefix}
	g.table = g.TableName(LogicalRecordsTable)
	return g
}

// Migrate creates the records table when it does not exist
func (g *GormGateway) Migrate(ctx context.Context) error {
	if err := g.db.WithContext(ctx).Table(g.table).AutoMigrate(&recordRow{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", g.table, err)
	}
	return nil
}

// Insert stores a record; used to seed stores and in tests
func (g *GormGateway) Insert(ctx context.Context, r models.Record) (int, error) {
	row := recordRow{
		ID:       r.ID,
		Name:     models.NormalizeDomainName(r.Name),
		Type:     r.Type.String(),
		Content:  r.Content,
		TTL:      r.TTL,
		Priority: r.Priority,
	}
	if err := g.db.WithContext(ctx).Table(g.table).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert %s record %s: %w", r.Type, r.Name, err)
	}
	return row.ID, nil
}

func (g *GormGateway) exists(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (bool, error) {
	var count int64
	err := scope(g.db.WithContext(ctx).Table(g.table)).Limit(1).Count(&count).Error
	return count > 0, err
}

// ExistsWithNameAndTypeNot implements Gateway
func (g *GormGateway) ExistsWithNameAndTypeNot(ctx context.Context, name string, excludedType models.RecordType, excludeID int) (bool, error) {
	exists, err := g.exists(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(name) = ? AND type <> ? AND id <> ?", strings.ToLower(name), excludedType.String(), excludeID)
	})
	if err != nil {
		return false, fmt.Errorf("failed to query records at %s not of type %s: %w", name, excludedType, err)
	}
	return exists, nil
}

// ExistsWithNameAndType implements Gateway
func (g *GormGateway) ExistsWithNameAndType(ctx context.Context, name string, rtype models.RecordType, excludeID int) (bool, error) {
	exists, err := g.exists(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(name) = ? AND type = ? AND id <> ?", strings.ToLower(name), rtype.String(), excludeID)
	})
	if err != nil {
		return false, fmt.Errorf("failed to query %s records at %s: %w", rtype, name, err)
	}
	return exists, nil
}

// ExistsWithNameTypeAndContent implements Gateway
func (g *GormGateway) ExistsWithNameTypeAndContent(ctx context.Context, name string, rtype models.RecordType, content string, excludeID int) (bool, error) {
	exists, err := g.exists(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(name) = ? AND type = ? AND LOWER(content) = ? AND id <> ?",
			strings.ToLower(name), rtype.String(), strings.ToLower(strings.TrimSpace(content)), excludeID)
	})
	if err != nil {
		return false, fmt.Errorf("failed to query %s records at %s with content %s: %w", rtype, name, content, err)
	}
	return exists, nil
}

// ExistsWithContentAndTypeIn implements Gateway
func (g *GormGateway) ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error) {
	if len(types) == 0 {
		return false, nil
	}
	exists, err := g.exists(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(content) = ? AND type IN ?", strings.ToLower(strings.TrimSpace(content)), typeStrings(types))
	})
	if err != nil {
		return false, fmt.Errorf("failed to query records with content %s: %w", content, err)
	}
	return exists, nil
}

// TableName implements Gateway. Every logical table shares the prefix.
func (g *GormGateway) TableName(logical string) string {
	return g.prefix + logical
}

// Close releases the underlying connection pool
func (g *GormGateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

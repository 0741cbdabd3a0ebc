package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

// record is the persisted form of an order snapshot.
type record struct {
	OrderID   string    `gorm:"primaryKey"`
	Status    string    `gorm:"index;not null"`
	Payload   []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (record) TableName() string { return "order_snapshots" }

// Cache keeps the last known state of every order in a local SQLite file so
// reads keep working while PostgreSQL is unreachable.
type Cache struct {
	db *gorm.DB
}

// Open opens (or creates) the snapshot database at path. Use ":memory:" for a
// throwaway cache.
func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("snapshot db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&record{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save stores the order unless a snapshot with a newer UpdatedAt exists.
// Timestamps are stored in UTC so the text comparison in SQLite orders them
// correctly whatever zone the caller used.
func (c *Cache) Save(ctx context.Context, order model.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	rec := record{
		OrderID:   order.ID,
		Status:    string(order.Status),
		Payload:   payload,
		UpdatedAt: order.UpdatedAt.UTC(),
		CreatedAt: order.CreatedAt.UTC(),
	}

	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "payload", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "excluded.updated_at >= order_snapshots.updated_at"},
		}},
	}).Create(&rec).Error
}

// Get returns the snapshot of one order.
func (c *Cache) Get(ctx context.Context, id string) (*model.Order, error) {
	var rec record
	err := c.db.WithContext(ctx).Where("order_id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return decode(rec)
}

// List returns snapshots in the given statuses, oldest first. No statuses means all.
func (c *Cache) List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	query := c.db.WithContext(ctx).Order("created_at")
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, string(s))
		}
		query = query.Where("status IN ?", names)
	}

	var recs []record
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(recs))
	for _, rec := range recs {
		o, err := decode(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func decode(rec record) (*model.Order, error) {
	var o model.Order
	if err := json.Unmarshal(rec.Payload, &o); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", rec.OrderID, err)
	}
	return &o, nil
}

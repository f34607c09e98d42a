package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrKeyNotFound is returned by KV.Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is a durable key-value slot. The table store keeps its whole table set
// under one key; the demo session lives under another key of the same KV.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// MemoryKV keeps slots in process memory. FailWrites makes every Set fail,
// which mimics a browser storage quota being exhausted.
type MemoryKV struct {
	mu         sync.Mutex
	data       map[string][]byte
	FailWrites bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("memory kv: quota exceeded")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// RedisKV stores slots as plain redis strings.
type RedisKV struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client, timeout: 5 * time.Second}
}

func (r *RedisKV) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisKV) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// KVSlot is one row of the kv_slots table.
type KVSlot struct {
	Key       string         `gorm:"primaryKey;column:slot_key"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// TableName specifies the table name for KVSlot model
func (KVSlot) TableName() string {
	return "kv_slots"
}

// GormKV stores slots as rows in a SQL database.
type GormKV struct {
	db *gorm.DB
}

// NewGormKV migrates the kv_slots table and returns a KV backed by it.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&KVSlot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_slots: %w", err)
	}
	return &GormKV{db: db}, nil
}

func (g *GormKV) Get(key string) ([]byte, error) {
	var slot KVSlot
	err := g.db.Where("slot_key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv_slots get %s: %w", key, err)
	}
	return []byte(slot.Value), nil
}

func (g *GormKV) Set(key string, value []byte) error {
	slot := KVSlot{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("kv_slots set %s: %w", key, err)
	}
	return nil
}

func (g *GormKV) Delete(key string) error {
	if err := g.db.Where("slot_key = ?", key).Delete(&KVSlot{}).Error; err != nil {
		return fmt.Errorf("kv_slots delete %s: %w", key, err)
	}
	return nil
}

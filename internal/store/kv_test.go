package store

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	if _, err := kv.Get("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Get() error = %v, want ErrKeyNotFound", err)
	}

	value := []byte(`{"a":1}`)
	if err := kv.Set("k", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'
	got, err := kv.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get() = %s, stored bytes should be copied", got)
	}

	kv.FailWrites = true
	if err := kv.Set("k", []byte("x")); err == nil {
		t.Error("Set() should fail when FailWrites is on")
	}

	kv.Delete("k")
	if _, err := kv.Get("k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() after Delete error = %v", err)
	}
}

func newGormKV(t *testing.T) *GormKV {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// Each new connection to :memory: would see an empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	kv, err := NewGormKV(db)
	if err != nil {
		t.Fatalf("NewGormKV() error = %v", err)
	}
	return kv
}

func TestGormKV(t *testing.T) {
	kv := newGormKV(t)

	if _, err := kv.Get("flowguide-demo-store"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Get() error = %v, want ErrKeyNotFound", err)
	}

	if err := kv.Set("flowguide-demo-store", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Set("flowguide-demo-store", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}

	got, err := kv.Get("flowguide-demo-store")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Get() = %s, want latest value", got)
	}

	if err := kv.Delete("flowguide-demo-store"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := kv.Get("flowguide-demo-store"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() after Delete error = %v", err)
	}
}

func TestStoreOverGormKV(t *testing.T) {
	kv := newGormKV(t)
	s := New(kv, WithLogger(zap.NewNop()))

	goal, err := s.Insert(Goals, Record{"user_id": "demo-alex", "name": "Boat"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	reloaded := New(kv, WithLogger(zap.NewNop()))
	goals, _ := reloaded.GetTable(Goals)
	for _, g := range goals {
		if g.ID() == goal.ID() {
			return
		}
	}
	t.Fatal("goal should be read back from the database slot")
}
